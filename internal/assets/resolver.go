package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-stageload"
)

// Resolver combines several sources with fallback logic.
// Sources are tried in order; the next one is consulted only when the
// current one reports ErrAssetNotFound. Validation, decoding, status and
// I/O errors stop the chain.
type Resolver struct {
	sources []stageload.Fetcher
}

// NewResolver creates a Resolver over the given sources. Nil entries are skipped.
func NewResolver(sources ...stageload.Fetcher) *Resolver {
	r := &Resolver{}
	for _, s := range sources {
		if s != nil {
			r.sources = append(r.sources, s)
		}
	}
	return r
}

// Fetch tries each source in turn.
func (r *Resolver) Fetch(ctx context.Context, req stageload.Request) (stageload.Resource, error) {
	if len(r.sources) == 0 {
		return nil, ErrNoSources
	}

	var lastErr error
	for _, src := range r.sources {
		res, err := src.Fetch(ctx, req)
		if err == nil {
			return res, nil
		}
		// Only fall back for "not found" errors
		if !isNotFoundError(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// Len returns the number of configured sources.
func (r *Resolver) Len() int {
	return len(r.sources)
}

// String lists the sources in lookup order.
func (r *Resolver) String() string {
	names := make([]string, 0, len(r.sources))
	for _, s := range r.sources {
		names = append(names, fmt.Sprint(s))
	}
	return strings.Join(names, " -> ")
}

// isNotFoundError checks if the error indicates the asset was not found.
func isNotFoundError(err error) bool {
	return errors.Is(err, ErrAssetNotFound)
}

// Compile-time interface check.
var _ stageload.Fetcher = (*Resolver)(nil)
