package assets

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/alnah/go-stageload"
)

//go:embed static
var static embed.FS

// EmbeddedFetcher loads the built-in assets compiled into the binary:
// the ship sprite and the default test level.
// Implements stageload.Fetcher.
type EmbeddedFetcher struct {
	fsys fs.FS
}

// NewEmbeddedFetcher creates an EmbeddedFetcher.
func NewEmbeddedFetcher() *EmbeddedFetcher {
	return &EmbeddedFetcher{fsys: StaticFS()}
}

// StaticFS returns the built-in assets rooted so that "ship.png" and
// "Levels/TestLevel.svg" are top-level paths.
func StaticFS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// fs.Sub only fails on an invalid directory name.
		panic(err)
	}
	return sub
}

// Fetch reads req.URL from the embedded assets.
func (e *EmbeddedFetcher) Fetch(ctx context.Context, req stageload.Request) (stageload.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateAssetURL(req.URL); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(e.fsys, cleanAssetPath(req.URL))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, req.URL)
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	return decodeResource(req, data)
}

// String describes the source for logs.
func (e *EmbeddedFetcher) String() string {
	return "embedded"
}

// Compile-time interface check.
var _ stageload.Fetcher = (*EmbeddedFetcher)(nil)
