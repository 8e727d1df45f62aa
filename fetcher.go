package stageload

import "context"

// Fetcher retrieves a single asset. Implementations may read from HTTP,
// the local filesystem, embedded data, or a chain of those.
type Fetcher interface {
	// Fetch loads the asset named by req. The returned Resource must match
	// req.Kind: *Image for KindImage, *Text for KindText. Results are
	// stored under req.URL regardless of the resource's Source.
	Fetch(ctx context.Context, req Request) (Resource, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, req Request) (Resource, error)

// Fetch calls f(ctx, req).
func (f FetcherFunc) Fetch(ctx context.Context, req Request) (Resource, error) {
	return f(ctx, req)
}

// fetchChecked runs f and enforces the kind contract so a misbehaving
// fetcher cannot store an image under a text request.
func fetchChecked(ctx context.Context, f Fetcher, req Request) (Resource, error) {
	res, err := f.Fetch(ctx, req)
	if err != nil {
		return nil, &FetchError{Request: req, Err: err}
	}
	if res == nil || res.Kind() != req.Kind {
		return nil, &FetchError{Request: req, Err: ErrKindMismatch}
	}
	return res, nil
}

func nilFetcher(context.Context, Request) (Resource, error) {
	return nil, ErrNilFetcher
}

// Compile-time interface check.
var _ Fetcher = FetcherFunc(nil)
