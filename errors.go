package stageload

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrEmptyURL    = errors.New("asset URL cannot be empty")
	ErrUnknownKind = errors.New("unknown asset kind")
	ErrNilFetcher  = errors.New("fetcher cannot be nil")

	// Fetch errors.
	ErrFetch        = errors.New("asset fetch failed")
	ErrKindMismatch = errors.New("fetched resource has unexpected kind")

	// Pipeline errors.
	ErrStepFailed     = errors.New("pipeline step failed")
	ErrPipelineActive = errors.New("pipeline already running")
	ErrBatchClosed    = errors.New("step has already returned")
)

// FetchError records a failed request. It wraps both ErrFetch and the
// underlying cause so callers can test for either.
type FetchError struct {
	Request Request
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Request, e.Err)
}

// Unwrap exposes ErrFetch and the cause to errors.Is / errors.As.
func (e *FetchError) Unwrap() []error {
	return []error{ErrFetch, e.Err}
}
