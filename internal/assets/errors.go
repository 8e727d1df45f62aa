package assets

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for asset operations.
var (
	// ErrAssetNotFound indicates the requested asset does not exist in a source.
	// Resolver falls through to the next source only on this error.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrInvalidAssetURL indicates the asset URL is empty, contains a null
	// byte, or contains traversal segments.
	ErrInvalidAssetURL = errors.New("invalid asset url")

	// ErrInvalidBasePath indicates the configured base path is not a valid directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrInvalidBaseURL indicates the configured server origin is not an http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base url")

	// ErrAssetRead indicates an I/O error occurred while reading an asset.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrAssetTooLarge indicates the asset exceeds the configured size limit.
	ErrAssetTooLarge = errors.New("asset exceeds size limit")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrHTTPStatus indicates the server answered with a non-2xx status.
	ErrHTTPStatus = errors.New("unexpected http status")

	// ErrUnsupportedImage indicates the asset could not be decoded as a raster image.
	ErrUnsupportedImage = errors.New("unsupported image format")

	// ErrNoSources indicates a Resolver was built without any fetcher.
	ErrNoSources = errors.New("no asset sources configured")
)

// StatusError reports a non-2xx answer. It matches ErrHTTPStatus, and
// also ErrAssetNotFound for a 404.
type StatusError struct {
	Code   int
	Status string
	URL    string
}

func (e *StatusError) Error() string {
	if e.Code == http.StatusNotFound {
		return fmt.Sprintf("%v: %v: %s %s", ErrAssetNotFound, ErrHTTPStatus, e.Status, e.URL)
	}
	return fmt.Sprintf("%v: %s %s", ErrHTTPStatus, e.Status, e.URL)
}

// Is matches the sentinels the status maps to.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrHTTPStatus:
		return true
	case ErrAssetNotFound:
		return e.Code == http.StatusNotFound
	}
	return false
}
