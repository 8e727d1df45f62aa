package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/alnah/go-stageload"
)

// DefaultMaxSize caps a single asset body.
const DefaultMaxSize int64 = 32 << 20 // 32MB

// HTTPFetcher loads assets from a remote origin.
// Implements stageload.Fetcher.
type HTTPFetcher struct {
	base      *url.URL
	client    *http.Client
	userAgent string
	maxSize   int64
}

// HTTPOption configures an HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithHTTPClient replaces the default client. A nil client is ignored.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) HTTPOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxSize limits the body size in bytes. Zero or less keeps DefaultMaxSize.
func WithMaxSize(n int64) HTTPOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxSize = n
		}
	}
}

// NewHTTPFetcher creates an HTTPFetcher resolving request URLs against baseURL.
// Returns ErrInvalidBaseURL if baseURL is not an absolute http(s) URL.
func NewHTTPFetcher(baseURL string, opts ...HTTPOption) (*HTTPFetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	// A trailing slash makes relative references resolve under the base path.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	f := &HTTPFetcher{
		base:    u,
		client:  http.DefaultClient,
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch issues a GET for req.URL and decodes the body per req.Kind.
// A 404 wraps both ErrHTTPStatus and ErrAssetNotFound.
func (f *HTTPFetcher) Fetch(ctx context.Context, req stageload.Request) (stageload.Resource, error) {
	if err := ValidateAssetURL(req.URL); err != nil {
		return nil, err
	}

	target, err := f.resolve(req.URL)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if f.userAgent != "" {
		httpReq.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssetRead, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, URL: target}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	if int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("%w: %s (max %d bytes)", ErrAssetTooLarge, target, f.maxSize)
	}

	return decodeResource(req, data)
}

// resolve joins a site-relative request URL onto the base, keeping the
// base path prefix. Absolute URLs are rejected unless they share the base origin.
func (f *HTTPFetcher) resolve(raw string) (string, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAssetURL, err)
	}
	if ref.IsAbs() {
		if ref.Scheme != f.base.Scheme || ref.Host != f.base.Host {
			return "", fmt.Errorf("%w: %q is outside %s", ErrInvalidAssetURL, raw, f.base)
		}
		return ref.String(), nil
	}
	ref.Path = strings.TrimPrefix(ref.Path, "/")
	return f.base.ResolveReference(ref).String(), nil
}

// String describes the source for logs.
func (f *HTTPFetcher) String() string {
	return "http(" + f.base.String() + ")"
}

// Compile-time interface check.
var _ stageload.Fetcher = (*HTTPFetcher)(nil)
