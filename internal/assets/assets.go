package assets

import "github.com/alnah/go-stageload"

// Options selects the sources assembled by New.
type Options struct {
	BasePath        string // Local directory, tried first (empty = none)
	BaseURL         string // Remote origin, tried second (empty = none)
	UserAgent       string
	MaxSize         int64 // Bytes per asset (0 = DefaultMaxSize)
	DisableEmbedded bool  // Skip the built-in fallback
}

// New assembles the standard source chain: filesystem, then HTTP, then
// embedded assets. Returns an error if a configured source is invalid, and
// ErrNoSources if every source is disabled.
func New(opts Options) (*Resolver, error) {
	var sources []stageload.Fetcher

	if opts.BasePath != "" {
		fsf, err := NewFilesystemFetcher(opts.BasePath, opts.MaxSize)
		if err != nil {
			return nil, err
		}
		sources = append(sources, fsf)
	}

	if opts.BaseURL != "" {
		hf, err := NewHTTPFetcher(opts.BaseURL, WithUserAgent(opts.UserAgent), WithMaxSize(opts.MaxSize))
		if err != nil {
			return nil, err
		}
		sources = append(sources, hf)
	}

	if !opts.DisableEmbedded {
		sources = append(sources, NewEmbeddedFetcher())
	}

	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	return NewResolver(sources...), nil
}
