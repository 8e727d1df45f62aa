package stageload

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Default timeouts.
const (
	// DefaultFetchTimeout bounds a single asset fetch.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultStepTimeout bounds one pipeline step, its fetches included.
	DefaultStepTimeout = 2 * time.Minute
)

// settings holds configuration shared by Loader and Pipeline.
type settings struct {
	ctx          context.Context
	logger       *log.Logger
	store        *Store
	concurrency  int
	fetchTimeout time.Duration
	stepTimeout  time.Duration
}

func defaultSettings() settings {
	return settings{
		ctx:          context.Background(),
		logger:       log.New(io.Discard),
		fetchTimeout: DefaultFetchTimeout,
		stepTimeout:  DefaultStepTimeout,
	}
}

// Option configures a Loader or a Pipeline.
type Option func(*settings)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore shares an existing Store instead of creating a new one.
func WithStore(st *Store) Option {
	return func(s *settings) {
		if st != nil {
			s.store = st
		}
	}
}

// WithConcurrency limits how many fetches are in flight. Zero or less
// selects a value from GOMAXPROCS (see ResolveConcurrency).
func WithConcurrency(n int) Option {
	return func(s *settings) {
		s.concurrency = n
	}
}

// WithFetchTimeout bounds each fetch. Zero or less disables the bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.fetchTimeout = d
	}
}

// WithStepTimeout bounds each pipeline step. Zero or less disables the bound.
// Ignored by Loader.
func WithStepTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.stepTimeout = d
	}
}

// WithContext sets the context Loader fetches run under. Cancelling it
// fails in-flight and future fetches. Ignored by Pipeline, which takes its
// context from Run.
func WithContext(ctx context.Context) Option {
	return func(s *settings) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// withTimeout derives a context bounded by d, or a plain cancelable one.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
