// Package game boots a loading session: it creates the display surface,
// selects the level and drives the asset loader until the game is ready.
package game

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/alnah/go-stageload"
	"github.com/alnah/go-stageload/internal/config"
	"github.com/alnah/go-stageload/internal/level"
	"github.com/alnah/go-stageload/internal/logging"
)

// ShipSprite is the player sprite requested at boot.
const ShipSprite = "ship.png"

// Sentinel errors for session operations.
var (
	ErrNilConfig      = errors.New("config cannot be nil")
	ErrAlreadyStarted = errors.New("session already started")
	ErrClosed         = errors.New("session closed")
)

// Surface is the display area sized from the viewport.
type Surface struct {
	Width  int
	Height int
}

// Bounds returns the surface rectangle anchored at the origin.
func (s Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// Session owns the state of one game boot. Create with New, then Start.
type Session struct {
	ID      uuid.UUID
	Config  *config.Config
	Surface Surface
	Level   *level.Level

	fetcher stageload.Fetcher
	logger  *log.Logger
	store   *stageload.Store

	ctx    context.Context
	cancel context.CancelFunc
	ready  chan struct{}

	mu       sync.Mutex
	started  bool
	closed   bool
	err      error
	failures int
	begin    time.Time
	elapsed  time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. A nil logger is ignored.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Session fetching through f. The level comes from
// cfg.Level; the surface from cfg.Viewport.
func New(cfg *config.Config, f stageload.Fetcher, opts ...Option) (*Session, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if f == nil {
		return nil, stageload.ErrNilFetcher
	}

	lvl, err := level.New(cfg.Level.Name, cfg.Level.Dir)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:      uuid.New(),
		Config:  cfg,
		Surface: Surface{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		Level:   lvl,
		fetcher: f,
		logger:  logging.Discard(),
		store:   stageload.NewStore(),
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.ID.String())
	return s, nil
}

// Start begins loading in the background using the configured loader mode.
// Cancelling ctx or calling Close aborts outstanding fetches.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.begin = time.Now()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	mode := s.Config.Loader.ResolvedMode()
	s.logger.Info("session starting",
		"mode", mode,
		"level", s.Level.Name,
		"surface", fmt.Sprintf("%dx%d", s.Surface.Width, s.Surface.Height))

	switch mode {
	case config.ModeStaged:
		s.startStaged()
	default:
		go s.runPipeline()
	}
	return nil
}

// loaderOptions maps config onto loader options.
func (s *Session) loaderOptions() []stageload.Option {
	lc := s.Config.Loader
	opts := []stageload.Option{
		stageload.WithLogger(s.logger),
		stageload.WithStore(s.store),
		stageload.WithContext(s.ctx),
		stageload.WithConcurrency(lc.Concurrency),
	}
	if d := lc.FetchTimeoutDuration(); d > 0 {
		opts = append(opts, stageload.WithFetchTimeout(d))
	}
	if d := lc.StepTimeoutDuration(); d > 0 {
		opts = append(opts, stageload.WithStepTimeout(d))
	}
	return opts
}

// runPipeline loads the boot assets as ordered steps: fetch sprites and
// level, process the level, then mark the session loaded.
func (s *Session) runPipeline() {
	p := stageload.NewPipeline(s.fetcher, s.loaderOptions()...)
	p.AddStep("assets", stageload.LoadStep(
		stageload.Request{URL: ShipSprite, Kind: stageload.KindImage},
		s.Level.Request(),
	)).AddStep("process level", s.Level.Step())

	err := p.Run(s.ctx)
	s.finish(err, countFetchErrors(err))
}

// countFetchErrors counts the fetch failures in err's tree. Step errors
// that are not fetch failures count as zero.
func countFetchErrors(err error) int {
	if err == nil {
		return 0
	}
	if _, ok := err.(*stageload.FetchError); ok {
		return 1
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		n := 0
		for _, e := range u.Unwrap() {
			n += countFetchErrors(e)
		}
		return n
	case interface{ Unwrap() error }:
		return countFetchErrors(u.Unwrap())
	}
	return 0
}

// startStaged queues the boot as loader stages. The final stage runs on
// whichever goroutine completes the last fetch.
func (s *Session) startStaged() {
	ld := stageload.NewLoader(s.fetcher, s.loaderOptions()...)
	ld.PushStage(ld.LoadResources)

	// Request URLs were checked when the level was built, so enqueue cannot fail.
	_ = ld.EnqueueImage(ShipSprite)
	_ = s.Level.Register(ld)

	ld.PushStage(func() {
		failures := ld.Failures()
		errs := make([]error, 0, len(failures)+1)
		for i := range failures {
			errs = append(errs, &failures[i])
		}
		if err := s.Level.Err(); err != nil {
			errs = append(errs, err)
		}
		s.finish(errors.Join(errs...), len(failures))
	})

	ld.Start()
}

// finish records the outcome and releases waiters.
func (s *Session) finish(err error, failures int) {
	s.mu.Lock()
	s.err = err
	s.failures = failures
	s.elapsed = time.Since(s.begin)
	elapsed := s.elapsed
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("session failed", "err", err, "elapsed", elapsed)
	} else {
		s.logger.Info("session loaded",
			"resources", s.store.Len(),
			"levelBytes", s.Level.Size(),
			"elapsed", elapsed)
	}
	close(s.ready)
}

// Ready is closed once loading has finished, successfully or not.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// Wait blocks until loading finishes or ctx ends, and returns the load error.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ready:
		return s.Err()
	}
}

// Err returns the load error, nil while loading or after success.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Store returns the loaded resources.
func (s *Session) Store() *stageload.Store {
	return s.store
}

// Close aborts outstanding fetches. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.logger.Debug("session closed")
	return nil
}

// Summary describes a finished session.
type Summary struct {
	ID        string
	Mode      string
	Level     string
	Resources []string
	Failures  int
	Elapsed   time.Duration
	Err       error
}

// Summary reports the session outcome. Call after Ready is closed.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		ID:        s.ID.String(),
		Mode:      s.Config.Loader.ResolvedMode(),
		Level:     s.Level.URL,
		Resources: s.store.URLs(),
		Failures:  s.failures,
		Elapsed:   s.elapsed,
		Err:       s.err,
	}
}
