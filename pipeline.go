package stageload

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StepFunc is one pipeline step. It requests the assets it needs through b
// and may read earlier results from b.Store(). The pipeline awaits every
// request made through b before running the next step.
type StepFunc func(ctx context.Context, b *Batch) error

type step struct {
	name string
	fn   StepFunc
}

// Pipeline runs steps in order, each one gated on the fetches of the
// previous. Unlike Loader, completion is tracked per handle, so a request
// can never be missed by the wait.
type Pipeline struct {
	fetcher Fetcher
	cfg     settings
	store   *Store
	pool    *fetchPool

	mu      sync.Mutex
	steps   []step
	running bool
}

// NewPipeline creates a Pipeline that fetches through f.
func NewPipeline(f Fetcher, opts ...Option) *Pipeline {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.store == nil {
		cfg.store = NewStore()
	}
	if f == nil {
		f = FetcherFunc(nilFetcher)
	}

	return &Pipeline{
		fetcher: f,
		cfg:     cfg,
		store:   cfg.store,
		pool:    newFetchPool(cfg.concurrency),
	}
}

// AddStep appends a named step. Returns p for chaining.
func (p *Pipeline) AddStep(name string, fn StepFunc) *Pipeline {
	if fn == nil {
		return p
	}
	p.mu.Lock()
	p.steps = append(p.steps, step{name: name, fn: fn})
	p.mu.Unlock()
	return p
}

// Steps returns the step names in run order.
func (p *Pipeline) Steps() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.name
	}
	return names
}

// Store returns the store results are written to.
func (p *Pipeline) Store() *Store {
	return p.store
}

// Run executes every step in order. It stops at the first step whose
// function or fetches fail, returning an error wrapping ErrStepFailed and
// the cause. Run is not reentrant.
func (p *Pipeline) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return ErrPipelineActive
	}
	p.running = true
	steps := append([]step(nil), p.steps...)
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	for i, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.runStep(ctx, i, s); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) runStep(ctx context.Context, index int, s step) error {
	ctx, cancel := withTimeout(ctx, p.cfg.stepTimeout)
	defer cancel()

	logger := p.cfg.logger.With("step", s.name, "index", index)
	b := &Batch{
		ctx:          ctx,
		fetcher:      p.fetcher,
		store:        p.store,
		pool:         p.pool,
		logger:       logger,
		fetchTimeout: p.cfg.fetchTimeout,
	}

	start := time.Now()
	if err := s.fn(ctx, b); err != nil {
		b.close()
		return fmt.Errorf("%w: %s: %w", ErrStepFailed, s.name, err)
	}
	if err := b.wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrStepFailed, s.name, err)
	}

	logger.Info("step complete", "assets", b.Len(), "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// LoadStep returns a step that requests reqs and nothing else.
func LoadStep(reqs ...Request) StepFunc {
	return func(_ context.Context, b *Batch) error {
		for _, req := range reqs {
			if _, err := b.Request(req); err != nil {
				return err
			}
		}
		return nil
	}
}
