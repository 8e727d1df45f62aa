package stageload

import (
	"errors"
	"slices"
	"sync"
)

// Loader sequences initialization stages. Each stage may enqueue assets;
// a LoadResources stage fetches everything pending and advances to the next
// stage once every fetch of that round has completed.
//
// Stages do not chain on their own. Start runs exactly one stage, so a stage
// that should be followed by another must call Start itself (see Then).
// LoadResources does this after its round completes.
type Loader struct {
	fetcher Fetcher
	cfg     settings
	store   *Store
	pool    *fetchPool

	mu       sync.Mutex
	pending  []Request
	stages   []func()
	failures []FetchError
	rounds   int
}

// NewLoader creates a Loader that fetches through f.
// Use options to customize behavior (e.g., WithConcurrency, WithLogger).
func NewLoader(f Fetcher, opts ...Option) *Loader {
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

	return &Loader{
		fetcher: f,
		cfg:     cfg,
		store:   cfg.store,
		pool:    newFetchPool(cfg.concurrency),
	}
}

// EnqueueImage registers a pending image request.
// Requesting the same URL twice issues two fetches.
func (l *Loader) EnqueueImage(url string) error {
	return l.enqueue(Request{URL: url, Kind: KindImage})
}

// EnqueueText registers a pending text request.
// Requesting the same URL twice issues two fetches.
func (l *Loader) EnqueueText(url string) error {
	return l.enqueue(Request{URL: url, Kind: KindText})
}

func (l *Loader) enqueue(req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	l.pending = append(l.pending, req)
	l.mu.Unlock()
	return nil
}

// PushStage appends fn to the stage queue.
func (l *Loader) PushStage(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.stages = append(l.stages, fn)
	l.mu.Unlock()
}

// Start removes the first queued stage and runs it on the calling
// goroutine. It does nothing when the queue is empty.
func (l *Loader) Start() {
	l.mu.Lock()
	if len(l.stages) == 0 {
		l.mu.Unlock()
		l.cfg.logger.Debug("no stage queued")
		return
	}
	fn := l.stages[0]
	l.stages = l.stages[1:]
	remaining := len(l.stages)
	l.mu.Unlock()

	l.cfg.logger.Debug("running stage", "remaining", remaining)
	fn()
}

// Then wraps fn into a stage that advances the loader once fn returns.
func (l *Loader) Then(fn func()) func() {
	return func() {
		if fn != nil {
			fn()
		}
		l.Start()
	}
}

// LoadResources fetches every request pending at the time of the call, then
// calls Start once all of them have completed. Requests enqueued while the
// round is in flight wait for the next round.
//
// With nothing pending, Start runs before LoadResources returns.
// A failed fetch counts as completed; see Failures.
func (l *Loader) LoadResources() {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.rounds++
	round := l.rounds
	l.mu.Unlock()

	logger := l.cfg.logger.With("round", round)
	logger.Debug("loading resources", "count", len(batch))

	counter := NewCounter(len(batch), func() {
		logger.Debug("round complete")
		l.Start()
	})

	if len(batch) == 0 {
		counter.Check()
		return
	}

	for _, req := range batch {
		go l.fetch(req, counter)
	}
}

// fetch loads one request and reports its completion to counter.
func (l *Loader) fetch(req Request, counter *Counter) {
	ctx := l.cfg.ctx
	if err := l.pool.acquire(ctx); err != nil {
		l.fail(req, err)
		counter.Check()
		return
	}

	fctx, cancel := withTimeout(ctx, l.cfg.fetchTimeout)
	res, err := fetchChecked(fctx, l.fetcher, req)
	cancel()
	l.pool.release()

	if err != nil {
		l.fail(req, err)
	} else {
		l.store.set(req.URL, res)
		l.cfg.logger.Debug("fetched", "kind", req.Kind, "url", req.URL)
	}
	counter.Check()
}

func (l *Loader) fail(req Request, err error) {
	var fe *FetchError
	if !errors.As(err, &fe) {
		fe = &FetchError{Request: req, Err: err}
	}
	l.cfg.logger.Warn("fetch failed", "kind", req.Kind, "url", req.URL, "err", fe.Err)

	l.mu.Lock()
	l.failures = append(l.failures, *fe)
	l.mu.Unlock()
}

// Store returns the store results are written to.
func (l *Loader) Store() *Store {
	return l.store
}

// Pending returns the number of requests waiting for the next round.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Stages returns the number of queued stages.
func (l *Loader) Stages() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.stages)
}

// Failures returns the fetches that failed so far, in completion order.
func (l *Loader) Failures() []FetchError {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.failures)
}
