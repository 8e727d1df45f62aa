package stageload

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Handle represents one in-flight fetch. It resolves exactly once.
type Handle struct {
	req  Request
	done chan struct{}
	res  Resource
	err  error
}

func newHandle(req Request) *Handle {
	return &Handle{req: req, done: make(chan struct{})}
}

// Request returns the request this handle tracks.
func (h *Handle) Request() Request {
	return h.req
}

// Done is closed once the fetch has completed, successfully or not.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the fetch completes or ctx is done.
func (h *Handle) Wait(ctx context.Context) (Resource, error) {
	select {
	case <-h.done:
		return h.res, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Handle) resolve(res Resource, err error) {
	h.res, h.err = res, err
	close(h.done)
}

// Batch collects the fetches issued during one pipeline step. Each request
// starts fetching immediately; the pipeline awaits every handle of the batch
// before moving to the next step.
type Batch struct {
	ctx          context.Context
	fetcher      Fetcher
	store        *Store
	pool         *fetchPool
	logger       *log.Logger
	fetchTimeout time.Duration

	mu      sync.Mutex
	handles []*Handle
	closed  bool
}

// Image requests an image for this step.
func (b *Batch) Image(url string) (*Handle, error) {
	return b.Request(Request{URL: url, Kind: KindImage})
}

// Text requests a text document for this step.
func (b *Batch) Text(url string) (*Handle, error) {
	return b.Request(Request{URL: url, Kind: KindText})
}

// Request issues req and returns its handle. Returns ErrBatchClosed once the
// step that owns the batch has returned.
func (b *Batch) Request(req Request) (*Handle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	h := newHandle(req)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBatchClosed
	}
	b.handles = append(b.handles, h)
	b.mu.Unlock()

	go b.run(h)
	return h, nil
}

// Store returns the store shared by every step, so a step can read what
// earlier steps loaded.
func (b *Batch) Store() *Store {
	return b.store
}

// Len returns the number of requests issued so far.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handles)
}

func (b *Batch) run(h *Handle) {
	if err := b.pool.acquire(b.ctx); err != nil {
		h.resolve(nil, &FetchError{Request: h.req, Err: err})
		return
	}
	defer b.pool.release()

	ctx, cancel := withTimeout(b.ctx, b.fetchTimeout)
	defer cancel()

	res, err := fetchChecked(ctx, b.fetcher, h.req)
	if err == nil {
		b.store.set(h.req.URL, res)
		b.logger.Debug("fetched", "kind", h.req.Kind, "url", h.req.URL)
	}
	h.resolve(res, err)
}

// close stops accepting requests and returns the handles issued.
func (b *Batch) close() []*Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return b.handles
}

// wait closes the batch and blocks until every handle resolves. It returns
// the first fetch error; the remaining handles are abandoned once ctx is
// cancelled by the caller.
func (b *Batch) wait(ctx context.Context) error {
	handles := b.close()
	g, gctx := errgroup.WithContext(ctx)
	for _, h := range handles {
		g.Go(func() error {
			_, err := h.Wait(gctx)
			return err
		})
	}
	return g.Wait()
}
