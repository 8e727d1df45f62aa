package stageload

import (
	"context"
	"sync"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fetchers with controllable completion
// ---------------------------------------------------------------------------

// pendingCall is a fetch parked until the test releases it.
type pendingCall struct {
	req     Request
	release chan string // body (text) returned on release
	fail    chan error
}

// gatedFetcher parks every fetch until the test releases it, so tests
// control arrival order.
type gatedFetcher struct {
	calls chan *pendingCall
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{calls: make(chan *pendingCall, 64)}
}

func (g *gatedFetcher) Fetch(ctx context.Context, req Request) (Resource, error) {
	c := &pendingCall{req: req, release: make(chan string, 1), fail: make(chan error, 1)}
	g.calls <- c
	select {
	case body := <-c.release:
		return resourceFor(req, body), nil
	case err := <-c.fail:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// next waits for the next parked fetch.
func (g *gatedFetcher) next(t *testing.T) *pendingCall {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a fetch to be issued")
		return nil
	}
}

// countingFetcher resolves immediately and counts calls per URL.
type countingFetcher struct {
	mu    sync.Mutex
	calls map[string]int
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{calls: make(map[string]int)}
}

func (c *countingFetcher) Fetch(_ context.Context, req Request) (Resource, error) {
	c.mu.Lock()
	c.calls[req.URL]++
	c.mu.Unlock()
	return resourceFor(req, req.URL), nil
}

func (c *countingFetcher) count(url string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[url]
}

func resourceFor(req Request, body string) Resource {
	if req.Kind == KindImage {
		return &Image{URL: req.URL, Format: body}
	}
	return &Text{URL: req.URL, Body: body}
}

// waitClosed fails the test if ch is not closed within a reasonable time.
func waitClosed(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

// assertOpen fails the test if ch closes within a short grace period.
func assertOpen(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
		t.Fatalf("%s happened too early", what)
	case <-time.After(50 * time.Millisecond):
	}
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
