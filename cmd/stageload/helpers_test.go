package main

import (
	"bytes"
	"context"
	"sync"
	"testing"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers and readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestDeps returns dependencies writing to buffers, bound to a context
// cancelled when the test ends.
func newTestDeps(t *testing.T) (*Dependencies, *syncBuffer, *syncBuffer) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	return &Dependencies{Stdout: stdout, Stderr: stderr, Ctx: ctx}, stdout, stderr
}
