// Package level describes a playable level and its loading hooks.
//
// A level is an SVG document fetched as text. Graphics preparation is not
// performed here; the layers that would be removed before display are
// listed in HiddenLayers.
package level

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/alnah/go-stageload"
)

// Sentinel errors for level operations.
var (
	ErrInvalidName     = errors.New("invalid level name")
	ErrDocumentMissing = errors.New("level document not loaded")
	ErrNotSVG          = errors.New("level document is not svg")
)

// HiddenLayers are the Inkscape layer labels that carry gameplay data
// rather than graphics.
var HiddenLayers = []string{"PHYSICS", "META", "SPAWNS"}

// Level is a level document and its processing state.
type Level struct {
	Name string
	URL  string

	mu        sync.Mutex
	size      int
	processed bool
	err       error
}

// New creates a Level named name under the URL directory dir.
// The document URL is {dir}/{name}.svg.
func New(name, dir string) (*Level, error) {
	if name == "" || strings.ContainsAny(name, "/\\.\x00") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if dir == "" {
		dir = "/"
	}
	return &Level{Name: name, URL: path.Join(dir, name+".svg")}, nil
}

// Request returns the fetch request for the level document.
func (l *Level) Request() stageload.Request {
	return stageload.Request{URL: l.URL, Kind: stageload.KindText}
}

// Process checks that the document is present in store and records its size.
func (l *Level) Process(store *stageload.Store) error {
	body, ok := store.Text(l.URL)

	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case !ok:
		l.err = fmt.Errorf("%w: %s", ErrDocumentMissing, l.URL)
	case !strings.Contains(body, "<svg"):
		l.err = fmt.Errorf("%w: %s", ErrNotSVG, l.URL)
	default:
		l.size = len(body)
		l.processed = true
		l.err = nil
	}
	return l.err
}

// Register enqueues the document on ld and queues a stage that processes
// it and then advances the loader. The processing result is available
// through Err once the stage has run.
func (l *Level) Register(ld *stageload.Loader) error {
	if err := ld.EnqueueText(l.URL); err != nil {
		return err
	}
	ld.PushStage(ld.Then(func() {
		_ = l.Process(ld.Store())
	}))
	return nil
}

// Step returns a pipeline step that processes the document loaded by an
// earlier step.
func (l *Level) Step() stageload.StepFunc {
	return func(_ context.Context, b *stageload.Batch) error {
		return l.Process(b.Store())
	}
}

// Size returns the document length in bytes, zero before processing.
func (l *Level) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Processed reports whether Process succeeded.
func (l *Level) Processed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.processed
}

// Err returns the last processing error.
func (l *Level) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
