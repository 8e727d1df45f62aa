package devserver

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-stageload/internal/logging"
)

// ErrWatcherClosed is returned by Watcher methods after Close.
var ErrWatcherClosed = errors.New("watcher already closed")

// Watcher reports changes under a directory tree. New subdirectories are
// picked up as they appear.
type Watcher struct {
	fsw    *fsnotify.Watcher
	logger *log.Logger
	events chan fsnotify.Event
	done   chan struct{}

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewWatcher watches root and all its subdirectories. A nil logger discards.
func NewWatcher(root string, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		logger: logger,
		events: make(chan fsnotify.Event, 16),
		done:   make(chan struct{}),
	}
	if err := w.addRecursive(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Events delivers filtered change events. Events are dropped when the
// channel is full. The channel is closed by Close.
func (w *Watcher) Events() <-chan fsnotify.Event {
	return w.events
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	close(w.events)
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case e, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(e)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) handle(e fsnotify.Event) {
	if e.Has(fsnotify.Chmod) && !e.Has(fsnotify.Write) {
		return
	}

	if e.Has(fsnotify.Create) {
		if info, err := os.Stat(e.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(e.Name); err != nil {
				w.logger.Warn("watch directory", "path", e.Name, "err", err)
			}
		}
	}

	w.logger.Info("asset changed", "path", e.Name, "op", e.Op.String())

	select {
	case w.events <- e:
	default:
	}
}

// addRecursive adds dir and every directory below it.
func (w *Watcher) addRecursive(dir string) error {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return ErrWatcherClosed
	}

	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(p)
		}
		return nil
	})
}
