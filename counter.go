package stageload

import "sync"

// Counter invokes a callback once it has been notified of completion a
// fixed number of times. The callback fires at most once: notifications
// past the target are absorbed.
type Counter struct {
	mu        sync.Mutex
	target    int
	remaining int
	fired     bool
	fn        func()
}

// NewCounter creates a Counter that fires fn on the target-th Check.
// A target of zero or less fires on the first Check.
func NewCounter(target int, fn func()) *Counter {
	return &Counter{
		target:    target,
		remaining: target,
		fn:        fn,
	}
}

// Check records one completion. When the remaining count reaches zero the
// callback runs on the calling goroutine, outside the counter's lock.
func (c *Counter) Check() {
	c.mu.Lock()
	if c.fired {
		c.mu.Unlock()
		return
	}
	c.remaining--
	if c.remaining > 0 {
		c.mu.Unlock()
		return
	}
	c.remaining = 0
	c.fired = true
	fn := c.fn
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Remaining returns how many completions are still expected. Never negative.
func (c *Counter) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Target returns the count the Counter was created with.
func (c *Counter) Target() int {
	return c.target
}

// Fired reports whether the callback has run.
func (c *Counter) Fired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fired
}
