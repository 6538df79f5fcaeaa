package display

import (
	"context"
	"sync"
	"time"
)

// Clearer runs at most one deferred action at a time. Scheduling a new action
// cancels the pending one, so only the latest scheduled clear fires.
type Clearer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	stopped bool
}

// NewClearer creates a Clearer firing delay after each Schedule.
func NewClearer(delay time.Duration) *Clearer {
	return &Clearer{delay: delay}
}

// Schedule cancels any pending action and arranges for fn to run after the delay.
// It reports false once the Clearer is stopped.
func (c *Clearer) Schedule(fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped || fn == nil {
		return false
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, fn)
	return true
}

// Cancel drops the pending action, if any.
func (c *Clearer) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// SetDelay changes the delay used by subsequent Schedule calls.
func (c *Clearer) SetDelay(delay time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delay = delay
}

// Delay returns the current delay.
func (c *Clearer) Delay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delay
}

// Stop cancels the pending action and refuses further scheduling.
func (c *Clearer) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	return nil
}
