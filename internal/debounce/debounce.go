// Package debounce collapses bursts of calls into one delayed call.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the most recently scheduled function once no new call has
// arrived for the configured duration. A zero duration runs every call
// synchronously.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	pending  func()
	duration time.Duration
}

// New creates a debouncer with the specified duration.
func New(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Duration returns the quiet period the debouncer waits for.
func (d *Debouncer) Duration() time.Duration { return d.duration }

// Debounce schedules fn, superseding any call that has not fired yet.
func (d *Debouncer) Debounce(fn func()) {
	if d.duration <= 0 {
		d.Immediate(fn)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn

	var t *time.Timer
	t = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		// A later Debounce replaced this timer after it had already fired.
		if d.timer != t {
			d.mu.Unlock()
			return
		}
		run := d.pending
		d.timer = nil
		d.pending = nil
		d.mu.Unlock()

		if run != nil {
			run()
		}
	})
	d.timer = t
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}

// Immediate cancels any pending call and runs fn now.
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}

// Flush runs the pending call now, if there is one. It reports whether a
// call ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	run := d.pending
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.mu.Unlock()

	if run == nil {
		return false
	}
	run()
	return true
}

// Pending reports whether a call is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
