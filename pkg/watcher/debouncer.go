// Package watcher coalesces bursts of change events: viewport resizes and
// dashboard file writes.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the default quiet period.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer delivers only the last value of a burst once no new value has
// arrived for the configured duration.
type Debouncer[T any] struct {
	duration time.Duration
	deliver  func(T)

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	pending bool
	last    T
}

// NewDebouncer creates a Debouncer calling deliver with the latest value.
// If duration is 0, DefaultDebounceDuration is used.
func NewDebouncer[T any](duration time.Duration, deliver func(T)) *Debouncer[T] {
	if duration == 0 {
		duration = DefaultDebounceDuration
	}
	return &Debouncer[T]{
		duration: duration,
		deliver:  deliver,
	}
}

// Push records v and restarts the quiet period.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq
	d.last = v
	d.pending = true

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		// Stop() may lose the race with an already fired timer: only the
		// most recent schedule may deliver.
		if seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.pending = false
		v := d.last
		d.mu.Unlock()

		d.deliver(v)
	})
}

// Flush delivers a pending value immediately. It returns false when nothing was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
	v := d.last
	d.mu.Unlock()

	d.deliver(v)
	return true
}

// Cancel drops any pending value.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	// invalidate a callback that may already be running
	d.seq++
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending returns true while a value waits for delivery.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Duration returns the debounce duration.
func (d *Debouncer[T]) Duration() time.Duration {
	return d.duration
}
