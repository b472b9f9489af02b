// Package watcher coalesces bursts of events (debounce, fixed delay,
// throttle) and watches files for changes.
package watcher

import (
	"sync"
	"time"
)

// Default coalescing windows.
const (
	DefaultDebounceDuration = 250 * time.Millisecond
	DefaultResizeDebounce   = 150 * time.Millisecond
)

// Debouncer coalesces rapid events into a single callback invocation.
// When Trigger is called multiple times within the debounce duration,
// only the last callback is executed after the duration elapses.
type Debouncer struct {
	duration time.Duration
	clock    Clock
	timer    Timer
	pending  func()
	mu       sync.Mutex
	seq      uint64
}

// NewDebouncer creates a new Debouncer with the specified duration.
// If duration is 0, DefaultDebounceDuration is used.
func NewDebouncer(duration time.Duration) *Debouncer {
	return NewDebouncerWithClock(duration, RealClock)
}

// NewDebouncerWithClock is NewDebouncer with an explicit clock.
func NewDebouncerWithClock(duration time.Duration, clock Clock) *Debouncer {
	if duration == 0 {
		duration = DefaultDebounceDuration
	}
	if clock == nil {
		clock = RealClock
	}
	return &Debouncer{
		duration: duration,
		clock:    clock,
	}
}

// Trigger schedules the callback to be called after the debounce duration.
// If Trigger is called again before the duration elapses, the previous
// scheduled callback is cancelled and a new one is scheduled.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = callback
	d.timer = d.clock.AfterFunc(d.duration, func() {
		if fn := d.take(seq); fn != nil {
			fn()
		}
	})
}

// take claims the pending callback if seq is still the latest schedule.
// A stale seq means Stop lost the race against an already-fired timer.
func (d *Debouncer) take(seq uint64) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq || d.pending == nil {
		return nil
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	return fn
}

// Flush runs the pending callback immediately, if any. It reports whether
// a callback ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Cancel cancels any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Invalidate any callback that might already be executing due to timer races.
	d.seq++
	d.pending = nil

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a callback is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Duration returns the debounce duration.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
