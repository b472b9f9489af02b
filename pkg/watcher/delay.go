package watcher

import (
	"sync"
	"time"
)

// DefaultOrientationDelay gives the platform time to publish the new
// dimensions after an orientation change.
const DefaultOrientationDelay = 100 * time.Millisecond

// Delayer runs callbacks a fixed interval after they are scheduled. Unlike
// Debouncer, calls do not supersede each other: every call runs.
type Delayer struct {
	delay  time.Duration
	clock  Clock
	mu     sync.Mutex
	timers map[uint64]Timer
	next   uint64
}

// NewDelayer returns a Delayer. A zero delay uses DefaultOrientationDelay.
func NewDelayer(delay time.Duration, clock Clock) *Delayer {
	if delay == 0 {
		delay = DefaultOrientationDelay
	}
	if clock == nil {
		clock = RealClock
	}
	return &Delayer{
		delay:  delay,
		clock:  clock,
		timers: make(map[uint64]Timer),
	}
}

// After schedules fn to run after the delay.
func (d *Delayer) After(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	id := d.next
	d.timers[id] = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		_, live := d.timers[id]
		delete(d.timers, id)
		d.mu.Unlock()
		if live {
			fn()
		}
	})
}

// Cancel drops every scheduled callback.
func (d *Delayer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, t := range d.timers {
		t.Stop()
		delete(d.timers, id)
	}
}

// Pending returns the number of scheduled callbacks.
func (d *Delayer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Delay returns the configured delay.
func (d *Delayer) Delay() time.Duration {
	return d.delay
}

// Throttler lets at most one call through per interval (leading edge).
type Throttler struct {
	interval time.Duration
	clock    Clock
	mu       sync.Mutex
	last     time.Time
	ran      bool
}

// NewThrottler returns a Throttler for interval.
func NewThrottler(interval time.Duration, clock Clock) *Throttler {
	if clock == nil {
		clock = RealClock
	}
	return &Throttler{interval: interval, clock: clock}
}

// Do runs fn unless another call ran less than interval ago. It reports
// whether fn ran.
func (t *Throttler) Do(fn func()) bool {
	t.mu.Lock()
	now := t.clock.Now()
	if t.ran && now.Sub(t.last) < t.interval {
		t.mu.Unlock()
		return false
	}
	t.ran = true
	t.last = now
	t.mu.Unlock()
	fn()
	return true
}

// Reset forgets the last run.
func (t *Throttler) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ran = false
}
