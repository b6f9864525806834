// Package debounce collapses bursts of calls into one trailing call
package debounce

import (
	"sync"
	"time"
)

// Delay is the search input debounce window
const Delay = 300 * time.Millisecond

// Debouncer fires fn with the last value passed to Call once no call has arrived for the delay
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

// New returns a debouncer calling fn after delay. A delay <= 0 uses Delay.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = Delay
	}
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Call schedules fn(v) and cancels the previously scheduled call
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// a Call that raced the timer owns the slot now
		current := seq == d.seq
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			d.fn(v)
		}
	})
}

// Stop cancels the pending call, if any
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a call is scheduled
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
