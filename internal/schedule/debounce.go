package schedule

import (
	"sync"
	"time"
)

// Debouncer runs the most recently armed callback once the quiet period has
// elapsed without another Arm. Re-arming replaces the pending callback; it
// never queues a second one.
type Debouncer struct {
	mu      sync.Mutex
	sched   Scheduler
	delay   time.Duration
	timer   Timer
	pending func()
	gen     uint64
}

// NewDebouncer creates a debouncer. A nil scheduler means the wall clock.
func NewDebouncer(s Scheduler, delay time.Duration) *Debouncer {
	if s == nil {
		s = Clock{}
	}
	return &Debouncer{sched: s, delay: delay}
}

// Arm (re)starts the quiet period with fn as the callback to run.
func (d *Debouncer) Arm(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = d.sched.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// A wall-clock timer may fire concurrently with Stop; the generation check
	// keeps a superseded callback from running.
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Cancel drops the pending callback, if any. It reports whether one was dropped.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	had := d.pending != nil
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.timer = nil
	d.pending = nil
	return had
}

// Flush runs the pending callback immediately. It reports whether one ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.timer = nil
	d.pending = nil
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending reports whether a callback is waiting for its quiet period.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
