package coordinator

import (
	"sync"
	"time"
)

// DefaultSearchDelay is how long search typing must pause before the term
// reaches the store.
const DefaultSearchDelay = 300 * time.Millisecond

// Debouncer delivers only the last value pushed within a quiet period.
type Debouncer struct {
	delay time.Duration
	fn    func(string)

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	armed   bool
}

// NewDebouncer calls fn with the latest value once delay passed without a
// new Push.
func NewDebouncer(delay time.Duration, fn func(string)) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Push records v and restarts the quiet period.
func (d *Debouncer) Push(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = v
	d.armed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// Flush delivers a pending value immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.fire()
}

// Stop drops a pending value.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.armed = false
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.armed = false
	d.mu.Unlock()

	d.fn(v)
}
