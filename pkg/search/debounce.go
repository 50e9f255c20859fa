package search

import (
	"sync"
	"time"
)

const DefaultDebounce = 250 * time.Millisecond

// Debouncer stages input and commits the latest value once no further input has
// arrived for the quiet period.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	commit  func(term string)
	timer   *time.Timer
	pending string
	staged  bool
	last    string
	hasLast bool
	stopped bool
	// gen identifies the latest timer; an older timer that already fired while
	// Input held the lock must not commit early.
	gen uint64
}

func NewDebouncer(delay time.Duration, commit func(term string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, commit: commit}
}

// Input stages term and restarts the quiet period.
func (d *Debouncer) Input(term string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = term
	d.staged = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// SetCommitted records term as already committed, e.g. the search restored from
// the URL, so typing it again does not refetch.
func (d *Debouncer) SetCommitted(term string) {
	d.mu.Lock()
	d.last = term
	d.hasLast = true
	d.mu.Unlock()
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	term, ok := d.take()
	d.mu.Unlock()
	if ok {
		d.commit(term)
	}
}

// take returns the staged term unless it equals the last committed one.
func (d *Debouncer) take() (string, bool) {
	if !d.staged || d.stopped {
		return "", false
	}
	d.staged = false
	if d.hasLast && d.pending == d.last {
		return "", false
	}
	d.last = d.pending
	d.hasLast = true
	return d.pending, true
}

// Flush commits the staged term now (e.g. on Enter).
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	term, ok := d.take()
	d.mu.Unlock()
	if ok {
		d.commit(term)
	}
}

// Stop drops any staged input; later Input calls are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
