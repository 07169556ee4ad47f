package util

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of events into a single announcement: each
// Reset restarts a quiet period, and only a quiet period that runs to
// completion delivers on C.
//
// Example usage:
//
//	debouncer := NewDebouncer(250 * time.Millisecond)
//	defer debouncer.Stop()
//
//	for {
//	    select {
//	    case <-hotplugEvents:
//	        debouncer.Reset() // Restart the quiet period on each event
//	    case <-debouncer.C():
//	        rescanDevices() // Burst settled, act once
//	    }
//	}
type Debouncer struct {
	quiet time.Duration
	c     chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer whose first quiet period starts
// immediately.
func NewDebouncer(quiet time.Duration) *Debouncer {
	d := &Debouncer{
		quiet: quiet,
		c:     make(chan struct{}, 1),
	}
	d.timer = time.AfterFunc(quiet, d.fire)

	return d
}

// fire runs on the timer goroutine. The channel holds at most one token, so
// firings nobody consumed coalesce instead of piling up.
func (d *Debouncer) fire() {
	select {
	case d.c <- struct{}{}:
	default:
	}
}

// Reset restarts the quiet period. On a stopped debouncer it is a no-op.
func (d *Debouncer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if !d.timer.Stop() {
		// The previous period already fired; an unconsumed token from it is
		// stale now that the quiet period starts over.
		select {
		case <-d.c:
		default:
		}
	}
	d.timer.Reset(d.quiet)
}

// C returns the channel a settled burst is announced on.
func (d *Debouncer) C() <-chan struct{} {
	return d.c
}

// Stop cancels any pending announcement and disables further resets. Safe to
// call more than once.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	d.timer.Stop()
}
