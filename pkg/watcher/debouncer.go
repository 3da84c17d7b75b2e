// Package watcher reloads a snapshot file when it changes on disk, with
// debouncing so editors that write in bursts trigger a single reload.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the default debounce window.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer coalesces rapid events into a single callback invocation. Only
// the last callback scheduled within the window runs.
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	seq      uint64
}

// NewDebouncer creates a Debouncer; a zero duration means the default.
func NewDebouncer(duration time.Duration) *Debouncer {
	if duration == 0 {
		duration = DefaultDebounceDuration
	}
	return &Debouncer{duration: duration}
}

// Trigger schedules the callback after the debounce window, replacing any
// previously scheduled one.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		// Stop() can lose the race with an already-fired timer; the
		// sequence check keeps a stale callback from running.
		stale := seq != d.seq
		if !stale {
			d.timer = nil
		}
		d.mu.Unlock()
		if stale {
			return
		}
		callback()
	})
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Duration returns the debounce window.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
