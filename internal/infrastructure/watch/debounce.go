// Package watch provides filesystem watching with debounce support for the
// rescan-on-change mode.
package watch

import (
	"sort"
	"sync"
	"time"
)

// Debouncer coalesces rapid path events into a single callback invocation
// carrying the distinct paths seen during the burst. The pending set is
// owned by the debouncer's mutex, so Trigger may be called from any
// goroutine while a fire is in flight.
type Debouncer struct {
	window   time.Duration
	callback func(changed []string)

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]bool
}

// NewDebouncer creates a debouncer with the given window duration. The
// callback receives the sorted distinct paths recorded since the last fire.
func NewDebouncer(window time.Duration, callback func(changed []string)) *Debouncer {
	return &Debouncer{
		window:   window,
		callback: callback,
		pending:  make(map[string]bool),
	}
}

// Trigger records a path and resets the debounce timer. The callback fires
// after the window elapses with no further triggers.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire drains the pending set under the lock, then invokes the callback
// outside it so a slow callback cannot block Trigger.
func (d *Debouncer) fire() {
	d.mu.Lock()
	changed := make([]string, 0, len(d.pending))
	for p := range d.pending {
		changed = append(changed, p)
	}
	d.pending = make(map[string]bool)
	d.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)
	d.callback(changed)
}

// Stop cancels any pending callback. Paths already recorded stay pending and
// are delivered if a later Trigger restarts the window.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
}
