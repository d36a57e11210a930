package reflow

import "time"

// debouncer is a resettable one-shot timer owned by the loop goroutine.
// It is not safe for concurrent use.
type debouncer struct {
	delay time.Duration
	timer *time.Timer
	armed bool
}

func newDebouncer(delay time.Duration) *debouncer {
	timer := time.NewTimer(delay)
	timer.Stop()

	return &debouncer{delay: delay, timer: timer}
}

// reset restarts the quiet window. It reports whether a window was already
// pending, i.e. whether this trigger was coalesced into it.
func (d *debouncer) reset() bool {
	pending := d.armed
	d.timer.Reset(d.delay)
	d.armed = true

	return pending
}

// C returns the firing channel, or nil while no window is pending so that a
// select on it blocks forever.
func (d *debouncer) C() <-chan time.Time {
	if !d.armed {
		return nil
	}

	return d.timer.C
}

// fired marks the pending window as consumed.
func (d *debouncer) fired() {
	d.armed = false
}

func (d *debouncer) stop() {
	d.timer.Stop()
	d.armed = false
}
