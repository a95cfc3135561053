package utils

import (
	"sync"
	"time"
)

// Timer runs a callback once after a duration unless it is reset or stopped
// first. Reset rearms a timer that has already fired.
type Timer struct {
	d     time.Duration
	fn    func()
	timer *time.Timer
	mu    sync.Mutex
}

func NewTimer(d time.Duration, fn func()) *Timer {
	t := &Timer{d: d, fn: fn}
	t.timer = time.AfterFunc(d, fn)
	return t
}

// Reset restarts the countdown with the original duration.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		return
	}
	t.timer.Stop()
	t.timer = time.AfterFunc(t.d, t.fn)
}

// Stop cancels the timer for good. It reports whether the callback was
// prevented from running.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		return false
	}
	stopped := t.timer.Stop()
	t.timer = nil
	return stopped
}
