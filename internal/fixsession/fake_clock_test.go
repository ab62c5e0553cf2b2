package fixsession

import (
	"sync"
	"time"
)

// fakeClock gives tests deterministic control over timer firing without
// real sleeps. Now() is fixed unless advanced explicitly; timers are
// fired by sending on their channel directly.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0).UTC()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *fakeClock) NewTimer(d time.Duration) Timer {
	t := &fakeTimer{ch: make(chan time.Time, 1), dur: d}
	c.mu.Lock()
	c.timers = append(c.timers, t)
	c.mu.Unlock()
	return t
}

// Timer returns the i-th timer created, in creation order. The session's
// run loop always creates sendTimer first, then watchdogTimer.
func (c *fakeClock) Timer(i int) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers[i]
}

// fakeTimer never fires on its own; tests call Fire() explicitly. Reset
// records the duration and Stop does nothing, since the engine only cares
// about receiving on C() at a time of the test's choosing.
type fakeTimer struct {
	ch  chan time.Time
	dur time.Duration
}

func (t *fakeTimer) C() <-chan time.Time { return t.ch }

func (t *fakeTimer) Reset(d time.Duration) bool {
	t.dur = d
	return true
}

func (t *fakeTimer) Stop() bool { return true }

func (t *fakeTimer) Fire(at time.Time) {
	select {
	case t.ch <- at:
	default:
	}
}
