package debounce

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

const delay = 200 * time.Millisecond

type harness struct {
	clock *clockwork.FakeClock
	jobs  chan func()
	fired int
}

func newHarness() *harness {
	return &harness{
		clock: clockwork.NewFakeClock(),
		jobs:  make(chan func(), 16),
	}
}

func (h *harness) debouncer(opts ...Option) *Debouncer {
	opts = append([]Option{WithClock(h.clock)}, opts...)
	return New(func(job func()) { h.jobs <- job }, delay, func() { h.fired++ }, opts...)
}

// next waits for the clock goroutine to hand over a job.
func (h *harness) next(t *testing.T) func() {
	t.Helper()
	select {
	case job := <-h.jobs:
		return job
	case <-time.After(time.Second):
		t.Fatal("no job dispatched")
		return nil
	}
}

func (h *harness) expectIdle(t *testing.T) {
	t.Helper()
	select {
	case <-h.jobs:
		t.Fatal("unexpected job dispatched")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestTriggerCollapsesBurst(t *testing.T) {
	h := newHarness()
	d := h.debouncer()

	d.Trigger()
	h.clock.Advance(50 * time.Millisecond)
	d.Trigger()
	h.clock.Advance(50 * time.Millisecond)
	d.Trigger()
	assert.True(t, d.Pending())

	h.clock.Advance(delay - time.Millisecond)
	h.expectIdle(t)

	h.clock.Advance(time.Millisecond)
	h.next(t)()
	assert.Equal(t, 1, h.fired)
	assert.False(t, d.Pending())
	h.expectIdle(t)
}

func TestSeparateQuietPeriodsFireSeparately(t *testing.T) {
	h := newHarness()
	d := h.debouncer()

	d.Trigger()
	h.clock.Advance(delay)
	h.next(t)()

	d.Trigger()
	h.clock.Advance(delay)
	h.next(t)()

	assert.Equal(t, 2, h.fired)
}

func TestStaleJobIsDiscarded(t *testing.T) {
	h := newHarness()
	d := h.debouncer()

	d.Trigger()
	h.clock.Advance(delay)
	stale := h.next(t)

	// A trigger lands after the timer fired but before its job ran.
	d.Trigger()
	stale()
	assert.Equal(t, 0, h.fired)
	assert.True(t, d.Pending())

	h.clock.Advance(delay)
	h.next(t)()
	assert.Equal(t, 1, h.fired)
}

func TestStopCancelsPendingFire(t *testing.T) {
	h := newHarness()
	d := h.debouncer()

	d.Trigger()
	d.Stop()
	assert.False(t, d.Pending())

	h.clock.Advance(time.Second)
	h.expectIdle(t)
	assert.Equal(t, 0, h.fired)

	// Reusable after Stop.
	d.Trigger()
	h.clock.Advance(delay)
	h.next(t)()
	assert.Equal(t, 1, h.fired)
}

func TestContinuousTriggersDeferIndefinitely(t *testing.T) {
	h := newHarness()
	d := h.debouncer()

	for i := 0; i < 20; i++ {
		d.Trigger()
		h.clock.Advance(delay / 2)
	}
	h.expectIdle(t)
	assert.Equal(t, 0, h.fired)
	assert.True(t, d.Pending())
}

func TestMaxWaitBoundsDeferral(t *testing.T) {
	h := newHarness()
	d := h.debouncer(WithMaxWait(500 * time.Millisecond))

	start := h.clock.Now()
	var firedAt time.Time
	d.action = func() { firedAt = h.clock.Now() }

	// Triggers at 0, 100, 200, 300 and 400ms; the last one may only wait 100ms.
	for i := 0; i < 5; i++ {
		d.Trigger()
		h.clock.Advance(100 * time.Millisecond)
	}
	h.next(t)()

	assert.Equal(t, 500*time.Millisecond, firedAt.Sub(start))
	assert.False(t, d.Pending())
}
