package reef

import (
	"testing"
	"time"
)

// fakeTime is a manually advanced wall clock.
type fakeTime struct {
	t time.Time
}

func newFakeTime() *fakeTime {
	return &fakeTime{t: time.Unix(1000, 0)}
}

func (f *fakeTime) now() time.Time { return f.t }

func (f *fakeTime) advance(seconds float64) {
	f.t = f.t.Add(time.Duration(seconds * float64(time.Second)))
}

func TestClockStartsAtZero(t *testing.T) {
	ft := newFakeTime()
	c := NewClockWithSource(ft.now)
	assertNear(t, "time", c.Time(), 0)
	assertNear(t, "scale", c.TimeScale(), 1)
	if c.IsPaused() {
		t.Error("new clock should be running")
	}
}

func TestClockAdvancesWithScale(t *testing.T) {
	ft := newFakeTime()
	c := NewClockWithSource(ft.now)
	ft.advance(1)
	c.Update()
	assertNear(t, "t after 1s", c.Time(), 1)

	c.SetTimeScale(2)
	ft.advance(0.5)
	c.Update()
	assertNear(t, "t at x2", c.Time(), 2)
}

func TestClockPauseAccumulatesNothing(t *testing.T) {
	ft := newFakeTime()
	c := NewClockWithSource(ft.now)
	ft.advance(1)
	c.Update()

	c.Pause()
	c.Pause() // no-op
	for range 10 {
		ft.advance(0.25)
		c.Update()
	}
	assertNear(t, "paused", c.Time(), 1)

	c.Resume()
	c.Update()
	assertNear(t, "resumed", c.Time(), 1)

	ft.advance(0.5)
	c.Update()
	assertNear(t, "after resume", c.Time(), 1.5)
}

func TestClockPauseMidFrame(t *testing.T) {
	ft := newFakeTime()
	c := NewClockWithSource(ft.now)
	ft.advance(1)
	c.Update()

	// Wall time between the last Update and Pause is credited by Pause; time
	// spent paused is not.
	ft.advance(0.25)
	c.Pause()
	assertNear(t, "t at pause", c.Time(), 1.25)
	ft.advance(10)
	c.Resume()
	c.Update()
	assertNear(t, "t", c.Time(), 1.25)
}

func TestClockScaleChangedWhilePausedKeepsPrePauseTime(t *testing.T) {
	ft := newFakeTime()
	c := NewClockWithSource(ft.now)
	ft.advance(1)
	c.Update()

	ft.advance(0.5)
	c.Pause()
	c.SetTimeScale(-1)
	c.Resume()
	c.Update()
	assertNear(t, "t after resume", c.Time(), 1.5)

	ft.advance(0.5)
	c.Update()
	assertNear(t, "t rewinding", c.Time(), 1.0)
}

func TestClockSetTimeScaleContinuity(t *testing.T) {
	ft := newFakeTime()
	c := NewClockWithSource(ft.now)
	ft.advance(1)
	c.Update()

	ft.advance(0.5)
	before := 1 + 0.5 // what Update would report at the old scale
	c.SetTimeScale(3)
	assertNear(t, "t at change", c.Time(), before)
	c.Update()
	assertNear(t, "t right after change", c.Time(), before)

	ft.advance(1)
	c.Update()
	assertNear(t, "t after 1s at x3", c.Time(), before+3)
}

func TestClockRepeatedSetTimeScaleDoesNotDrift(t *testing.T) {
	ft := newFakeTime()
	c := NewClockWithSource(ft.now)
	for range 100 {
		c.SetTimeScale(1)
	}
	ft.advance(2)
	c.Update()
	assertNear(t, "t", c.Time(), 2)

	for range 100 {
		c.SetTimeScale(5)
		c.SetTimeScale(1)
	}
	c.Update()
	assertNear(t, "t after toggles", c.Time(), 2)
}

func TestClockSetTimeScaleWhilePaused(t *testing.T) {
	ft := newFakeTime()
	c := NewClockWithSource(ft.now)
	ft.advance(1)
	c.Update()
	c.Pause()
	ft.advance(5)
	c.SetTimeScale(2)
	c.Resume()
	ft.advance(1)
	c.Update()
	assertNear(t, "t", c.Time(), 3)
}

func TestClockRewindFloor(t *testing.T) {
	ft := newFakeTime()
	c := NewClockWithSource(ft.now)
	ft.advance(2)
	c.Update()

	c.SetTimeScale(-1)
	ft.advance(1.5)
	c.Update()
	assertNear(t, "rewound", c.Time(), 0.5)

	ft.advance(5)
	c.Update()
	assertNear(t, "floored", c.Time(), 0)

	// Forward play resumes smoothly from zero rather than repaying the
	// overshoot.
	c.SetTimeScale(1)
	ft.advance(0.25)
	c.Update()
	assertNear(t, "resumed from floor", c.Time(), 0.25)
}

func TestClockReset(t *testing.T) {
	ft := newFakeTime()
	c := NewClockWithSource(ft.now)
	ft.advance(3)
	c.Update()
	c.SetTimeScale(-2)
	c.Pause()

	c.Reset()
	assertNear(t, "time", c.Time(), 0)
	assertNear(t, "scale", c.TimeScale(), 1)
	if c.IsPaused() {
		t.Error("reset clock should be running")
	}
	ft.advance(1)
	c.Update()
	assertNear(t, "after reset", c.Time(), 1)
}
