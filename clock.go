package reef

import "time"

// Clock owns the scene's virtual time. Wall-clock ticks are converted into
// virtual seconds subject to pause, a signed time scale (negative rewinds),
// and a floor of zero.
//
// Clock is pure arithmetic: nothing blocks and nothing runs in the background.
// Call Update once per frame before any animation reads Time.
type Clock struct {
	now func() time.Time

	last        time.Time // wall reference for the next Update delta
	pausedAt    time.Time
	virtualTime float64
	timeScale   float64
	paused      bool
}

// NewClock creates a running clock at t=0 driven by time.Now.
func NewClock() *Clock {
	return NewClockWithSource(time.Now)
}

// NewClockWithSource creates a running clock at t=0 driven by now. Useful for
// fixed-step drivers and tests.
func NewClockWithSource(now func() time.Time) *Clock {
	c := &Clock{now: now}
	c.Reset()
	return c
}

// Time returns the current virtual time in seconds. Never negative.
func (c *Clock) Time() float64 { return c.virtualTime }

// TimeScale returns the signed time scale.
func (c *Clock) TimeScale() float64 { return c.timeScale }

// IsPaused reports whether the clock is paused.
func (c *Clock) IsPaused() bool { return c.paused }

// Pause freezes virtual time. Wall time since the last Update is credited at
// the current scale first, so a scale change made while paused never applies
// to time that ran before the pause. No-op if already paused.
func (c *Clock) Pause() {
	if c.paused {
		return
	}
	now := c.now()
	c.advance(now.Sub(c.last).Seconds())
	c.last = now
	c.paused = true
	c.pausedAt = now
}

// Resume unfreezes virtual time. The wall reference is shifted forward by the
// paused duration so no time accumulates for the pause. No-op if not paused.
func (c *Clock) Resume() {
	if !c.paused {
		return
	}
	c.last = c.last.Add(c.now().Sub(c.pausedAt))
	c.paused = false
	c.pausedAt = time.Time{}
}

// SetTimeScale changes the signed rate of virtual time. While running, wall
// time elapsed since the last Update is first credited at the old scale so
// virtual time is continuous at the instant of the change, however many times
// this is called between frames. While paused the new scale applies on resume.
func (c *Clock) SetTimeScale(s float64) {
	if !c.paused {
		now := c.now()
		c.advance(now.Sub(c.last).Seconds())
		c.last = now
	}
	c.timeScale = s
}

// Reset returns the clock to t=0, scale 1, running.
func (c *Clock) Reset() {
	c.last = c.now()
	c.pausedAt = time.Time{}
	c.virtualTime = 0
	c.timeScale = 1
	c.paused = false
}

// Update advances virtual time by the wall delta since the previous Update
// multiplied by the time scale. No-op while paused.
func (c *Clock) Update() {
	if c.paused {
		return
	}
	now := c.now()
	c.advance(now.Sub(c.last).Seconds())
	c.last = now
}

// advance credits dt wall seconds at the current scale and applies the floor.
// Callers re-anchor c.last to the current instant afterwards, which keeps the
// warped derivative continuous after the floor is hit.
func (c *Clock) advance(dt float64) {
	c.virtualTime += dt * c.timeScale
	if c.virtualTime < 0 {
		c.virtualTime = 0
	}
}
