package reef

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DoorConfig configures a DoorHinge.
type DoorConfig struct {
	// Axis is the Euler axis the hinge rotates about.
	Axis Axis `yaml:"-"`
	// ClosedAngle and OpenAngle are the resting angles in radians.
	ClosedAngle float64 `yaml:"closedAngle"`
	OpenAngle   float64 `yaml:"openAngle"`
	// Duration of a full transition in virtual seconds.
	Duration float64 `yaml:"duration"`
}

// DefaultDoorConfig mirrors a chest lid swinging back a quarter turn over 1.5s.
func DefaultDoorConfig() DoorConfig {
	return DoorConfig{
		Axis:      AxisX,
		OpenAngle: -math.Pi / 2,
		Duration:  1.5,
	}
}

// doorMotion is the direction of the current transition.
type doorMotion uint8

const (
	doorIdle doorMotion = iota
	doorOpening
	doorClosing
)

// DoorHinge is a start/stop eased open/close driver. Unlike the oscillators it
// keeps local progress state, anchored at the virtual time the motion began.
type DoorHinge struct {
	Config DoorConfig

	angle    float64
	motion   doorMotion
	tween    *gween.Tween
	anchored bool
	start    float64
}

func newDoorHinge(cfg DoorConfig) *DoorHinge {
	return &DoorHinge{Config: cfg, angle: cfg.ClosedAngle}
}

// Angle returns the current hinge angle in radians.
func (d *DoorHinge) Angle() float64 { return d.angle }

// IsOpening reports whether an opening transition is in progress.
func (d *DoorHinge) IsOpening() bool { return d.motion == doorOpening }

// IsClosing reports whether a closing transition is in progress.
func (d *DoorHinge) IsClosing() bool { return d.motion == doorClosing }

// IsOpen reports whether the hinge rests at the open angle.
func (d *DoorHinge) IsOpen() bool {
	return d.motion == doorIdle && d.angle == d.Config.OpenAngle
}

// IsClosed reports whether the hinge rests at the closed angle.
func (d *DoorHinge) IsClosed() bool {
	return d.motion == doorIdle && d.angle == d.Config.ClosedAngle
}

// Open starts a transition toward the open angle. No-op while already opening
// or fully open.
func (d *DoorHinge) Open() {
	if d.motion == doorOpening || d.IsOpen() {
		return
	}
	d.begin(doorOpening, d.Config.OpenAngle)
}

// Close starts a transition toward the closed angle. No-op while already
// closing or fully closed.
func (d *DoorHinge) Close() {
	if d.motion == doorClosing || d.IsClosed() {
		return
	}
	d.begin(doorClosing, d.Config.ClosedAngle)
}

// Toggle opens a closed or closing hinge and closes an open or opening one.
func (d *DoorHinge) Toggle() {
	if d.motion == doorOpening || d.IsOpen() {
		d.Close()
		return
	}
	d.Open()
}

// begin starts a transition from the current angle. The time anchor is taken
// on the next update so the motion starts at the frame's virtual time.
func (d *DoorHinge) begin(m doorMotion, to float64) {
	d.motion = m
	d.tween = gween.New(float32(d.angle), float32(to), float32(math.Max(d.Config.Duration, 0)), ease.InOutQuad)
	d.anchored = false
}

// update advances the transition for virtual time t. No-op when idle.
func (d *DoorHinge) update(tr *Transform, t float64) {
	if d.motion == doorIdle {
		return
	}
	if !d.anchored || t < d.start {
		d.start = t
		d.anchored = true
	}

	v, finished := d.tween.Set(float32(t - d.start))
	d.angle = float64(v)
	if finished {
		if d.motion == doorOpening {
			d.angle = d.Config.OpenAngle
		} else {
			d.angle = d.Config.ClosedAngle
		}
		d.motion = doorIdle
		d.tween = nil
	}

	r := tr.Rotation()
	r[d.Config.Axis] = d.angle
	tr.SetRotation(r[0], r[1], r[2])
}
