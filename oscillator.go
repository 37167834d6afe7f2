package reef

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PulseChannel selects what a pulse oscillator writes.
type PulseChannel uint8

const (
	PulseScale    PulseChannel = iota // uniform scale
	PulseRotation                     // yaw, with pitch and roll zeroed
)

// ParsePulseChannel maps "scale" or "rotation" to a PulseChannel.
func ParsePulseChannel(s string) (PulseChannel, bool) {
	switch s {
	case "scale", "":
		return PulseScale, true
	case "rotation":
		return PulseRotation, true
	}
	return PulseScale, false
}

// Oscillator holds the parameters shared by the rotation, translation, scale
// and pulse variants. Every apply method is a pure function of t: evaluating
// twice at the same t writes identical values, which keeps rewinding and
// scrubbing consistent.
type Oscillator struct {
	Axis      Axis
	Speed     float64 // radians per second (rotation)
	Direction mgl64.Vec3
	Amplitude float64
	Frequency float64 // radians per second
	Min, Max  float64
	Phase     float64
	Channel   PulseChannel

	initial mgl64.Vec3
}

// Value returns Min + (Max-Min) * (0.5 + 0.5*sin(t*Frequency + Phase)).
func (o *Oscillator) Value(t float64) float64 {
	return o.Min + (o.Max-o.Min)*(0.5+0.5*math.Sin(t*o.Frequency+o.Phase))
}

func (o *Oscillator) applyRotation(tr *Transform, t float64) {
	r := tr.Rotation()
	r[o.Axis] = o.Speed * t
	tr.SetRotation(r[0], r[1], r[2])
}

func (o *Oscillator) applyTranslation(tr *Transform, t float64) {
	p := o.initial.Add(o.Direction.Mul(math.Sin(t*o.Frequency) * o.Amplitude))
	tr.SetPosition(p[0], p[1], p[2])
}

func (o *Oscillator) applyScale(tr *Transform, t float64) {
	v := o.Value(t)
	tr.SetScale(v, v, v)
}

func (o *Oscillator) applyPulse(tr *Transform, t float64) {
	v := o.Value(t)
	switch o.Channel {
	case PulseRotation:
		tr.SetRotation(0, v, 0)
	default:
		tr.SetScale(v, v, v)
	}
}

// SwayConfig describes a layered idle motion. Each channel evaluates
// base + amplitude * sin(t*frequency + phase).
type SwayConfig struct {
	Position mgl64.Vec3 `yaml:"-"`
	Pitch    Wave       `yaml:"pitch"`
	Yaw      Wave       `yaml:"yaw"`
	Roll     Wave       `yaml:"roll"`
	// Breath scales uniformly when StretchY is false, otherwise only Y.
	Breath   Wave `yaml:"breath"`
	StretchY bool `yaml:"stretchY"`
}

// Wave is one sinusoidal channel.
type Wave struct {
	Base      float64 `yaml:"base"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Phase     float64 `yaml:"phase"`
}

// At evaluates the wave at t.
func (w Wave) At(t float64) float64 {
	return w.Base + w.Amplitude*math.Sin(t*w.Frequency+w.Phase)
}

// Sway drives the starfish-breathing and seaweed-swaying style idles.
type Sway struct {
	Config SwayConfig
}

func (s *Sway) apply(tr *Transform, t float64) {
	c := &s.Config
	tr.SetPosition(c.Position[0], c.Position[1], c.Position[2])
	tr.SetRotation(c.Pitch.At(t), c.Yaw.At(t), c.Roll.At(t))
	b := c.Breath.At(t)
	if c.StretchY {
		tr.SetScale(1, b, 1)
		return
	}
	tr.SetScale(b, b, b)
}
