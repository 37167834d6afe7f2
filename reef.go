package reef

import (
	"image/color"
	"math"
	"math/rand/v2"
)

// minMagnitude is the smallest length or duration used as a divisor.
// Anything shorter is substituted with this value rather than producing
// NaN or Inf.
const minMagnitude = 1e-6

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// toRGBA converts to a premultiplied color.RGBA for ebiten.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// Range is a general-purpose min/max range.
// Used by the particle pool for randomized spawn parameters.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Random returns a random float64 in [Min, Max] drawn from r, or from the
// global source when r is nil.
func (rg Range) Random(r *rand.Rand) float64 {
	if rg.Min == rg.Max {
		return rg.Min
	}
	if r == nil {
		return rg.Min + rand.Float64()*(rg.Max-rg.Min)
	}
	return rg.Min + r.Float64()*(rg.Max-rg.Min)
}

// Contains reports whether v lies in [Min, Max].
func (rg Range) Contains(v float64) bool {
	return v >= rg.Min && v <= rg.Max
}

// Axis selects one Euler rotation axis or one position component.
type Axis uint8

const (
	AxisX Axis = iota // pitch / lateral
	AxisY             // yaw / vertical
	AxisZ             // roll / depth
)

// String returns the lowercase axis letter.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

// ParseAxis maps "x", "y" or "z" to an Axis.
func ParseAxis(s string) (Axis, bool) {
	switch s {
	case "x", "X":
		return AxisX, true
	case "y", "Y":
		return AxisY, true
	case "z", "Z":
		return AxisZ, true
	}
	return AxisX, false
}

// clamp01 clamps v into [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// wrapAngle normalizes an angle delta into (-Pi, Pi].
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// lerpAngle interpolates from start to end along the shortest arc.
func lerpAngle(start, end, t float64) float64 {
	return start + wrapAngle(end-start)*t
}
