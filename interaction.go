package reef

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Orbit circles the driven transform around Center in the XZ plane at
// angle Speed * t, keeping the driven transform's own height.
type Orbit struct {
	Center *Transform
	Radius float64
	Speed  float64
}

func (o *Orbit) apply(tr *Transform, t float64) {
	c := o.Center.WorldPosition()
	sin, cos := math.Sincos(t * o.Speed)
	y := tr.Position()[1]
	tr.SetPosition(c[0]+cos*o.Radius, y, c[2]+sin*o.Radius)
}

// Follow steps the driven transform toward Leader by Speed units per update
// and snaps onto it once closer than one step. The step is per call, not per
// virtual second, so Follow ignores pause and time scale.
type Follow struct {
	Leader *Transform
	Speed  float64
}

func (f *Follow) step(tr *Transform) {
	from := tr.Position()
	dir := f.Leader.WorldPosition().Sub(from)
	dist := dir.Len()
	if dist <= f.Speed {
		to := from.Add(dir)
		tr.SetPosition(to[0], to[1], to[2])
		return
	}
	p := from.Add(safeNormalize(dir).Mul(f.Speed))
	tr.SetPosition(p[0], p[1], p[2])
}

// Avoid pushes the driven transform directly away from Other by RepelForce
// units per update while the two are closer than MinDistance. Like Follow it
// works per call and ignores pause and time scale.
type Avoid struct {
	Other       *Transform
	MinDistance float64
	RepelForce  float64
}

func (a *Avoid) step(tr *Transform) {
	from := tr.Position()
	away := from.Sub(a.Other.WorldPosition())
	if away.Len() >= a.MinDistance {
		return
	}
	if away.Len() < minMagnitude {
		// Coincident: any direction works, pick +X.
		away = mgl64.Vec3{1, 0, 0}
	}
	p := from.Add(safeNormalize(away).Mul(a.RepelForce))
	tr.SetPosition(p[0], p[1], p[2])
}

// Synchronize sets the driven transform's yaw to Leader's yaw times Factor,
// keeping its own pitch and roll.
type Synchronize struct {
	Leader *Transform
	Factor float64
}

func (s *Synchronize) apply(tr *Transform) {
	r := tr.Rotation()
	tr.SetRotation(r[0], s.Leader.Rotation()[1]*s.Factor, r[2])
}

// safeNormalize returns v scaled to unit length, or v unchanged when it is
// shorter than minMagnitude.
func safeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < minMagnitude {
		return v
	}
	return v.Mul(1 / l)
}
