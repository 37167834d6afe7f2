package reef

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrTransformCycle is returned by SetParent when the new parent would
	// make the hierarchy cyclic.
	ErrTransformCycle = errors.New("reef: transform parent cycle")
	// ErrTransformOwned is returned when a second animation tries to drive a
	// transform that already has an owner.
	ErrTransformOwned = errors.New("reef: transform already driven by another animation")
)

// Transform is a node in the spatial hierarchy. Local state is written through
// the Set* methods, which mark the cached local matrix dirty; WorldMatrix
// recomputes lazily.
//
// A Transform does not own its parent and never outlives the Scene it was
// registered with. At most one Animation may drive it.
type Transform struct {
	Name string

	position mgl64.Vec3
	rotation mgl64.Vec3 // Euler radians, applied X -> Y -> Z
	scale    mgl64.Vec3

	local mgl64.Mat4
	dirty bool

	parent *Transform
	owner  *Animation
}

// NewTransform creates a transform at the origin with unit scale.
func NewTransform(name string) *Transform {
	return &Transform{
		Name:  name,
		scale: mgl64.Vec3{1, 1, 1},
		local: mgl64.Ident4(),
		dirty: true,
	}
}

// SetPosition sets the local position and marks the transform dirty.
func (t *Transform) SetPosition(x, y, z float64) {
	t.position = mgl64.Vec3{x, y, z}
	t.dirty = true
}

// SetRotation sets the local Euler rotation (radians) and marks the transform dirty.
func (t *Transform) SetRotation(x, y, z float64) {
	t.rotation = mgl64.Vec3{x, y, z}
	t.dirty = true
}

// SetScale sets the local scale and marks the transform dirty.
func (t *Transform) SetScale(x, y, z float64) {
	t.scale = mgl64.Vec3{x, y, z}
	t.dirty = true
}

// SetParent replaces the parent reference. A nil parent detaches the
// transform. Returns ErrTransformCycle if parent is t or one of its
// descendants; the hierarchy is left unchanged in that case.
func (t *Transform) SetParent(parent *Transform) error {
	for p := parent; p != nil; p = p.parent {
		if p == t {
			return fmt.Errorf("set parent of %q to %q: %w", t.Name, parent.Name, ErrTransformCycle)
		}
	}
	t.parent = parent
	t.dirty = true
	return nil
}

// Parent returns the parent transform, or nil.
func (t *Transform) Parent() *Transform { return t.parent }

// Owner returns the animation driving this transform, or nil.
func (t *Transform) Owner() *Animation { return t.owner }

// Position returns the local position.
func (t *Transform) Position() mgl64.Vec3 { return t.position }

// Rotation returns the local Euler rotation in radians.
func (t *Transform) Rotation() mgl64.Vec3 { return t.rotation }

// Scale returns the local scale.
func (t *Transform) Scale() mgl64.Vec3 { return t.scale }

// IsDirty reports whether the cached local matrix is stale.
func (t *Transform) IsDirty() bool { return t.dirty }

// LocalMatrix returns the local matrix, recomputing it if dirty.
//
// Composition order:
//
//	Translate -> RotateX -> RotateY -> RotateZ -> Scale
func (t *Transform) LocalMatrix() mgl64.Mat4 {
	if t.dirty {
		t.local = computeLocalMatrix(t.position, t.rotation, t.scale)
		t.dirty = false
	}
	return t.local
}

// WorldMatrix returns the world matrix. It reflects every mutation made
// before the call. With a parent, the product parent.WorldMatrix() * local is
// recomputed on every read since the parent may change independently.
func (t *Transform) WorldMatrix() mgl64.Mat4 {
	local := t.LocalMatrix()
	if t.parent == nil {
		return local
	}
	return t.parent.WorldMatrix().Mul4(local)
}

// WorldPosition returns the translation column of the world matrix.
func (t *Transform) WorldPosition() mgl64.Vec3 {
	return t.WorldMatrix().Col(3).Vec3()
}

// LocalToWorld converts a point in this transform's local space to world space.
func (t *Transform) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, t.WorldMatrix())
}

// setLocalMatrix installs a precomputed local matrix and clears the dirty
// flag. The next Set* call discards it in favour of position/rotation/scale.
func (t *Transform) setLocalMatrix(m mgl64.Mat4) {
	t.local = m
	t.dirty = false
}

// claim records a as the single animation driving t.
func (t *Transform) claim(a *Animation) error {
	if t.owner != nil && t.owner != a {
		return fmt.Errorf("claim %q for %q (owned by %q): %w", t.Name, a.Name, t.owner.Name, ErrTransformOwned)
	}
	t.owner = a
	return nil
}

// release clears the owner if it is a.
func (t *Transform) release(a *Animation) {
	if t.owner == a {
		t.owner = nil
	}
}

// computeLocalMatrix builds T * Rx * Ry * Rz * S.
func computeLocalMatrix(pos, rot, scale mgl64.Vec3) mgl64.Mat4 {
	m := mgl64.Translate3D(pos[0], pos[1], pos[2])
	m = m.Mul4(mgl64.HomogRotate3DX(rot[0]))
	m = m.Mul4(mgl64.HomogRotate3DY(rot[1]))
	m = m.Mul4(mgl64.HomogRotate3DZ(rot[2]))
	return m.Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}
