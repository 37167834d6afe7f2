package reef

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// focusAnim holds active focus-to tweens for the camera target.
type focusAnim struct {
	tweens [3]*gween.Tween
	done   bool
}

// Camera is an orbit camera looking at Target from Distance along the
// direction given by Yaw and Pitch. It produces the view and projection
// matrices the renderer needs; input handling that moves it lives with the
// caller.
type Camera struct {
	Target   mgl64.Vec3
	Distance float64
	// Yaw rotates about Y, Pitch raises the eye above the XZ plane (radians).
	Yaw, Pitch float64
	// FovY is the vertical field of view in radians.
	FovY      float64
	Near, Far float64
	// Width and Height are the viewport size in pixels.
	Width, Height float64

	follow *Transform
	focus  *focusAnim
}

// NewCamera creates a camera looking at the origin from 25 units away.
func NewCamera(width, height float64) *Camera {
	return &Camera{
		Distance: 25,
		Pitch:    0.25,
		FovY:     mgl64.DegToRad(45),
		Near:     0.1,
		Far:      200,
		Width:    width,
		Height:   height,
	}
}

// Follow keeps Target on t's world position each update. Nil stops following.
func (c *Camera) Follow(t *Transform) {
	c.follow = t
	c.focus = nil
}

// FocusOn animates Target to p over duration seconds.
func (c *Camera) FocusOn(p mgl64.Vec3, duration float32, fn ease.TweenFunc) {
	c.follow = nil
	c.focus = &focusAnim{}
	for i := range 3 {
		c.focus.tweens[i] = gween.New(float32(c.Target[i]), float32(p[i]), duration, fn)
	}
}

// Zoom multiplies Distance by factor, clamped to [1, Far/2].
func (c *Camera) Zoom(factor float64) {
	c.Distance = clampRange(c.Distance*factor, 1, c.Far/2)
}

// Orbit adds to Yaw and Pitch, keeping Pitch short of the poles.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = clampRange(c.Pitch+dPitch, -1.5, 1.5)
}

// Update advances follow and focus. Driven on wall time like particles, so
// the view keeps moving while the scene is paused.
func (c *Camera) Update(dt float64) {
	if c.follow != nil {
		c.Target = c.follow.WorldPosition()
		return
	}
	if c.focus == nil || c.focus.done {
		return
	}
	done := true
	for i, tw := range c.focus.tweens {
		v, finished := tw.Update(float32(dt))
		c.Target[i] = float64(v)
		done = done && finished
	}
	c.focus.done = done
}

// Eye returns the camera position in world space.
func (c *Camera) Eye() mgl64.Vec3 {
	sy, cy := math.Sincos(c.Yaw)
	sp, cp := math.Sincos(c.Pitch)
	d := math.Max(c.Distance, minMagnitude)
	return c.Target.Add(mgl64.Vec3{sy * cp * d, sp * d, cy * cp * d})
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye(), c.Target, mgl64.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection for the viewport.
func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	aspect := c.Width / math.Max(c.Height, minMagnitude)
	return mgl64.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// Project maps a world point to screen pixels. ok is false for points behind
// the camera. depth is the clip-space w, useful for size attenuation.
func (c *Camera) Project(p mgl64.Vec3) (x, y, depth float64, ok bool) {
	clip := c.ProjectionMatrix().Mul4(c.ViewMatrix()).Mul4x1(p.Vec4(1))
	if clip[3] <= minMagnitude {
		return 0, 0, 0, false
	}
	nx := clip[0] / clip[3]
	ny := clip[1] / clip[3]
	x = (nx + 1) / 2 * c.Width
	y = (1 - ny) / 2 * c.Height
	return x, y, clip[3], true
}
