package reef

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// AnimationKind distinguishes the update behavior of an Animation.
type AnimationKind uint8

const (
	AnimationRotation    AnimationKind = iota // angle = speed * t on one Euler axis
	AnimationTranslation                      // sinusoidal offset along a direction
	AnimationScale                            // uniform scale between min and max
	AnimationPulse                            // phased oscillator on scale or yaw
	AnimationDoorHinge                        // eased open/close driven by Open/Close
	AnimationLocomotion                       // cruise/pause/turn state machine
	AnimationSequence                         // composite wrapping an EventSequencer
	AnimationSway                             // layered pitch/yaw/roll/breath sinusoids
	AnimationOrbit                            // circles around another transform
	AnimationFollow                           // steps toward another transform
	AnimationAvoid                            // steps away from a nearby transform
	AnimationSync                             // copies a scaled yaw from another transform
)

var animationKindNames = [...]string{
	AnimationRotation:    "rotation",
	AnimationTranslation: "translation",
	AnimationScale:       "scale",
	AnimationPulse:       "pulse",
	AnimationDoorHinge:   "door",
	AnimationLocomotion:  "locomotion",
	AnimationSequence:    "sequence",
	AnimationSway:        "sway",
	AnimationOrbit:       "orbit",
	AnimationFollow:      "follow",
	AnimationAvoid:       "avoid",
	AnimationSync:        "synchronize",
}

// String returns the kind's configuration name.
func (k AnimationKind) String() string {
	if int(k) < len(animationKindNames) {
		return animationKindNames[k]
	}
	return fmt.Sprintf("AnimationKind(%d)", uint8(k))
}

// ParseAnimationKind maps a configuration name back to its kind.
func ParseAnimationKind(s string) (AnimationKind, bool) {
	for k, name := range animationKindNames {
		if name == s {
			return AnimationKind(k), true
		}
	}
	return 0, false
}

// Animation is a unit of per-frame behavior that reads virtual time and
// mutates the Transform it drives. A single flat struct is used for every
// variant: Kind selects which payload pointer is set, and Update dispatches
// with an exhaustive switch.
//
// Animations reference transforms; they never own them.
type Animation struct {
	// ID is assigned by the Scene on registration.
	ID     uint32
	Name   string
	Kind   AnimationKind
	Active bool

	target *Transform

	// Variant payloads. Exactly one is non-nil, matching Kind.
	Oscillator *Oscillator     // Rotation, Translation, Scale, Pulse
	Door       *DoorHinge      // DoorHinge
	Locomotion *Locomotion     // Locomotion
	Sequence   *EventSequencer // Sequence
	Sway       *Sway           // Sway
	Orbit      *Orbit          // Orbit
	Follow     *Follow         // Follow
	Avoid      *Avoid          // Avoid
	Sync       *Synchronize    // Sync
}

func newAnimation(name string, kind AnimationKind, target *Transform) *Animation {
	return &Animation{Name: name, Kind: kind, Active: true, target: target}
}

// Target returns the transform this animation drives, or nil for a sequence.
func (a *Animation) Target() *Transform { return a.target }

// Update applies the animation for virtual time t.
func (a *Animation) Update(t float64) {
	switch a.Kind {
	case AnimationRotation:
		a.Oscillator.applyRotation(a.target, t)
	case AnimationTranslation:
		a.Oscillator.applyTranslation(a.target, t)
	case AnimationScale:
		a.Oscillator.applyScale(a.target, t)
	case AnimationPulse:
		a.Oscillator.applyPulse(a.target, t)
	case AnimationDoorHinge:
		a.Door.update(a.target, t)
	case AnimationLocomotion:
		a.Locomotion.update(a.target, t)
	case AnimationSequence:
		a.Sequence.Update(t)
	case AnimationSway:
		a.Sway.apply(a.target, t)
	case AnimationOrbit:
		a.Orbit.apply(a.target, t)
	case AnimationFollow:
		a.Follow.step(a.target)
	case AnimationAvoid:
		a.Avoid.step(a.target)
	case AnimationSync:
		a.Sync.apply(a.target)
	default:
		panic(fmt.Sprintf("reef: animation %q has unknown kind %d", a.Name, a.Kind))
	}
}

// NewRotation creates an animation that sets target's rotation on axis to
// speed * t radians, preserving the other two axes.
func NewRotation(name string, target *Transform, axis Axis, speed float64) *Animation {
	a := newAnimation(name, AnimationRotation, target)
	a.Oscillator = &Oscillator{Axis: axis, Speed: speed}
	return a
}

// NewTranslation creates an animation that moves target along direction by
// amplitude * sin(t * frequency) around its position at construction time.
func NewTranslation(name string, target *Transform, direction mgl64.Vec3, amplitude, frequency float64) *Animation {
	a := newAnimation(name, AnimationTranslation, target)
	a.Oscillator = &Oscillator{
		Direction: direction,
		Amplitude: amplitude,
		Frequency: frequency,
		initial:   target.Position(),
	}
	return a
}

// NewScaleOscillator creates an animation that scales target uniformly between
// min and max.
func NewScaleOscillator(name string, target *Transform, min, max, frequency float64) *Animation {
	a := newAnimation(name, AnimationScale, target)
	a.Oscillator = &Oscillator{Min: min, Max: max, Frequency: frequency}
	return a
}

// NewPulse creates a phased oscillator writing either a uniform scale or a
// yaw rotation.
func NewPulse(name string, target *Transform, channel PulseChannel, min, max, frequency, phase float64) *Animation {
	a := newAnimation(name, AnimationPulse, target)
	a.Oscillator = &Oscillator{Min: min, Max: max, Frequency: frequency, Phase: phase, Channel: channel}
	return a
}

// NewDoorHinge creates an eased open/close driver. It stays still until
// Open or Close is called on its Door payload.
func NewDoorHinge(name string, target *Transform, cfg DoorConfig) *Animation {
	a := newAnimation(name, AnimationDoorHinge, target)
	a.Door = newDoorHinge(cfg)
	return a
}

// NewLocomotion creates a turning-locomotion state machine.
func NewLocomotion(name string, target *Transform, cfg LocomotionConfig) *Animation {
	a := newAnimation(name, AnimationLocomotion, target)
	a.Locomotion = newLocomotion(cfg)
	return a
}

// NewSequenceAnimation wraps seq so it can be advanced inside the animation
// pass instead of the scene's sequencer slot.
func NewSequenceAnimation(name string, seq *EventSequencer) *Animation {
	a := newAnimation(name, AnimationSequence, nil)
	a.Sequence = seq
	return a
}

// NewSway creates a layered idle motion (pitch, yaw, roll and breathing).
func NewSway(name string, target *Transform, cfg SwayConfig) *Animation {
	if cfg.Breath == (Wave{}) {
		cfg.Breath.Base = 1
	}
	a := newAnimation(name, AnimationSway, target)
	a.Sway = &Sway{Config: cfg}
	return a
}

// NewOrbit creates an animation circling target around center in the XZ plane.
// center is only read, never written.
func NewOrbit(name string, target, center *Transform, radius, speed float64) *Animation {
	a := newAnimation(name, AnimationOrbit, target)
	a.Orbit = &Orbit{Center: center, Radius: radius, Speed: speed}
	return a
}

// NewFollow creates an animation stepping target toward leader by speed units
// per update, whatever the clock is doing. leader is only read, never written.
func NewFollow(name string, target, leader *Transform, speed float64) *Animation {
	a := newAnimation(name, AnimationFollow, target)
	a.Follow = &Follow{Leader: leader, Speed: speed}
	return a
}

// NewAvoid creates an animation pushing target away from other by repelForce
// units per update while they are closer than minDistance. Non-positive
// arguments take the defaults 2 and 0.02.
func NewAvoid(name string, target, other *Transform, minDistance, repelForce float64) *Animation {
	if minDistance <= 0 {
		minDistance = 2
	}
	if repelForce <= 0 {
		repelForce = 0.02
	}
	a := newAnimation(name, AnimationAvoid, target)
	a.Avoid = &Avoid{Other: other, MinDistance: minDistance, RepelForce: repelForce}
	return a
}

// NewSynchronize creates an animation setting target's yaw to leader's yaw
// times factor. A zero factor takes the default 0.5.
func NewSynchronize(name string, target, leader *Transform, factor float64) *Animation {
	if factor == 0 {
		factor = 0.5
	}
	a := newAnimation(name, AnimationSync, target)
	a.Sync = &Synchronize{Leader: leader, Factor: factor}
	return a
}
