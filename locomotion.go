package reef

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LocomotionState is a phase of the turning-locomotion state machine.
type LocomotionState uint8

const (
	CruiseForward        LocomotionState = iota // moving toward the forward limit
	PauseAtForwardLimit                         // resting at the forward limit
	TurnToBackward                              // pivoting to face backward
	CruiseBackward                              // moving toward the backward limit
	PauseAtBackwardLimit                        // resting at the backward limit
	TurnToForward                               // pivoting to face forward
)

var locomotionStateNames = [...]string{
	CruiseForward:        "CruiseForward",
	PauseAtForwardLimit:  "PauseAtForwardLimit",
	TurnToBackward:       "TurnToBackward",
	CruiseBackward:       "CruiseBackward",
	PauseAtBackwardLimit: "PauseAtBackwardLimit",
	TurnToForward:        "TurnToForward",
}

func (s LocomotionState) String() string {
	if int(s) < len(locomotionStateNames) {
		return locomotionStateNames[s]
	}
	return "LocomotionState(?)"
}

// IsCruising reports whether s is one of the two cruise states.
func (s LocomotionState) IsCruising() bool {
	return s == CruiseForward || s == CruiseBackward
}

// IsTurning reports whether s is one of the two turn states.
func (s LocomotionState) IsTurning() bool {
	return s == TurnToBackward || s == TurnToForward
}

// Headings, in radians about Y, for the two cruise directions.
const (
	HeadingForward  = math.Pi / 2
	HeadingBackward = -math.Pi / 2
)

// LocomotionConfig is the setup record for a Locomotion animation. Zero fields
// are replaced by DefaultLocomotionConfig values in newLocomotion, except
// PivotOffset, where zero is a valid choice.
type LocomotionConfig struct {
	BackwardLimit float64    `yaml:"backwardLimit"`
	ForwardLimit  float64    `yaml:"forwardLimit"`
	BaseY         float64    `yaml:"baseY"`
	Speed         float64    `yaml:"speed"`
	TurnDuration  float64    `yaml:"turnDuration"`
	PauseDuration float64    `yaml:"pauseDuration"`
	PivotOffset   mgl64.Vec3 `yaml:"-"`

	BobAmplitude   float64 `yaml:"bobAmplitude"`
	BobFrequency   float64 `yaml:"bobFrequency"`
	PitchAmplitude float64 `yaml:"pitchAmplitude"`
	PitchFrequency float64 `yaml:"pitchFrequency"`
}

// DefaultLocomotionConfig returns the stock fish-like cruise parameters.
func DefaultLocomotionConfig() LocomotionConfig {
	return LocomotionConfig{
		BackwardLimit:  -12,
		ForwardLimit:   12,
		BaseY:          0.2,
		Speed:          3,
		TurnDuration:   1.5,
		PauseDuration:  0.4,
		BobAmplitude:   0.05,
		BobFrequency:   3.2,
		PitchAmplitude: 0.03,
		PitchFrequency: 6,
	}
}

// Locomotion is a creature cruising back and forth along X between two
// limits, pausing at each end and turning about a pivot point.
//
// It is driven by virtual time: the per-call delta is derived from the last
// time seen, so time scaling and rewinding flow through naturally.
type Locomotion struct {
	Config LocomotionConfig

	// OnTransition, if set, is called after every state change.
	OnTransition func(from, to LocomotionState)

	state    LocomotionState
	position float64
	heading  float64
	inState  float64

	lastTime float64
	started  bool

	turning    bool
	turnPivot  mgl64.Vec3
	turnFrom   float64
	turnTarget float64
}

func newLocomotion(cfg LocomotionConfig) *Locomotion {
	def := DefaultLocomotionConfig()
	if cfg.BackwardLimit == 0 && cfg.ForwardLimit == 0 {
		cfg.BackwardLimit, cfg.ForwardLimit = def.BackwardLimit, def.ForwardLimit
	}
	if cfg.ForwardLimit < cfg.BackwardLimit {
		cfg.BackwardLimit, cfg.ForwardLimit = cfg.ForwardLimit, cfg.BackwardLimit
	}
	if cfg.Speed == 0 {
		cfg.Speed = def.Speed
	}
	return &Locomotion{
		Config:   cfg,
		state:    CruiseForward,
		position: cfg.BackwardLimit,
		heading:  HeadingForward,
	}
}

// State returns the current state.
func (l *Locomotion) State() LocomotionState { return l.state }

// Position returns the longitudinal (X) position of the head.
func (l *Locomotion) Position() float64 { return l.position }

// Heading returns the current heading in radians about Y.
func (l *Locomotion) Heading() float64 { return l.heading }

// TimeInState returns the virtual seconds spent in the current state.
func (l *Locomotion) TimeInState() float64 { return l.inState }

// Pivot returns the cached world-space pivot and true while turning.
func (l *Locomotion) Pivot() (mgl64.Vec3, bool) { return l.turnPivot, l.turning }

// reset returns the machine to its start: cruising forward from the backward
// limit. The next update only records time.
func (l *Locomotion) reset() {
	l.state = CruiseForward
	l.position = l.Config.BackwardLimit
	l.heading = HeadingForward
	l.inState = 0
	l.lastTime = 0
	l.started = false
	l.turning = false
	l.turnPivot = mgl64.Vec3{}
}

func (l *Locomotion) update(tr *Transform, t float64) {
	if !l.started {
		l.started = true
		l.lastTime = t
		l.writePose(tr, t)
		return
	}
	dt := t - l.lastTime
	l.lastTime = t
	// Rewinding never builds up a backlog in a pause or turn.
	l.inState = math.Max(l.inState+dt, 0)

	c := &l.Config
	switch l.state {
	case CruiseForward:
		l.position = clampRange(l.position+c.Speed*dt, c.BackwardLimit, c.ForwardLimit)
		if l.position >= c.ForwardLimit {
			l.transition(PauseAtForwardLimit)
		}
	case PauseAtForwardLimit:
		if l.inState >= c.PauseDuration || c.PauseDuration <= 0 {
			l.transition(TurnToBackward)
		}
	case TurnToBackward:
		l.updateTurn(CruiseBackward)
	case CruiseBackward:
		l.position = clampRange(l.position-c.Speed*dt, c.BackwardLimit, c.ForwardLimit)
		if l.position <= c.BackwardLimit {
			l.transition(PauseAtBackwardLimit)
		}
	case PauseAtBackwardLimit:
		if l.inState >= c.PauseDuration || c.PauseDuration <= 0 {
			l.transition(TurnToForward)
		}
	case TurnToForward:
		l.updateTurn(CruiseForward)
	}

	l.writePose(tr, t)
}

// updateTurn advances the heading along the shortest arc and moves to next
// once progress reaches 1. A non-positive duration completes immediately.
func (l *Locomotion) updateTurn(next LocomotionState) {
	progress := 1.0
	if l.Config.TurnDuration > 0 {
		progress = clamp01(l.inState / l.Config.TurnDuration)
	}
	l.heading = lerpAngle(l.turnFrom, l.turnTarget, progress)
	if progress >= 1 {
		l.heading = l.turnTarget
		l.transition(next)
	}
}

func (l *Locomotion) transition(next LocomotionState) {
	prev := l.state
	l.state = next
	l.inState = 0

	l.turning = next.IsTurning()
	if l.turning {
		// The pivot is fixed for the whole turn so the body sweeps an arc
		// around it instead of spinning about its own origin.
		l.turnFrom = l.heading
		l.turnTarget = HeadingBackward
		if next == TurnToForward {
			l.turnTarget = HeadingForward
		}
		head := mgl64.Vec3{l.position, l.Config.BaseY, 0}
		rot := mgl64.HomogRotate3DY(l.heading)
		l.turnPivot = head.Add(mgl64.TransformCoordinate(l.Config.PivotOffset, rot))
	}

	if l.OnTransition != nil {
		l.OnTransition(prev, next)
	}
}

// writePose builds the world pose and installs it on tr:
//
//	Translate(pivot) * RotateX(pitch) * RotateY(heading) * Scale * Translate(-pivotOffset)
func (l *Locomotion) writePose(tr *Transform, t float64) {
	c := &l.Config
	var bob, pitch float64
	if l.state.IsCruising() {
		bob = math.Sin(t*c.BobFrequency) * c.BobAmplitude
		pitch = math.Sin(t*c.PitchFrequency) * c.PitchAmplitude
	}
	head := mgl64.Vec3{l.position, c.BaseY + bob, 0}
	rot := mgl64.HomogRotate3DX(pitch).Mul4(mgl64.HomogRotate3DY(l.heading))

	var pivot mgl64.Vec3
	if l.turning {
		pivot = l.turnPivot
		pivot[1] = head[1]
	} else {
		pivot = head.Add(mgl64.TransformCoordinate(c.PivotOffset, rot))
	}

	s := tr.Scale()
	off := c.PivotOffset
	m := mgl64.Translate3D(pivot[0], pivot[1], pivot[2]).
		Mul4(rot).
		Mul4(mgl64.Scale3D(s[0], s[1], s[2])).
		Mul4(mgl64.Translate3D(-off[0], -off[1], -off[2]))
	tr.setLocalMatrix(m)
}

// clampRange clamps v into [lo, hi].
func clampRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
