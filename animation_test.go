package reef

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAnimationKindNames(t *testing.T) {
	for k := AnimationRotation; k <= AnimationSync; k++ {
		got, ok := ParseAnimationKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseAnimationKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseAnimationKind("teleport"); ok {
		t.Error("unknown kind parsed")
	}
}

func TestAnimationUnknownKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	a := &Animation{Name: "bad", Kind: AnimationKind(200), target: NewTransform("x")}
	a.Update(0)
}

// --- Oscillators ---

func TestRotationPreservesOtherAxes(t *testing.T) {
	tr := NewTransform("wheel")
	tr.SetRotation(0.1, 0, 0.2)
	a := NewRotation("spin", tr, AxisY, 2)
	a.Update(1.5)
	assertVec3(t, "rotation", tr.Rotation(), mgl64.Vec3{0.1, 3, 0.2})
}

func TestTranslationAroundInitialPosition(t *testing.T) {
	tr := NewTransform("buoy")
	tr.SetPosition(1, 2, 3)
	a := NewTranslation("bob", tr, mgl64.Vec3{0, 1, 0}, 0.5, 2)

	a.Update(math.Pi / 4) // sin(pi/2) = 1
	assertVec3(t, "peak", tr.Position(), mgl64.Vec3{1, 2.5, 3})
	a.Update(0)
	assertVec3(t, "rest", tr.Position(), mgl64.Vec3{1, 2, 3})
}

func TestScaleOscillatorRange(t *testing.T) {
	tr := NewTransform("puffer")
	a := NewScaleOscillator("breathe", tr, 0.8, 1.2, 1)
	for _, tt := range []float64{0, 0.3, 1, 2.5, 4.7, 10} {
		a.Update(tt)
		s := tr.Scale()
		if s[0] < 0.8-epsilon || s[0] > 1.2+epsilon {
			t.Errorf("t=%v: scale %v out of range", tt, s[0])
		}
		if s[0] != s[1] || s[1] != s[2] {
			t.Errorf("t=%v: non-uniform scale %v", tt, s)
		}
	}
	a.Update(0)
	assertNear(t, "midpoint", tr.Scale()[0], 1)
}

func TestPulseChannels(t *testing.T) {
	tr := NewTransform("chest")
	tr.SetRotation(0.5, 0.5, 0.5)
	a := NewPulse("glow", tr, PulseRotation, -0.1, 0.1, 1, math.Pi/2)
	a.Update(0) // sin(pi/2) = 1 -> max
	assertVec3(t, "rotation", tr.Rotation(), mgl64.Vec3{0, 0.1, 0})

	s := NewTransform("shell")
	p := NewPulse("throb", s, PulseScale, 1, 2, 1, -math.Pi/2)
	p.Update(0) // sin(-pi/2) = -1 -> min
	assertVec3(t, "scale", s.Scale(), mgl64.Vec3{1, 1, 1})
}

func TestParsePulseChannel(t *testing.T) {
	tests := []struct {
		in   string
		want PulseChannel
		ok   bool
	}{
		{"", PulseScale, true},
		{"scale", PulseScale, true},
		{"rotation", PulseRotation, true},
		{"colour", PulseScale, false},
	}
	for _, tt := range tests {
		got, ok := ParsePulseChannel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePulseChannel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

// Evaluating an oscillator at the same virtual time must write bit-identical
// state regardless of what was evaluated in between.
func TestOscillatorsArePureFunctionsOfTime(t *testing.T) {
	tr := NewTransform("t")
	anims := []*Animation{
		NewRotation("r", tr, AxisZ, 1.7),
		NewTranslation("tr", tr, mgl64.Vec3{1, 2, 0}, 0.3, 2.2),
		NewScaleOscillator("s", tr, 0.5, 1.5, 3.1),
		NewPulse("p", tr, PulseRotation, -1, 1, 0.7, 0.4),
		NewSway("w", tr, SwayConfig{Pitch: Wave{Amplitude: 0.1, Frequency: 1.3}}),
	}
	for _, a := range anims {
		a.Update(2.7)
		want := tr.LocalMatrix()
		a.Update(9.1)
		a.Update(0.2)
		a.Update(2.7)
		if got := tr.LocalMatrix(); got != want {
			t.Errorf("%s: matrix at t=2.7 differs after scrubbing: %v vs %v", a.Name, got, want)
		}
	}
}

// --- Sway ---

func TestSwayLayers(t *testing.T) {
	tr := NewTransform("starfish")
	a := NewSway("creep", tr, SwayConfig{
		Position: mgl64.Vec3{1, -5, 2},
		Yaw:      Wave{Base: 0.5, Amplitude: 0.2, Frequency: 1},
		Breath:   Wave{Base: 1, Amplitude: 0.1, Frequency: 1},
		StretchY: true,
	})
	a.Update(math.Pi / 2)
	assertVec3(t, "position", tr.Position(), mgl64.Vec3{1, -5, 2})
	assertVec3(t, "rotation", tr.Rotation(), mgl64.Vec3{0, 0.7, 0})
	assertVec3(t, "scale", tr.Scale(), mgl64.Vec3{1, 1.1, 1})
}

func TestSwayDefaultBreathKeepsUnitScale(t *testing.T) {
	tr := NewTransform("weed")
	a := NewSway("sway", tr, SwayConfig{Roll: Wave{Amplitude: 0.3, Frequency: 2}})
	a.Update(1.3)
	assertVec3(t, "scale", tr.Scale(), mgl64.Vec3{1, 1, 1})
}

// --- Interaction ---

func TestOrbitCirclesCenter(t *testing.T) {
	center := NewTransform("chest")
	center.SetPosition(2, -4, 5)
	tr := NewTransform("crab")
	tr.SetPosition(0, -4.5, 0)
	a := NewOrbit("circle", tr, center, 3, 1)

	a.Update(0)
	assertVec3(t, "t=0", tr.Position(), mgl64.Vec3{5, -4.5, 5})
	a.Update(math.Pi / 2)
	assertVec3(t, "t=pi/2", tr.Position(), mgl64.Vec3{2, -4.5, 8})
	assertVec3(t, "center untouched", center.Position(), mgl64.Vec3{2, -4, 5})
}

func TestFollowStepsTowardLeader(t *testing.T) {
	leader := NewTransform("fish")
	leader.SetPosition(10, 0, 0)
	tr := NewTransform("minnow")
	a := NewFollow("chase", tr, leader, 4)

	a.Update(0)
	assertVec3(t, "step 1", tr.Position(), mgl64.Vec3{4, 0, 0})
	a.Update(0)
	assertVec3(t, "step 2", tr.Position(), mgl64.Vec3{8, 0, 0})
	a.Update(0)
	assertVec3(t, "snapped", tr.Position(), mgl64.Vec3{10, 0, 0})
	a.Update(0)
	assertVec3(t, "stays", tr.Position(), mgl64.Vec3{10, 0, 0})
}

func TestFollowIgnoresPause(t *testing.T) {
	s, _ := newTestScene()
	leader := s.NewTransform("fish")
	leader.SetPosition(10, 0, 0)
	tr := s.NewTransform("minnow")
	_ = s.AddAnimation(NewFollow("chase", tr, leader, 1))
	s.Pause()
	s.Update()
	s.Update()
	assertVec3(t, "stepped while paused", tr.Position(), mgl64.Vec3{2, 0, 0})
}

func TestAvoidPushesAwayWhenClose(t *testing.T) {
	crab := NewTransform("crab")
	crab.SetPosition(0, 0, 0)
	tr := NewTransform("shrimp")
	tr.SetPosition(1, 0, 0)
	a := NewAvoid("shy", tr, crab, 2, 0.5)

	a.Update(0)
	assertVec3(t, "step 1", tr.Position(), mgl64.Vec3{1.5, 0, 0})
	a.Update(0)
	assertVec3(t, "step 2", tr.Position(), mgl64.Vec3{2, 0, 0})
	// At MinDistance the push stops.
	a.Update(0)
	assertVec3(t, "outside range", tr.Position(), mgl64.Vec3{2, 0, 0})
	assertVec3(t, "other untouched", crab.Position(), mgl64.Vec3{})
}

func TestAvoidCoincidentStillMoves(t *testing.T) {
	crab := NewTransform("crab")
	tr := NewTransform("shrimp")
	a := NewAvoid("shy", tr, crab, 0, 0)
	a.Update(0)
	got := tr.Position()
	for i, v := range got {
		if math.IsNaN(v) {
			t.Fatalf("component %d is NaN", i)
		}
	}
	assertNear(t, "pushed by default force", got.Len(), 0.02)
}

func TestSynchronizeScalesLeaderYaw(t *testing.T) {
	leader := NewTransform("seaweed")
	leader.SetRotation(0.3, 0.8, 0)
	tr := NewTransform("kelp")
	tr.SetRotation(0.1, 0, 0.2)
	a := NewSynchronize("mimic", tr, leader, 0)

	a.Update(0)
	assertVec3(t, "rotation", tr.Rotation(), mgl64.Vec3{0.1, 0.4, 0.2})

	a.Sync.Factor = -1
	a.Update(0)
	assertVec3(t, "mirrored", tr.Rotation(), mgl64.Vec3{0.1, -0.8, 0.2})
}

func TestSafeNormalize(t *testing.T) {
	assertVec3(t, "unit", safeNormalize(mgl64.Vec3{0, 3, 4}), mgl64.Vec3{0, 0.6, 0.8})
	assertVec3(t, "tiny", safeNormalize(mgl64.Vec3{1e-9, 0, 0}), mgl64.Vec3{1e-9, 0, 0})
}

// --- Helpers ---

func TestLerpAngleShortestArc(t *testing.T) {
	from := 170 * math.Pi / 180
	to := -170 * math.Pi / 180
	// The short way crosses +-180 and covers 20 degrees.
	assertNear(t, "delta", wrapAngle(to-from), 20*math.Pi/180)
	assertNear(t, "half", lerpAngle(from, to, 0.5), math.Pi)
	assertNear(t, "end", lerpAngle(from, to, 1), from+20*math.Pi/180)
}

func TestWrapAngle(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{4*math.Pi + 0.5, 0.5},
	}
	for _, tt := range tests {
		assertNear(t, "wrap", wrapAngle(tt.in), tt.want)
	}
}
