package reef

import (
	"math"
	"testing"
)

// Door progress goes through gween's float32 tweens.
const doorEpsilon = 1e-5

func assertAngle(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > doorEpsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func newTestDoor(duration float64) (*Animation, *Transform) {
	tr := NewTransform("lid")
	a := NewDoorHinge("hinge", tr, DoorConfig{Axis: AxisX, OpenAngle: -math.Pi / 2, Duration: duration})
	return a, tr
}

func TestDoorIdleDoesNothing(t *testing.T) {
	a, tr := newTestDoor(2)
	tr.SetRotation(0.3, 0, 0)
	a.Update(5)
	assertNear(t, "rotation x", tr.Rotation()[0], 0.3)
	if !a.Door.IsClosed() {
		t.Error("door should start closed")
	}
}

func TestDoorOpenEasesInOut(t *testing.T) {
	a, tr := newTestDoor(2)
	a.Door.Open()
	if !a.Door.IsOpening() {
		t.Fatal("expected opening")
	}

	a.Update(10) // anchors the motion
	assertAngle(t, "start", a.Door.Angle(), 0)

	a.Update(10.5)
	// InOutQuad at a quarter of the way: 2 * 0.25^2 = 0.125 of the change.
	assertAngle(t, "quarter", a.Door.Angle(), -math.Pi/2*0.125)

	a.Update(11)
	assertAngle(t, "half", a.Door.Angle(), -math.Pi/4)
	assertAngle(t, "rotation", tr.Rotation()[0], -math.Pi/4)

	a.Update(12)
	if !a.Door.IsOpen() {
		t.Fatalf("expected open, angle %v", a.Door.Angle())
	}
	assertNear(t, "open", a.Door.Angle(), -math.Pi/2)
	assertNear(t, "rotation", tr.Rotation()[0], -math.Pi/2)
}

func TestDoorOpenIsIdempotent(t *testing.T) {
	a, _ := newTestDoor(2)
	a.Door.Open()
	a.Update(0)
	a.Update(1)
	a.Door.Open() // must not restart the motion
	a.Update(2)
	if !a.Door.IsOpen() {
		t.Fatalf("expected open, angle %v", a.Door.Angle())
	}

	a.Door.Open()
	if a.Door.IsOpening() {
		t.Error("Open on an open door started a motion")
	}
}

func TestDoorCloseWhenClosedIsNoop(t *testing.T) {
	a, _ := newTestDoor(2)
	a.Door.Close()
	if a.Door.IsClosing() {
		t.Error("Close on a closed door started a motion")
	}
}

func TestDoorReverseMidMotion(t *testing.T) {
	a, _ := newTestDoor(2)
	a.Door.Open()
	a.Update(0)
	a.Update(1)
	mid := a.Door.Angle()
	assertAngle(t, "mid", mid, -math.Pi/4)

	a.Door.Close()
	if !a.Door.IsClosing() {
		t.Fatal("expected closing")
	}
	a.Update(1)
	// The close starts from where the open left off, not from the open angle.
	assertAngle(t, "reversal start", a.Door.Angle(), mid)
	a.Update(3)
	if !a.Door.IsClosed() {
		t.Fatalf("expected closed, angle %v", a.Door.Angle())
	}
}

func TestDoorToggle(t *testing.T) {
	a, _ := newTestDoor(1)
	a.Door.Toggle()
	if !a.Door.IsOpening() {
		t.Fatal("toggle on closed should open")
	}
	a.Door.Toggle()
	if !a.Door.IsClosing() {
		t.Fatal("toggle while opening should close")
	}
}

func TestDoorZeroDurationCompletesImmediately(t *testing.T) {
	a, tr := newTestDoor(0)
	a.Door.Open()
	a.Update(4)
	if !a.Door.IsOpen() {
		t.Fatalf("expected open, angle %v", a.Door.Angle())
	}
	assertNear(t, "rotation", tr.Rotation()[0], -math.Pi/2)
}

func TestDoorReanchorsWhenTimeRewinds(t *testing.T) {
	a, _ := newTestDoor(2)
	a.Door.Open()
	a.Update(5)
	a.Update(6)
	a.Update(3) // scene rewound past the anchor
	assertAngle(t, "re-anchored", a.Door.Angle(), 0)
	a.Update(4)
	assertAngle(t, "replayed half", a.Door.Angle(), -math.Pi/4)
	if a.Door.IsOpen() {
		t.Fatal("door should still be moving")
	}
	a.Update(5)
	if !a.Door.IsOpen() {
		t.Fatalf("expected open, angle %v", a.Door.Angle())
	}
}

func TestDoorOtherAxesPreserved(t *testing.T) {
	tr := NewTransform("gate")
	tr.SetRotation(0.1, 0.2, 0.3)
	a := NewDoorHinge("gate", tr, DoorConfig{Axis: AxisY, OpenAngle: 1, Duration: 0})
	a.Door.Open()
	a.Update(0)
	assertVec3(t, "rotation", tr.Rotation(), [3]float64{0.1, 1, 0.3})
}
