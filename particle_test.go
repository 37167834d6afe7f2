package reef

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func seededConfig() ParticleConfig {
	cfg := DefaultParticleConfig()
	cfg.Rand = rand.New(rand.NewPCG(1, 2))
	return cfg
}

// singleConfig returns a deterministic one-particle pool config.
func singleConfig() ParticleConfig {
	return ParticleConfig{
		Capacity:    1,
		SpawnX:      Range{0, 0},
		SpawnZ:      Range{0, 0},
		InitialY:    Range{9.5, 9.5},
		LowerY:      -10,
		UpperY:      10,
		Speed:       Range{1, 1},
		WobbleSpeed: Range{0, 0},
		WobblePhase: Range{0, 0},
		Size:        Range{7, 7},
	}
}

func TestParticlePoolCapacity(t *testing.T) {
	p := NewParticlePool("bubbles", seededConfig())
	if p.Len() != 100 {
		t.Errorf("Len = %d, want 100", p.Len())
	}
	if len(p.Positions()) != 300 || len(p.Sizes()) != 100 {
		t.Errorf("buffers = %d/%d, want 300/100", len(p.Positions()), len(p.Sizes()))
	}

	cfg := seededConfig()
	cfg.Capacity = 0
	if n := NewParticlePool("d", cfg).Len(); n != 100 {
		t.Errorf("default capacity = %d, want 100", n)
	}
}

func TestParticlePoolInitialFill(t *testing.T) {
	cfg := seededConfig()
	p := NewParticlePool("bubbles", cfg)
	spreadY := false
	for i := range p.Len() {
		q := p.Particle(i)
		if !cfg.SpawnX.Contains(q.Position[0]) || !cfg.SpawnZ.Contains(q.Position[2]) {
			t.Fatalf("particle %d spawned outside the floor: %v", i, q.Position)
		}
		if !cfg.InitialY.Contains(q.Position[1]) {
			t.Fatalf("particle %d y = %v outside initial range", i, q.Position[1])
		}
		if q.Position[1] != cfg.LowerY {
			spreadY = true
		}
		if !cfg.Speed.Contains(q.Speed) || !cfg.Size.Contains(q.Size) {
			t.Fatalf("particle %d speed/size out of range: %+v", i, q)
		}
	}
	if !spreadY {
		t.Error("initial fill should scatter particles vertically")
	}
}

func TestParticlePoolStaysBelowUpperBound(t *testing.T) {
	cfg := seededConfig()
	p := NewParticlePool("bubbles", cfg)
	dt := 1.0 / 60
	for range 2000 {
		p.Update(dt)
		for i := range p.Len() {
			if y := p.Particle(i).Position[1]; y > cfg.UpperY+cfg.Speed.Max*dt {
				t.Fatalf("particle %d at y=%v exceeds bound", i, y)
			}
		}
	}
	if p.Recycled() == 0 {
		t.Error("nothing recycled after 2000 frames")
	}
}

func TestParticleRecycle(t *testing.T) {
	p := NewParticlePool("one", singleConfig())
	p.Update(0.25)
	assertNear(t, "y", p.Particle(0).Position[1], 9.75)
	if p.Recycled() != 0 {
		t.Fatal("recycled too early")
	}
	p.Update(0.5)
	assertNear(t, "respawn y", p.Particle(0).Position[1], -10)
	if p.Recycled() != 1 {
		t.Errorf("Recycled = %d, want 1", p.Recycled())
	}
}

func TestParticleWobble(t *testing.T) {
	cfg := singleConfig()
	cfg.WobblePhase = Range{math.Pi / 2, math.Pi / 2}
	cfg.WobbleAmplitude = 0.02
	p := NewParticlePool("one", cfg)
	p.Update(0.01)
	p.Update(0.01)
	// sin(pi/2) = 1 with zero wobble speed: a constant drift per update.
	assertNear(t, "x", p.Particle(0).Position[0], 0.04)
}

func TestParticleRelocateIsNotRecycle(t *testing.T) {
	p := NewParticlePool("one", singleConfig())
	p.Relocate(0, mgl64.Vec3{1, -4, 5}, 3)
	q := p.Particle(0)
	assertVec3(t, "position", q.Position, mgl64.Vec3{1, -4, 5})
	assertNear(t, "speed", q.Speed, 3)
	assertNear(t, "size kept", q.Size, 7)
	if p.Recycled() != 0 {
		t.Error("Relocate counted as a recycle")
	}
	p.Relocate(5, mgl64.Vec3{}, 1) // out of range is ignored
	p.Relocate(-1, mgl64.Vec3{}, 1)
}

func TestParticleBurst(t *testing.T) {
	cfg := seededConfig()
	cfg.Capacity = 10
	cfg.SpawnX = Range{100, 100}
	p := NewParticlePool("bubbles", cfg)

	center := mgl64.Vec3{0, -4, 5}
	spread := mgl64.Vec3{2, 1, 2}
	p.Burst(20, center, spread, Range{2, 4})

	moved := 0
	for i := range p.Len() {
		q := p.Particle(i)
		if q.Position[0] == 100 {
			continue
		}
		moved++
		for k := range 3 {
			if math.Abs(q.Position[k]-center[k]) > spread[k]/2+epsilon {
				t.Errorf("particle %d at %v outside burst box", i, q.Position)
			}
		}
		if q.Speed < 2 || q.Speed > 4 {
			t.Errorf("particle %d speed %v outside burst range", i, q.Speed)
		}
	}
	if moved == 0 {
		t.Error("burst moved nothing")
	}
}

func TestParticleBuffersMatchState(t *testing.T) {
	p := NewParticlePool("bubbles", seededConfig())
	p.Update(0.5)
	pos, sizes := p.Positions(), p.Sizes()
	for i := range p.Len() {
		q := p.Particle(i)
		for k := range 3 {
			if pos[i*3+k] != float32(q.Position[k]) {
				t.Fatalf("positions[%d] = %v, want %v", i*3+k, pos[i*3+k], q.Position[k])
			}
		}
		if sizes[i] != float32(q.Size) {
			t.Fatalf("sizes[%d] = %v, want %v", i, sizes[i], q.Size)
		}
	}
}

func TestRangeRandom(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	rg := Range{-2, 5}
	for range 1000 {
		if v := rg.Random(r); !rg.Contains(v) {
			t.Fatalf("Random() = %v outside %v", v, rg)
		}
	}
	assertNear(t, "degenerate", Range{3, 3}.Random(nil), 3)
}
