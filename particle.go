package reef

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// particle holds per-slot simulation state. Unexported; managed by ParticlePool.
type particle struct {
	pos         mgl64.Vec3
	speed       float64 // vertical units per second
	wobbleSpeed float64
	wobblePhase float64
	size        float64
}

// Particle is a read-only snapshot of one pool slot.
type Particle struct {
	Position    mgl64.Vec3
	Speed       float64
	WobbleSpeed float64
	WobblePhase float64
	Size        float64
}

// ParticleConfig controls how particles are spawned and recycled.
type ParticleConfig struct {
	// Capacity is the fixed pool size.
	Capacity int `yaml:"capacity"`
	// SpawnX and SpawnZ are the horizontal spawn ranges.
	SpawnX Range `yaml:"spawnX"`
	SpawnZ Range `yaml:"spawnZ"`
	// InitialY is the vertical range used only for the first fill, so the
	// pool does not start as a single sheet at LowerY.
	InitialY Range `yaml:"initialY"`
	// LowerY is where recycled particles respawn; UpperY is the recycle bound.
	LowerY float64 `yaml:"lowerY"`
	UpperY float64 `yaml:"upperY"`
	// Speed is the range of rise speeds in units per second.
	Speed Range `yaml:"speed"`
	// WobbleSpeed and WobblePhase parameterize the horizontal sinusoid.
	WobbleSpeed Range `yaml:"wobbleSpeed"`
	WobblePhase Range `yaml:"wobblePhase"`
	// WobbleAmplitude is the X offset applied per update at the sinusoid peak.
	WobbleAmplitude float64 `yaml:"wobbleAmplitude"`
	// Size is the range of render sizes.
	Size Range `yaml:"size"`
	// Rand is the random source. Nil uses the global source.
	Rand *rand.Rand `yaml:"-"`
}

// DefaultParticleConfig returns the ambient bubble column settings: 100
// particles rising from y=-10 to y=10 across a 30x30 floor.
func DefaultParticleConfig() ParticleConfig {
	return ParticleConfig{
		Capacity:        100,
		SpawnX:          Range{-15, 15},
		SpawnZ:          Range{-15, 15},
		InitialY:        Range{-10, 10},
		LowerY:          -10,
		UpperY:          10,
		Speed:           Range{0.5, 2},
		WobbleSpeed:     Range{0, 2},
		WobblePhase:     Range{0, 2 * math.Pi},
		WobbleAmplitude: 0.02,
		Size:            Range{5, 15},
	}
}

// ParticlePool is a fixed-capacity set of recyclable point particles. It is
// advanced on wall-clock delta, so it keeps moving while the scene clock is
// paused or rewinding.
type ParticlePool struct {
	Name string

	config    ParticleConfig
	particles []particle
	elapsed   float64 // accumulated wall seconds, drives the wobble
	recycled  int

	positions []float32
	sizes     []float32
}

// NewParticlePool creates a pool and fills every slot.
func NewParticlePool(name string, cfg ParticleConfig) *ParticlePool {
	n := cfg.Capacity
	if n <= 0 {
		n = 100
	}
	p := &ParticlePool{
		Name:      name,
		config:    cfg,
		particles: make([]particle, n),
		positions: make([]float32, n*3),
		sizes:     make([]float32, n),
	}
	for i := range p.particles {
		p.spawn(i, true)
	}
	return p
}

// Config returns a pointer to the pool's config for live tuning. Capacity
// changes have no effect after construction.
func (p *ParticlePool) Config() *ParticleConfig { return &p.config }

// Len returns the pool capacity.
func (p *ParticlePool) Len() int { return len(p.particles) }

// Recycled returns how many particles have been recycled since creation.
func (p *ParticlePool) Recycled() int { return p.recycled }

// Particle returns a snapshot of slot i.
func (p *ParticlePool) Particle(i int) Particle {
	q := &p.particles[i]
	return Particle{
		Position:    q.pos,
		Speed:       q.speed,
		WobbleSpeed: q.wobbleSpeed,
		WobblePhase: q.wobblePhase,
		Size:        q.size,
	}
}

// Positions returns the position buffer, three floats per slot. The slice is
// owned by the pool and rewritten on every Update.
func (p *ParticlePool) Positions() []float32 { return p.positions }

// Sizes returns the size buffer, one float per slot, parallel to Positions.
func (p *ParticlePool) Sizes() []float32 { return p.sizes }

// Update advances every particle by dt wall seconds. Particles rise by
// speed*dt, wobble in X, and are recycled once above UpperY.
func (p *ParticlePool) Update(dt float64) {
	p.elapsed += dt
	amp := p.config.WobbleAmplitude
	for i := range p.particles {
		q := &p.particles[i]
		q.pos[1] += q.speed * dt
		q.pos[0] += math.Sin(p.elapsed*q.wobbleSpeed+q.wobblePhase) * amp
		if q.pos[1] > p.config.UpperY {
			p.spawn(i, false)
			p.recycled++
		}
		p.sync(i)
	}
}

// Relocate overwrites slot i's position and speed without re-randomizing the
// rest of its parameters. This is not a recycle.
func (p *ParticlePool) Relocate(i int, pos mgl64.Vec3, speed float64) {
	if i < 0 || i >= len(p.particles) {
		return
	}
	q := &p.particles[i]
	q.pos = pos
	q.speed = speed
	p.sync(i)
}

// Burst relocates n randomly chosen slots to center plus a random offset
// within ±spread/2 on each axis, each with a speed drawn from speed.
func (p *ParticlePool) Burst(n int, center, spread mgl64.Vec3, speed Range) {
	r := p.config.Rand
	for range n {
		i := p.intN(len(p.particles))
		var off mgl64.Vec3
		for k := range 3 {
			off[k] = Range{-spread[k] / 2, spread[k] / 2}.Random(r)
		}
		p.Relocate(i, center.Add(off), speed.Random(r))
	}
}

func (p *ParticlePool) intN(n int) int {
	if p.config.Rand != nil {
		return p.config.Rand.IntN(n)
	}
	return rand.IntN(n)
}

// spawn initializes slot i. The first fill scatters particles over InitialY;
// later recycles start at LowerY.
func (p *ParticlePool) spawn(i int, initial bool) {
	cfg := &p.config
	r := cfg.Rand
	q := &p.particles[i]

	y := cfg.LowerY
	if initial {
		y = cfg.InitialY.Random(r)
	}
	q.pos = mgl64.Vec3{cfg.SpawnX.Random(r), y, cfg.SpawnZ.Random(r)}
	q.speed = cfg.Speed.Random(r)
	q.wobbleSpeed = cfg.WobbleSpeed.Random(r)
	q.wobblePhase = cfg.WobblePhase.Random(r)
	q.size = cfg.Size.Random(r)
	p.sync(i)
}

// sync copies slot i into the render buffers.
func (p *ParticlePool) sync(i int) {
	q := &p.particles[i]
	p.positions[i*3] = float32(q.pos[0])
	p.positions[i*3+1] = float32(q.pos[1])
	p.positions[i*3+2] = float32(q.pos[2])
	p.sizes[i] = float32(q.size)
}
