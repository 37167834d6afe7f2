package reef

import (
	"fmt"
	"slices"
	"time"
)

// EventSink is the interface for optional ECS integration.
// When set on a Scene, every fired story event is forwarded to it.
type EventSink interface {
	EmitStoryEvent(event StoryEvent)
}

// StoryEvent describes one fired sequencer event.
type StoryEvent struct {
	Sequencer string
	Index     int
	Name      string
	// Time is the scene's virtual time when the event fired.
	Time float64
}

// Scene is the explicit scene context owned by the driver. It owns the clock
// and the registries of transforms, animations, particle pools and
// sequencers, and runs one frame in the required order:
//
//	Clock.Update -> animations (registration order) -> particle pools (wall dt) -> sequencers (virtual time)
//
// Animation additions and removals are queued and take effect at the start of
// the next Update, never mid-frame.
type Scene struct {
	clock *Clock
	now   func() time.Time

	transforms     []*Transform
	transformIndex map[string]*Transform

	animations  []*Animation
	pendingAdd  []*Animation
	pendingDel  []*Animation
	pendingSwap []animationSwap
	nextID      uint32

	pools      []*ParticlePool
	sequencers []*namedSequencer

	sink        EventSink
	script      *Script
	screenshots []string
	debug       bool

	lastFrame time.Time
	started   bool
	frame     uint64
}

type animationSwap struct {
	old, next *Animation
}

type namedSequencer struct {
	name string
	seq  *EventSequencer
}

// NewScene creates an empty scene driven by time.Now.
func NewScene() *Scene {
	return NewSceneWithSource(time.Now)
}

// NewSceneWithSource creates an empty scene whose clock and particle delta are
// both driven by now.
func NewSceneWithSource(now func() time.Time) *Scene {
	return &Scene{
		clock:          NewClockWithSource(now),
		now:            now,
		transformIndex: make(map[string]*Transform),
	}
}

// Clock returns the scene clock.
func (s *Scene) Clock() *Clock { return s.clock }

// Time returns the scene's virtual time.
func (s *Scene) Time() float64 { return s.clock.Time() }

// Frame returns the number of completed Update calls.
func (s *Scene) Frame() uint64 { return s.frame }

// --- Control surface ---

// Pause freezes virtual time. Particles keep moving.
func (s *Scene) Pause() { s.clock.Pause() }

// Resume unfreezes virtual time.
func (s *Scene) Resume() { s.clock.Resume() }

// TogglePause pauses a running scene or resumes a paused one.
func (s *Scene) TogglePause() {
	if s.clock.IsPaused() {
		s.clock.Resume()
		return
	}
	s.clock.Pause()
}

// SetTimeScale sets the signed playback rate; negative rewinds.
func (s *Scene) SetTimeScale(scale float64) { s.clock.SetTimeScale(scale) }

// Reset rewinds the clock to zero, restarts every sequencer from its Origin,
// including those run as sequence animations, and returns every locomotion to
// its start.
func (s *Scene) Reset() {
	s.clock.Reset()
	for _, ns := range s.sequencers {
		restartSequencer(ns.seq)
	}
	for _, a := range s.animations {
		switch a.Kind {
		case AnimationSequence:
			restartSequencer(a.Sequence)
		case AnimationLocomotion:
			a.Locomotion.reset()
		}
	}
}

func restartSequencer(seq *EventSequencer) {
	seq.Reset()
	seq.Start(seq.Origin)
}

// --- Registries ---

// AddTransform registers t under its name. A later transform with the same
// name replaces the earlier one in name lookups.
func (s *Scene) AddTransform(t *Transform) *Transform {
	s.transforms = append(s.transforms, t)
	if t.Name != "" {
		s.transformIndex[t.Name] = t
	}
	if s.debug {
		debugCheckTransformDepth(t)
	}
	return t
}

// NewTransform creates and registers a transform.
func (s *Scene) NewTransform(name string) *Transform {
	return s.AddTransform(NewTransform(name))
}

// Transform looks up a registered transform by name.
func (s *Scene) Transform(name string) *Transform {
	return s.transformIndex[name]
}

// Transforms returns the registered transforms. The returned slice MUST NOT be mutated.
func (s *Scene) Transforms() []*Transform { return s.transforms }

// AddAnimation queues a for registration at the next frame boundary. Returns
// an error wrapping ErrTransformOwned if a's target is already driven by an
// animation that is not queued for removal.
func (s *Scene) AddAnimation(a *Animation) error {
	if a == nil {
		return fmt.Errorf("add animation: nil animation")
	}
	if s.isRegistered(a) || s.isPendingAdd(a) {
		return nil
	}
	if err := s.checkOwner(a); err != nil {
		return fmt.Errorf("add animation: %w", err)
	}
	s.nextID++
	a.ID = s.nextID
	s.pendingAdd = append(s.pendingAdd, a)
	return nil
}

// RemoveAnimation queues a for removal at the next frame boundary. Removing an
// animation that is not registered is a no-op.
func (s *Scene) RemoveAnimation(a *Animation) {
	if i := slices.Index(s.pendingAdd, a); i >= 0 {
		s.pendingAdd = slices.Delete(s.pendingAdd, i, i+1)
		return
	}
	if !s.isRegistered(a) || s.isPendingRemoval(a) {
		return
	}
	s.pendingDel = append(s.pendingDel, a)
}

// ReplaceAnimation swaps old for next at the next frame boundary. next takes
// old's slot in the update order and ownership of its target. If old is not
// registered this behaves like AddAnimation(next).
func (s *Scene) ReplaceAnimation(old, next *Animation) error {
	if !s.isRegistered(old) || s.isPendingRemoval(old) {
		return s.AddAnimation(next)
	}
	if next == nil {
		return fmt.Errorf("replace animation %q: nil animation", old.Name)
	}
	s.pendingSwap = append(s.pendingSwap, animationSwap{old: old, next: next})
	if err := s.checkOwner(next); err != nil {
		s.pendingSwap = s.pendingSwap[:len(s.pendingSwap)-1]
		return fmt.Errorf("replace animation %q: %w", old.Name, err)
	}
	s.nextID++
	next.ID = s.nextID
	return nil
}

// checkOwner reports a conflict if a's target is, or is about to be, driven
// by another animation.
func (s *Scene) checkOwner(a *Animation) error {
	t := a.target
	if t == nil {
		return nil
	}
	if t.owner != nil && t.owner != a && !s.isPendingRemoval(t.owner) {
		return t.claim(a)
	}
	for _, p := range s.pendingAdd {
		if p.target == t && p != a {
			return fmt.Errorf("claim %q for %q (queued for %q): %w", t.Name, a.Name, p.Name, ErrTransformOwned)
		}
	}
	for _, sw := range s.pendingSwap {
		if sw.next.target == t && sw.next != a {
			return fmt.Errorf("claim %q for %q (queued for %q): %w", t.Name, a.Name, sw.next.Name, ErrTransformOwned)
		}
	}
	return nil
}

func (s *Scene) isPendingAdd(a *Animation) bool {
	if slices.Contains(s.pendingAdd, a) {
		return true
	}
	return slices.ContainsFunc(s.pendingSwap, func(sw animationSwap) bool { return sw.next == a })
}

func (s *Scene) isPendingRemoval(a *Animation) bool {
	if slices.Contains(s.pendingDel, a) {
		return true
	}
	return slices.ContainsFunc(s.pendingSwap, func(sw animationSwap) bool { return sw.old == a })
}

// Animations returns the registered animations in update order. The returned
// slice MUST NOT be mutated.
func (s *Scene) Animations() []*Animation { return s.animations }

// Animation looks up a registered animation by name.
func (s *Scene) Animation(name string) *Animation {
	for _, a := range s.animations {
		if a.Name == name {
			return a
		}
	}
	return nil
}

func (s *Scene) isRegistered(a *Animation) bool {
	return slices.Contains(s.animations, a)
}

// AddParticlePool registers a particle pool.
func (s *Scene) AddParticlePool(p *ParticlePool) *ParticlePool {
	s.pools = append(s.pools, p)
	return p
}

// ParticlePools returns the registered pools. The returned slice MUST NOT be mutated.
func (s *Scene) ParticlePools() []*ParticlePool { return s.pools }

// ParticlePool looks up a registered pool by name.
func (s *Scene) ParticlePool(name string) *ParticlePool {
	for _, p := range s.pools {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// AddSequencer registers seq under name. It is advanced after the particle
// pass and its fired events are forwarded to the EventSink.
func (s *Scene) AddSequencer(name string, seq *EventSequencer) *EventSequencer {
	ns := &namedSequencer{name: name, seq: seq}
	prev := seq.OnFire
	seq.OnFire = func(index int, e Event) {
		if prev != nil {
			prev(index, e)
		}
		s.emitStory(ns.name, index, e)
	}
	s.sequencers = append(s.sequencers, ns)
	return seq
}

// Sequencer looks up a registered sequencer by name.
func (s *Scene) Sequencer(name string) *EventSequencer {
	for _, ns := range s.sequencers {
		if ns.name == name {
			return ns.seq
		}
	}
	return nil
}

// SetEventSink sets the optional ECS bridge.
func (s *Scene) SetEventSink(sink EventSink) { s.sink = sink }

// SetDebugMode enables or disables debug mode. When enabled, per-frame timing
// stats and story events are logged to stderr and deep transform chains
// produce warnings.
func (s *Scene) SetDebugMode(enabled bool) { s.debug = enabled }

func (s *Scene) emitStory(name string, index int, e Event) {
	ev := StoryEvent{Sequencer: name, Index: index, Name: e.Name, Time: s.clock.Time()}
	if s.debug {
		debugLogStory(ev)
	}
	if s.sink != nil {
		s.sink.EmitStoryEvent(ev)
	}
}

// --- Frame ---

// Update runs one frame. See the Scene doc comment for the order.
func (s *Scene) Update() {
	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.script != nil {
		s.script.step(s)
	}
	s.applyPending()

	now := s.now()
	var wallDt float64
	if s.started {
		wallDt = now.Sub(s.lastFrame).Seconds()
	}
	s.lastFrame = now
	s.started = true

	s.clock.Update()
	t := s.clock.Time()

	for _, a := range s.animations {
		if a.Active {
			a.Update(t)
		}
	}
	if s.debug {
		stats.animationTime = time.Since(t0)
		stats.animationCount = len(s.animations)
		t0 = time.Now()
	}

	for _, p := range s.pools {
		p.Update(wallDt)
	}
	if s.debug {
		stats.particleTime = time.Since(t0)
		t0 = time.Now()
	}

	for _, ns := range s.sequencers {
		ns.seq.Update(t)
	}
	if s.debug {
		stats.sequenceTime = time.Since(t0)
		stats.virtualTime = t
		stats.wallDt = wallDt
		s.debugLog(stats)
	}
	s.frame++
}

// applyPending commits queued swaps, then removals, then additions.
func (s *Scene) applyPending() {
	for _, sw := range s.pendingSwap {
		i := slices.Index(s.animations, sw.old)
		if i < 0 {
			continue
		}
		if sw.old.target != nil {
			sw.old.target.release(sw.old)
		}
		if sw.next.target != nil {
			if err := sw.next.target.claim(sw.next); err != nil {
				debugWarn("%v", err)
				s.animations = slices.Delete(s.animations, i, i+1)
				continue
			}
		}
		s.animations[i] = sw.next
	}
	s.pendingSwap = s.pendingSwap[:0]

	for _, a := range s.pendingDel {
		if i := slices.Index(s.animations, a); i >= 0 {
			s.animations = slices.Delete(s.animations, i, i+1)
		}
		if a.target != nil {
			a.target.release(a)
		}
	}
	s.pendingDel = s.pendingDel[:0]

	for _, a := range s.pendingAdd {
		if a.target != nil {
			if err := a.target.claim(a); err != nil {
				debugWarn("%v", err)
				continue
			}
		}
		s.animations = append(s.animations, a)
	}
	s.pendingAdd = s.pendingAdd[:0]
}
