package reef

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// SceneConfig is a YAML scene description: transforms and their hierarchy,
// the animations driving them, ambient particle pools, and story sequences.
//
// Example:
//
//	transforms:
//	  - name: chest
//	    position: [0, -4.8, 5]
//	  - name: lid
//	    parent: chest
//	animations:
//	  - name: lidHinge
//	    kind: door
//	    target: lid
//	    door: {openAngle: 0.26, duration: 1.5}
//	story:
//	  - name: main
//	    events:
//	      - {name: glow, at: 10, action: chestGlow}
type SceneConfig struct {
	// TimeScale is the initial clock rate. Zero means 1.
	TimeScale  float64           `yaml:"timeScale"`
	Transforms []TransformConfig `yaml:"transforms"`
	Animations []AnimationConfig `yaml:"animations"`
	Particles  []PoolConfig      `yaml:"particles"`
	Story      []StoryConfig     `yaml:"story"`
}

// TransformConfig describes one transform.
type TransformConfig struct {
	Name     string    `yaml:"name"`
	Parent   string    `yaml:"parent"`
	Position []float64 `yaml:"position"`
	Rotation []float64 `yaml:"rotation"`
	Scale    []float64 `yaml:"scale"`
}

// AnimationConfig describes one animation. Kind selects which of the
// parameter groups is read.
type AnimationConfig struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Target string `yaml:"target"`
	// Active defaults to true.
	Active *bool `yaml:"active"`

	// Oscillators.
	Axis      string    `yaml:"axis"`
	Speed     float64   `yaml:"speed"`
	Direction []float64 `yaml:"direction"`
	Amplitude float64   `yaml:"amplitude"`
	Frequency float64   `yaml:"frequency"`
	Min       float64   `yaml:"min"`
	Max       float64   `yaml:"max"`
	Phase     float64   `yaml:"phase"`
	Channel   string    `yaml:"channel"`

	// Door, locomotion, sway.
	Door        *DoorConfig       `yaml:"door"`
	Locomotion  *LocomotionConfig `yaml:"locomotion"`
	PivotOffset []float64         `yaml:"pivotOffset"`
	Sway        *SwayConfig       `yaml:"sway"`

	// Orbit, follow, avoid and synchronize read this transform without
	// driving it.
	Leader      string  `yaml:"leader"`
	Radius      float64 `yaml:"radius"`
	MinDistance float64 `yaml:"minDistance"`
	RepelForce  float64 `yaml:"repelForce"`
	SyncFactor  float64 `yaml:"syncFactor"`

	// Sequence names a story entry to run inside the animation pass.
	Sequence string `yaml:"sequence"`
}

// PoolConfig is a named ParticleConfig.
type PoolConfig struct {
	Name           string `yaml:"name"`
	ParticleConfig `yaml:",inline"`
}

// StoryConfig is a named list of story events.
type StoryConfig struct {
	Name string `yaml:"name"`
	// Start is the virtual time the sequence starts at.
	Start  float64       `yaml:"start"`
	Events []EventConfig `yaml:"events"`
}

// EventConfig is a story event whose action and optional predicate are looked
// up by name in Bindings at build time.
type EventConfig struct {
	Name   string  `yaml:"name"`
	At     float64 `yaml:"at"`
	When   string  `yaml:"when"`
	Action string  `yaml:"action"`
}

// Bindings resolves the action and predicate names used by story events.
type Bindings struct {
	Actions    map[string]func(s *Scene)
	Predicates map[string]func(s *Scene) bool
}

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("reef: invalid scene config")

// LoadSceneConfig reads and validates a YAML scene description from path.
func LoadSceneConfig(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config: %w", err)
	}
	return ParseSceneConfig(data)
}

// ParseSceneConfig parses and validates a YAML scene description. Locomotion,
// door and particle sections start from their defaults, so omitted fields
// keep stock values.
func ParseSceneConfig(data []byte) (*SceneConfig, error) {
	var raw struct {
		TimeScale  float64           `yaml:"timeScale"`
		Transforms []TransformConfig `yaml:"transforms"`
		Animations []yaml.Node       `yaml:"animations"`
		Particles  []yaml.Node       `yaml:"particles"`
		Story      []StoryConfig     `yaml:"story"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse scene config: %w", err)
	}

	cfg := &SceneConfig{
		TimeScale:  raw.TimeScale,
		Transforms: raw.Transforms,
		Story:      raw.Story,
	}
	for i := range raw.Animations {
		ac, err := decodeAnimation(&raw.Animations[i])
		if err != nil {
			return nil, fmt.Errorf("failed to parse animation %d: %w", i, err)
		}
		cfg.Animations = append(cfg.Animations, ac)
	}
	for i := range raw.Particles {
		pc := PoolConfig{ParticleConfig: DefaultParticleConfig()}
		if err := raw.Particles[i].Decode(&pc); err != nil {
			return nil, fmt.Errorf("failed to parse particle pool %d: %w", i, err)
		}
		cfg.Particles = append(cfg.Particles, pc)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeAnimation decodes one animation entry with kind-specific defaults
// pre-filled.
func decodeAnimation(n *yaml.Node) (AnimationConfig, error) {
	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := n.Decode(&head); err != nil {
		return AnimationConfig{}, err
	}
	var ac AnimationConfig
	switch head.Kind {
	case AnimationDoorHinge.String():
		d := DefaultDoorConfig()
		ac.Door = &d
	case AnimationLocomotion.String():
		l := DefaultLocomotionConfig()
		ac.Locomotion = &l
	}
	if err := n.Decode(&ac); err != nil {
		return AnimationConfig{}, err
	}
	return ac, nil
}

// Validate checks names, kinds, references and ranges.
func (c *SceneConfig) Validate() error {
	transforms := make(map[string]bool, len(c.Transforms))
	for _, t := range c.Transforms {
		if t.Name == "" {
			return fmt.Errorf("%w: transform without a name", ErrInvalidConfig)
		}
		if transforms[t.Name] {
			return fmt.Errorf("%w: duplicate transform %q", ErrInvalidConfig, t.Name)
		}
		transforms[t.Name] = true
		for field, v := range map[string][]float64{"position": t.Position, "rotation": t.Rotation, "scale": t.Scale} {
			if v != nil && len(v) != 3 {
				return fmt.Errorf("%w: transform %q %s has %d components, want 3", ErrInvalidConfig, t.Name, field, len(v))
			}
		}
	}
	for _, t := range c.Transforms {
		if t.Parent != "" && !transforms[t.Parent] {
			return fmt.Errorf("%w: transform %q has unknown parent %q", ErrInvalidConfig, t.Name, t.Parent)
		}
	}

	stories := make(map[string]bool, len(c.Story))
	for _, st := range c.Story {
		if stories[st.Name] {
			return fmt.Errorf("%w: duplicate story %q", ErrInvalidConfig, st.Name)
		}
		stories[st.Name] = true
	}

	animations := make(map[string]bool, len(c.Animations))
	for _, a := range c.Animations {
		if err := a.validate(transforms, stories); err != nil {
			return err
		}
		if a.Name != "" && animations[a.Name] {
			return fmt.Errorf("%w: duplicate animation %q", ErrInvalidConfig, a.Name)
		}
		animations[a.Name] = true
	}

	for _, p := range c.Particles {
		if p.Capacity < 0 {
			return fmt.Errorf("%w: particle pool %q capacity %d is negative", ErrInvalidConfig, p.Name, p.Capacity)
		}
		if p.LowerY > p.UpperY {
			return fmt.Errorf("%w: particle pool %q lowerY(%.2f) > upperY(%.2f)", ErrInvalidConfig, p.Name, p.LowerY, p.UpperY)
		}
		for field, r := range map[string]Range{
			"spawnX": p.SpawnX, "spawnZ": p.SpawnZ, "initialY": p.InitialY, "speed": p.Speed,
			"wobbleSpeed": p.WobbleSpeed, "wobblePhase": p.WobblePhase, "size": p.Size,
		} {
			if r.Min > r.Max {
				return fmt.Errorf("%w: particle pool %q %s range invalid: min(%.2f) > max(%.2f)", ErrInvalidConfig, p.Name, field, r.Min, r.Max)
			}
		}
	}
	return nil
}

func (a *AnimationConfig) validate(transforms, stories map[string]bool) error {
	kind, ok := ParseAnimationKind(a.Kind)
	if !ok {
		return fmt.Errorf("%w: animation %q has unknown kind %q", ErrInvalidConfig, a.Name, a.Kind)
	}
	if kind == AnimationSequence {
		if !stories[a.Sequence] {
			return fmt.Errorf("%w: animation %q references unknown story %q", ErrInvalidConfig, a.Name, a.Sequence)
		}
		return nil
	}
	if !transforms[a.Target] {
		return fmt.Errorf("%w: animation %q targets unknown transform %q", ErrInvalidConfig, a.Name, a.Target)
	}
	if a.Axis != "" {
		if _, ok := ParseAxis(a.Axis); !ok {
			return fmt.Errorf("%w: animation %q has unknown axis %q", ErrInvalidConfig, a.Name, a.Axis)
		}
	}
	switch kind {
	case AnimationPulse:
		if _, ok := ParsePulseChannel(a.Channel); !ok {
			return fmt.Errorf("%w: animation %q has unknown channel %q", ErrInvalidConfig, a.Name, a.Channel)
		}
	case AnimationTranslation:
		if len(a.Direction) != 3 {
			return fmt.Errorf("%w: animation %q direction needs 3 components", ErrInvalidConfig, a.Name)
		}
	case AnimationLocomotion:
		if l := a.Locomotion; l != nil && l.ForwardLimit < l.BackwardLimit {
			return fmt.Errorf("%w: animation %q forwardLimit(%.2f) < backwardLimit(%.2f)",
				ErrInvalidConfig, a.Name, l.ForwardLimit, l.BackwardLimit)
		}
	case AnimationOrbit, AnimationFollow, AnimationAvoid, AnimationSync:
		if !transforms[a.Leader] {
			return fmt.Errorf("%w: animation %q follows unknown transform %q", ErrInvalidConfig, a.Name, a.Leader)
		}
	}
	if a.PivotOffset != nil && len(a.PivotOffset) != 3 {
		return fmt.Errorf("%w: animation %q pivotOffset needs 3 components", ErrInvalidConfig, a.Name)
	}
	return nil
}

// Build creates a Scene from the config. Story sequencers are started at their
// configured start time; actions and predicates are resolved through b, and a
// missing action name is an error.
func (c *SceneConfig) Build(b Bindings) (*Scene, error) {
	s := NewScene()
	if err := c.Populate(s, b); err != nil {
		return nil, err
	}
	return s, nil
}

// Populate adds the config's transforms, animations, pools and sequencers to
// an existing scene.
func (c *SceneConfig) Populate(s *Scene, b Bindings) error {
	if c.TimeScale != 0 {
		s.SetTimeScale(c.TimeScale)
	}

	for _, tc := range c.Transforms {
		t := s.NewTransform(tc.Name)
		if tc.Position != nil {
			t.SetPosition(tc.Position[0], tc.Position[1], tc.Position[2])
		}
		if tc.Rotation != nil {
			t.SetRotation(tc.Rotation[0], tc.Rotation[1], tc.Rotation[2])
		}
		if tc.Scale != nil {
			t.SetScale(tc.Scale[0], tc.Scale[1], tc.Scale[2])
		}
	}
	for _, tc := range c.Transforms {
		if tc.Parent == "" {
			continue
		}
		if err := s.Transform(tc.Name).SetParent(s.Transform(tc.Parent)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	stories := make(map[string]*EventSequencer, len(c.Story))
	for _, st := range c.Story {
		seq, err := st.build(s, b)
		if err != nil {
			return err
		}
		stories[st.Name] = seq
	}

	inlined := make(map[string]bool)
	for _, ac := range c.Animations {
		a, err := ac.build(s, stories)
		if err != nil {
			return err
		}
		if a.Kind == AnimationSequence {
			inlined[ac.Sequence] = true
		}
		if err := s.AddAnimation(a); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	for _, st := range c.Story {
		if !inlined[st.Name] {
			s.AddSequencer(st.Name, stories[st.Name])
		}
	}
	for _, pc := range c.Particles {
		s.AddParticlePool(NewParticlePool(pc.Name, pc.ParticleConfig))
	}
	return nil
}

func (st *StoryConfig) build(s *Scene, b Bindings) (*EventSequencer, error) {
	seq := NewEventSequencer()
	for _, ec := range st.Events {
		e := Event{Name: ec.Name, At: ec.At}
		if ec.Action != "" {
			fn, ok := b.Actions[ec.Action]
			if !ok {
				return nil, fmt.Errorf("%w: story %q event %q has unknown action %q", ErrInvalidConfig, st.Name, ec.Name, ec.Action)
			}
			e.Action = func() { fn(s) }
		}
		if ec.When != "" {
			pred, ok := b.Predicates[ec.When]
			if !ok {
				return nil, fmt.Errorf("%w: story %q event %q has unknown predicate %q", ErrInvalidConfig, st.Name, ec.Name, ec.When)
			}
			e.When = func() bool { return pred(s) }
		}
		seq.Add(e)
	}
	seq.Origin = st.Start
	seq.Start(st.Start)
	return seq, nil
}

func (ac *AnimationConfig) build(s *Scene, stories map[string]*EventSequencer) (*Animation, error) {
	kind, _ := ParseAnimationKind(ac.Kind)
	target := s.Transform(ac.Target)
	axis, _ := ParseAxis(ac.Axis)

	var a *Animation
	switch kind {
	case AnimationRotation:
		a = NewRotation(ac.Name, target, axis, ac.Speed)
	case AnimationTranslation:
		a = NewTranslation(ac.Name, target, vec3Or(ac.Direction, mgl64.Vec3{}), ac.Amplitude, ac.Frequency)
	case AnimationScale:
		a = NewScaleOscillator(ac.Name, target, ac.Min, ac.Max, ac.Frequency)
	case AnimationPulse:
		ch, _ := ParsePulseChannel(ac.Channel)
		a = NewPulse(ac.Name, target, ch, ac.Min, ac.Max, ac.Frequency, ac.Phase)
	case AnimationDoorHinge:
		d := DefaultDoorConfig()
		if ac.Door != nil {
			d = *ac.Door
		}
		d.Axis = axis
		a = NewDoorHinge(ac.Name, target, d)
	case AnimationLocomotion:
		l := DefaultLocomotionConfig()
		if ac.Locomotion != nil {
			l = *ac.Locomotion
		}
		l.PivotOffset = vec3Or(ac.PivotOffset, mgl64.Vec3{})
		a = NewLocomotion(ac.Name, target, l)
	case AnimationSequence:
		a = NewSequenceAnimation(ac.Name, stories[ac.Sequence])
	case AnimationSway:
		var sc SwayConfig
		if ac.Sway != nil {
			sc = *ac.Sway
		}
		sc.Position = target.Position()
		a = NewSway(ac.Name, target, sc)
	case AnimationOrbit:
		a = NewOrbit(ac.Name, target, s.Transform(ac.Leader), ac.Radius, ac.Speed)
	case AnimationFollow:
		a = NewFollow(ac.Name, target, s.Transform(ac.Leader), ac.Speed)
	case AnimationAvoid:
		a = NewAvoid(ac.Name, target, s.Transform(ac.Leader), ac.MinDistance, ac.RepelForce)
	case AnimationSync:
		a = NewSynchronize(ac.Name, target, s.Transform(ac.Leader), ac.SyncFactor)
	default:
		return nil, fmt.Errorf("%w: animation %q has unsupported kind %q", ErrInvalidConfig, ac.Name, ac.Kind)
	}
	if ac.Active != nil {
		a.Active = *ac.Active
	}
	return a, nil
}

// vec3Or converts a 3-element slice, or returns def when v is empty.
func vec3Or(v []float64, def mgl64.Vec3) mgl64.Vec3 {
	if len(v) != 3 {
		return def
	}
	return mgl64.Vec3{v[0], v[1], v[2]}
}
