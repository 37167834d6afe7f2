package ecs

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/reef"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// StoryEventType is the Donburi event type for fired story events.
var StoryEventType = events.NewEventType[reef.StoryEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Story events
// are published to StoryEventType and can be consumed with events.Subscribe
// and ProcessEvents.
func NewDonburiSink(world donburi.World) reef.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitStoryEvent(event reef.StoryEvent) {
	StoryEventType.Publish(s.world, event)
}

// Pose is the per-entity copy of a transform's world state.
type Pose struct {
	Name     string
	World    mgl64.Mat4
	Position mgl64.Vec3
	// Driven reports whether an animation owns the transform.
	Driven bool
}

// PoseComponent holds a Pose on each mirrored entity.
var PoseComponent = donburi.NewComponentType[Pose]()

// Mirror maintains one entity per scene transform.
type Mirror struct {
	world    donburi.World
	entities map[*reef.Transform]donburi.Entity
	query    *donburi.Query
}

// NewMirror creates a mirror writing into world.
func NewMirror(world donburi.World) *Mirror {
	return &Mirror{
		world:    world,
		entities: make(map[*reef.Transform]donburi.Entity),
		query:    donburi.NewQuery(filter.Contains(PoseComponent)),
	}
}

// Sync creates entities for new transforms and refreshes every pose.
// Call it after Scene.Update.
func (m *Mirror) Sync(scene *reef.Scene) {
	for _, t := range scene.Transforms() {
		e, ok := m.entities[t]
		if !ok || !m.world.Valid(e) {
			e = m.world.Create(PoseComponent)
			m.entities[t] = e
		}
		world := t.WorldMatrix()
		PoseComponent.SetValue(m.world.Entry(e), Pose{
			Name:     t.Name,
			World:    world,
			Position: world.Col(3).Vec3(),
			Driven:   t.Owner() != nil,
		})
	}
}

// Entity returns the entity mirroring t.
func (m *Mirror) Entity(t *reef.Transform) (donburi.Entity, bool) {
	e, ok := m.entities[t]
	return e, ok
}

// Each calls fn with every mirrored pose.
func (m *Mirror) Each(fn func(Pose)) {
	m.query.Each(m.world, func(entry *donburi.Entry) {
		fn(*PoseComponent.Get(entry))
	})
}

// Count returns the number of mirrored entities.
func (m *Mirror) Count() int {
	return m.query.Count(m.world)
}
