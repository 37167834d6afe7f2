// Package ecs provides ECS adapters for reef scenes.
//
// [NewDonburiSink] bridges fired story events into a [Donburi] world as typed
// events. Subscribe to [StoryEventType] in your ECS systems to receive them.
//
// [Mirror] keeps one Donburi entity per scene transform with its world pose,
// so systems can query poses without holding scene pointers.
//
// Usage:
//
//	scene.SetEventSink(ecs.NewDonburiSink(world))
//	mirror := ecs.NewMirror(world)
//	// each frame, after scene.Update():
//	mirror.Sync(scene)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
