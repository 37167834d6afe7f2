// Package reef is a time-driven 3D scene animation engine with an
// [Ebitengine] debug viewer.
//
// Reef owns a transform hierarchy, a pausable and reversible scene clock,
// and a set of animations that are pure functions of virtual time. A
// [Scene] advances everything once per frame in a fixed order: the clock,
// then animations in registration order, then particle pools on wall-clock
// delta, then event sequencers.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window and
// draws every transform as a set of axes:
//
//	scene := reef.NewScene()
//	fish := scene.NewTransform("fish")
//	scene.AddAnimation(reef.NewRotation("spin", fish, reef.AxisY, 1))
//	reef.Run(scene, reef.RunConfig{
//		Title: "My Scene", Width: 960, Height: 540,
//	})
//
// For full control, call [Scene.Update] from your own loop and read world
// matrices with [Transform.WorldMatrix].
//
// # Time
//
// The scene [Clock] maps wall time to virtual time through a signed time
// scale. Pausing freezes virtual time; a negative scale rewinds it, floored
// at zero. Changing the scale never makes virtual time jump. Particle pools
// ignore the clock and keep moving while paused or rewinding.
//
// # Animations
//
// Oscillators (rotation, translation, scale, pulse, sway) and the orbit
// follower compute their pose from virtual time alone, so rewinding replays
// them exactly. [DoorHinge] and [Locomotion] keep local progress anchored to
// the time their motion began. Each transform is driven by at most one
// animation; use [Scene.ReplaceAnimation] to hand it over.
//
// # Stories
//
// An [EventSequencer] fires named events at virtual times or when a
// predicate first holds, one per frame, in list order. Fired events can be
// forwarded to a Donburi world with the reef/ecs adapter.
//
// # Configuration
//
// Scenes can be described in YAML and built with [ParseSceneConfig] and
// [SceneConfig.Populate]. Control scripts loaded with [LoadScript] replay
// pause, speed, door, burst and screenshot actions frame by frame.
//
// Tweens use [gween]; math uses [mathgl].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [mathgl]: https://github.com/go-gl/mathgl
package reef
