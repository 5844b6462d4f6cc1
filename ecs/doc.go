// Package ecs bridges isoscene animation triggers into a [Donburi] world.
//
// [NewDonburiStore] publishes every begin, mid, tick and end trigger as a
// typed event. Subscribe to [TriggerEventType] in your ECS systems to react
// to footsteps, attack frames and the like without touching the character.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEventStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
