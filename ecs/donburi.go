package ecs

import (
	"github.com/phanxgames/isoscene"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// TriggerEventType is the Donburi event type for isoscene trigger events.
// Events are queued; drain them with ProcessEvents from a system.
var TriggerEventType = events.NewEventType[isoscene.TriggerEvent]()

type donburiStore struct {
	world donburi.World
	skip  func(isoscene.TriggerEvent) bool
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
func NewDonburiStore(world donburi.World) isoscene.EventStore {
	return &donburiStore{world: world}
}

// NewFilteredDonburiStore is NewDonburiStore that only publishes trigger
// types listed in keep. Tick triggers fire every frame, so most games drop them.
func NewFilteredDonburiStore(world donburi.World, keep ...isoscene.TriggerType) isoscene.EventStore {
	var mask [4]bool
	for _, t := range keep {
		if int(t) < len(mask) {
			mask[t] = true
		}
	}
	return &donburiStore{
		world: world,
		skip: func(e isoscene.TriggerEvent) bool {
			return int(e.Type) >= len(mask) || !mask[e.Type]
		},
	}
}

func (s *donburiStore) EmitTrigger(e isoscene.TriggerEvent) {
	if s.skip != nil && s.skip(e) {
		return
	}
	TriggerEventType.Publish(s.world, e)
}
