package ecs

import (
	"github.com/geodelab/geode"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// CollectionEventType is the Donburi event type for geode collection change
// batches. Subscribe to this in your ECS systems to react to entities being
// added, removed, or mutated.
var CollectionEventType = events.NewEventType[geode.CollectionChange]()

// Bind publishes every collection-changed batch from c into world as a
// CollectionEventType event. The returned function disconnects the bridge.
//
// Events are queued by Donburi; call events.ProcessAllEvents (or
// CollectionEventType.ProcessEvents) each frame to deliver them.
func Bind(world donburi.World, c *geode.EntityCollection) (disconnect func()) {
	return c.CollectionChanged().Connect(func(ch geode.CollectionChange) {
		CollectionEventType.Publish(world, ch)
	})
}
