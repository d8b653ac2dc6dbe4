// Package ecs provides ECS adapters for geode's entity change events.
//
// The primary adapter is [Bind], which publishes every batched
// collection-changed event from a geode collection into a [Donburi] world
// as a typed event. Subscribe to [CollectionEventType] in your ECS systems
// to receive them.
//
// Usage:
//
//	disconnect := ecs.Bind(world, scene.Entities())
//	ecs.CollectionEventType.Subscribe(world, onCollectionChanged)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
