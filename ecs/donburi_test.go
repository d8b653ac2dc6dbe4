package ecs

import (
	"testing"

	"github.com/geodelab/geode"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestBindPublishesBatches(t *testing.T) {
	world := donburi.NewWorld()
	entities := geode.NewEntityCollection(nil)
	disconnect := Bind(world, entities)
	defer disconnect()

	var received []geode.CollectionChange
	CollectionEventType.Subscribe(world, func(w donburi.World, ch geode.CollectionChange) {
		received = append(received, ch)
	})

	entities.SuspendEvents()
	entities.Add(geode.NewEntity("x"))
	entities.Add(geode.NewEntity("y"))
	entities.ResumeEvents()

	// Events are queued; process them.
	CollectionEventType.ProcessEvents(world)

	if len(received) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(received))
	}
	if len(received[0].Added) != 2 {
		t.Errorf("Added = %d entities, want 2", len(received[0].Added))
	}
	if received[0].Collection != entities {
		t.Error("batch should reference the source collection")
	}
}

func TestBindDisconnect(t *testing.T) {
	world := donburi.NewWorld()
	entities := geode.NewEntityCollection(nil)
	disconnect := Bind(world, entities)

	var count int
	CollectionEventType.Subscribe(world, func(w donburi.World, ch geode.CollectionChange) {
		count++
	})

	entities.Add(geode.NewEntity("a"))
	disconnect()
	entities.Add(geode.NewEntity("b"))
	events.ProcessAllEvents(world)

	if count != 1 {
		t.Errorf("expected 1 batch after disconnect, got %d", count)
	}
}

func TestBindMultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	entities := geode.NewEntityCollection(nil)
	defer Bind(world, entities)()

	var count1, count2 int
	CollectionEventType.Subscribe(world, func(w donburi.World, ch geode.CollectionChange) {
		count1++
	})
	CollectionEventType.Subscribe(world, func(w donburi.World, ch geode.CollectionChange) {
		count2++
	})

	entities.Add(geode.NewEntity("a"))
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
