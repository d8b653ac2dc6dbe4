package geode

import (
	"fmt"

	"github.com/google/uuid"
)

// CollectionChange is one batched collection-changed notification. Each list
// preserves the order in which the entities were staged, and an entity
// appears in at most one of the three lists per batch.
type CollectionChange struct {
	Collection *EntityCollection
	Added      []*Entity
	Removed    []*Entity
	Changed    []*Entity
}

// EntityCollection is an observable keyed collection of entities. Mutations
// (add, remove, per-entity definition changes) are staged and delivered as
// batched collection-changed events. SuspendEvents/ResumeEvents bracket bulk
// edits into a single batch, and delivery is safe against listeners that
// mutate the collection while a batch is being fired.
//
// EntityCollection is not safe for concurrent use; all mutation and delivery
// happens on the frame tick.
type EntityCollection struct {
	id    string
	owner EntityOwner
	show  bool

	values []*Entity          // insertion order
	byID   map[string]*Entity

	added       entitySet
	removed     entitySet
	changed     entitySet
	unsubscribe map[string]func()

	suspendCount int
	firing       bool
	refire       bool

	collectionChanged Event[CollectionChange]
}

// NewEntityCollection creates an empty collection. owner is the composite
// collection that created this collection, or nil for a standalone one.
func NewEntityCollection(owner EntityOwner) *EntityCollection {
	return &EntityCollection{
		id:          uuid.NewString(),
		owner:       owner,
		show:        true,
		byID:        make(map[string]*Entity),
		unsubscribe: make(map[string]func()),
	}
}

// ID returns the collection's globally unique identifier.
func (c *EntityCollection) ID() string {
	return c.id
}

// Owner returns the composite collection that created this collection, or
// nil.
func (c *EntityCollection) Owner() EntityOwner {
	return c.owner
}

// CollectionChanged is raised with one batch per notification delivery. See
// SuspendEvents for batching semantics.
func (c *EntityCollection) CollectionChanged() *Event[CollectionChange] {
	return &c.collectionChanged
}

// Len returns the number of entities in the collection.
func (c *EntityCollection) Len() int {
	return len(c.values)
}

// Values returns the entities in insertion order. The returned slice MUST
// NOT be mutated by the caller.
func (c *EntityCollection) Values() []*Entity {
	return c.values
}

// --- Suspend / resume ---

// SuspendEvents defers collection-changed delivery until the matching
// ResumeEvents. Calls nest: delivery resumes only when every suspension has
// been lifted, at which point all staged mutations flush as one batch.
func (c *EntityCollection) SuspendEvents() {
	c.suspendCount++
}

// ResumeEvents lifts one suspension. Panics if events are not suspended:
// an unbalanced resume is a programmer error, not a recoverable condition.
func (c *EntityCollection) ResumeEvents() {
	if c.suspendCount == 0 {
		panic("geode: ResumeEvents called while events are not suspended")
	}
	c.suspendCount--
	c.fireChanged()
}

// --- Visibility ---

// Show returns the collection-level visibility flag.
func (c *EntityCollection) Show() bool {
	return c.show
}

// Showing reports the collection's effective visibility, including any
// composite owner above it. Part of the EntityOwner capability.
func (c *EntityCollection) Showing() bool {
	if !c.show {
		return false
	}
	if c.owner == nil {
		return true
	}
	return c.owner.Showing()
}

// SetShow toggles the collection-level visibility flag. Every entity whose
// effective visibility changes as a result receives a synthesized isShowing
// definition change carrying both old and new values, and all of them flush
// as a single collection-changed batch.
func (c *EntityCollection) SetShow(show bool) {
	if show == c.show {
		return
	}

	c.SuspendEvents()
	before := make([]bool, len(c.values))
	for i, e := range c.values {
		before[i] = e.IsShowing()
	}
	c.show = show
	for i, e := range c.values {
		if after := e.IsShowing(); after != before[i] {
			e.raiseIsShowingChanged(after, before[i])
		}
	}
	c.ResumeEvents()
}

// --- Mutation ---

// Add inserts entity into the collection and takes exclusive ownership of
// it. Panics if the entity is nil, already owned by a collection, or if an
// entity with the same id is already present.
func (c *EntityCollection) Add(entity *Entity) {
	if entity == nil {
		panic("geode: cannot add a nil entity")
	}
	if entity.owner != nil {
		panic(fmt.Sprintf("geode: entity %q already belongs to a collection; remove it first", entity.id))
	}
	id := entity.id
	if _, exists := c.byID[id]; exists {
		panic(fmt.Sprintf("geode: an entity with id %q already exists in this collection", id))
	}

	entity.owner = c
	c.byID[id] = entity
	c.values = append(c.values, entity)

	// An add that cancels a pending removal is a net-zero edit: the removal
	// is dropped and no add is staged.
	if !c.removed.remove(id) {
		c.added.set(id, entity)
	}
	c.unsubscribe[id] = entity.definitionChanged.Connect(c.onEntityDefinitionChanged)
	c.fireChanged()
}

// Remove removes entity from the collection. Returns false if the exact
// entity instance is not the one stored under its id.
func (c *EntityCollection) Remove(entity *Entity) bool {
	return entity != nil && c.Contains(entity) && c.RemoveByID(entity.id)
}

// RemoveByID removes the entity with the given id. Returns false if no such
// entity exists.
func (c *EntityCollection) RemoveByID(id string) bool {
	entity, ok := c.byID[id]
	if !ok {
		return false
	}

	delete(c.byID, id)
	removeEntityByPtr(&c.values, entity)

	// A removal that cancels a same-epoch add is a net-zero edit; otherwise
	// stage the removal and drop any pending change for the id.
	if !c.added.remove(id) {
		c.removed.set(id, entity)
		c.changed.remove(id)
	}

	if unsub := c.unsubscribe[id]; unsub != nil {
		unsub()
		delete(c.unsubscribe, id)
	}
	entity.owner = nil
	c.fireChanged()
	return true
}

// RemoveAll removes every entity from the collection, delivering a single
// batch. Entities added earlier in the same suspended epoch cancel out and
// appear in neither list.
func (c *EntityCollection) RemoveAll() {
	for _, entity := range c.values {
		id := entity.id
		if !c.added.contains(id) {
			c.removed.set(id, entity)
		}
		if unsub := c.unsubscribe[id]; unsub != nil {
			unsub()
			delete(c.unsubscribe, id)
		}
		entity.owner = nil
	}
	c.values = c.values[:0]
	clear(c.byID)
	c.added.removeAll()
	c.changed.removeAll()
	c.fireChanged()
}

// --- Lookup ---

// ByID returns the entity with the given id, or (nil, false) if absent.
// Lookup never affects staged notifications.
func (c *EntityCollection) ByID(id string) (*Entity, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// GetOrCreate returns the entity with the given id, creating and adding a
// minimal one if absent. Panics if id is empty.
func (c *EntityCollection) GetOrCreate(id string) *Entity {
	if id == "" {
		panic("geode: GetOrCreate requires a non-empty id")
	}
	if e, ok := c.byID[id]; ok {
		return e
	}
	e := NewEntity(id)
	c.Add(e)
	return e
}

// Contains reports whether the exact entity instance is stored in this
// collection. An entity with a matching id but a different identity does
// not count.
func (c *EntityCollection) Contains(entity *Entity) bool {
	return entity != nil && c.byID[entity.id] == entity
}

// --- Aggregates ---

// ComputeAvailability returns the tightest interval spanning every entity's
// availability. Unbounded sentinel endpoints on an individual entity do not
// pull the aggregate toward infinity; if nothing restricts time at all, the
// result is the fully unbounded interval.
func (c *EntityCollection) ComputeAvailability() TimeInterval {
	start := MaxTime
	stop := MinTime
	for _, e := range c.values {
		av := e.availability
		if av == nil {
			continue
		}
		if av.Start < start && av.Start != MinTime {
			start = av.Start
		}
		if av.Stop > stop && av.Stop != MaxTime {
			stop = av.Stop
		}
	}
	if start == MaxTime {
		start = MinTime
	}
	if stop == MinTime {
		stop = MaxTime
	}
	return TimeInterval{Start: start, Stop: stop}
}

// --- Notification delivery ---

// onEntityDefinitionChanged routes a member entity's definition change into
// the changed staging set. Entities staged as added this epoch stay in the
// added list only.
func (c *EntityCollection) onEntityDefinitionChanged(ch EntityChange) {
	id := ch.Entity.id
	if !c.added.contains(id) {
		c.changed.set(id, ch.Entity)
	}
	c.fireChanged()
}

// fireChanged delivers staged mutations as collection-changed batches.
//
// If a delivery loop is already running, the staged work is picked up by
// that loop via the refire flag instead of recursing. If events are
// suspended or nothing is staged, this is a no-op. Otherwise the loop
// drains the staging sets, emits one batch, and repeats until a full pass
// triggers no further staging, so a listener mutating the collection during
// delivery sees its mutation in a subsequent batch of the same top-level
// call, never lost, never delivered twice.
func (c *EntityCollection) fireChanged() {
	if c.firing {
		c.refire = true
		return
	}
	if c.suspendCount > 0 {
		return
	}
	if c.added.len() == 0 && c.removed.len() == 0 && c.changed.len() == 0 {
		return
	}

	c.firing = true
	for {
		c.refire = false
		batch := CollectionChange{
			Collection: c,
			Added:      c.added.drain(),
			Removed:    c.removed.drain(),
			Changed:    c.changed.drain(),
		}
		c.collectionChanged.Emit(batch)
		if !c.refire {
			break
		}
		if c.added.len() == 0 && c.removed.len() == 0 && c.changed.len() == 0 {
			break
		}
	}
	c.firing = false
}

// removeEntityByPtr removes entity from *values by identity. Uses copy+nil
// to avoid retaining a dangling pointer in the backing array.
func removeEntityByPtr(values *[]*Entity, entity *Entity) {
	s := *values
	for i, e := range s {
		if e == entity {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = nil
			*values = s[:len(s)-1]
			return
		}
	}
}

// --- Staging set ---

// entitySet is an insertion-ordered id → entity staging map. The zero value
// is ready to use.
type entitySet struct {
	order []*Entity
	index map[string]int
}

func (s *entitySet) len() int {
	return len(s.order)
}

func (s *entitySet) contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// set inserts or replaces the entity stored under id, preserving the
// original staging position on replace.
func (s *entitySet) set(id string, e *Entity) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[id]; ok {
		s.order[i] = e
		return
	}
	s.index[id] = len(s.order)
	s.order = append(s.order, e)
}

// remove deletes the entity stored under id, reporting whether it was
// present.
func (s *entitySet) remove(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	delete(s.index, id)
	copy(s.order[i:], s.order[i+1:])
	s.order[len(s.order)-1] = nil
	s.order = s.order[:len(s.order)-1]
	for j := i; j < len(s.order); j++ {
		s.index[s.order[j].id] = j
	}
	return true
}

func (s *entitySet) removeAll() {
	clear(s.index)
	s.order = s.order[:0]
}

// drain returns the staged entities in order and resets the set. The
// returned slice is owned by the caller.
func (s *entitySet) drain() []*Entity {
	if len(s.order) == 0 {
		return nil
	}
	out := make([]*Entity, len(s.order))
	copy(out, s.order)
	s.removeAll()
	return out
}
