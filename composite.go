package geode

// CompositeEntityCollection merges several source collections into one
// observable view. Each id in any source is mirrored by exactly one entity
// in the merged output; when the same id appears in multiple sources, the
// source latest in the list wins. Source mutations propagate through the
// merged collection's normal batched change events, bracketed by a
// suspend/resume so each source batch flushes as one merged batch.
//
// Mirrored entities are owned by the merged collection, never by a source:
// an entity's ownership stays exclusive to the one collection holding it.
type CompositeEntityCollection struct {
	merged  *EntityCollection
	sources []*EntityCollection
	unsub   []func()
	show    bool
}

// NewCompositeEntityCollection creates a composite over the given sources.
// The source order defines precedence: later sources override earlier ones
// for entities with the same id.
func NewCompositeEntityCollection(sources ...*EntityCollection) *CompositeEntityCollection {
	cc := &CompositeEntityCollection{show: true}
	cc.merged = NewEntityCollection(cc)
	for _, src := range sources {
		cc.attach(src)
	}
	cc.resyncAll()
	return cc
}

// Entities returns the merged output collection. Callers must treat it as
// read-only: mutate the sources, not the merged view.
func (cc *CompositeEntityCollection) Entities() *EntityCollection {
	return cc.merged
}

// CollectionChanged is raised with one batch per merged notification
// delivery.
func (cc *CompositeEntityCollection) CollectionChanged() *Event[CollectionChange] {
	return cc.merged.CollectionChanged()
}

// NumCollections returns the number of source collections.
func (cc *CompositeEntityCollection) NumCollections() int {
	return len(cc.sources)
}

// AddCollection appends src as the highest-precedence source and resyncs
// the merged view. Panics if src is nil or already attached.
func (cc *CompositeEntityCollection) AddCollection(src *EntityCollection) {
	if src == nil {
		panic("geode: cannot add a nil collection")
	}
	for _, existing := range cc.sources {
		if existing == src {
			panic("geode: collection is already part of this composite")
		}
	}
	cc.attach(src)
	cc.resyncAll()
}

// RemoveCollection detaches src and resyncs the merged view. Returns false
// if src is not part of this composite.
func (cc *CompositeEntityCollection) RemoveCollection(src *EntityCollection) bool {
	for i, existing := range cc.sources {
		if existing == src {
			cc.unsub[i]()
			cc.sources = append(cc.sources[:i], cc.sources[i+1:]...)
			cc.unsub = append(cc.unsub[:i], cc.unsub[i+1:]...)
			cc.resyncAll()
			return true
		}
	}
	return false
}

// Show returns the composite-level visibility flag.
func (cc *CompositeEntityCollection) Show() bool {
	return cc.show
}

// SetShow toggles the composite-level visibility flag, synthesizing
// isShowing changes for affected merged entities exactly as
// EntityCollection.SetShow does.
func (cc *CompositeEntityCollection) SetShow(show bool) {
	if show == cc.show {
		return
	}
	c := cc.merged
	c.SuspendEvents()
	before := make([]bool, len(c.values))
	for i, e := range c.values {
		before[i] = e.IsShowing()
	}
	cc.show = show
	for i, e := range c.values {
		if after := e.IsShowing(); after != before[i] {
			e.raiseIsShowingChanged(after, before[i])
		}
	}
	c.ResumeEvents()
}

// Showing implements EntityOwner for the merged collection's owner chain.
func (cc *CompositeEntityCollection) Showing() bool {
	return cc.show
}

// SuspendEvents defers merged change delivery; see
// EntityCollection.SuspendEvents.
func (cc *CompositeEntityCollection) SuspendEvents() {
	cc.merged.SuspendEvents()
}

// ResumeEvents lifts one suspension on the merged collection.
func (cc *CompositeEntityCollection) ResumeEvents() {
	cc.merged.ResumeEvents()
}

// ComputeAvailability returns the availability hull of the merged view.
func (cc *CompositeEntityCollection) ComputeAvailability() TimeInterval {
	return cc.merged.ComputeAvailability()
}

func (cc *CompositeEntityCollection) attach(src *EntityCollection) {
	cc.sources = append(cc.sources, src)
	cc.unsub = append(cc.unsub, src.CollectionChanged().Connect(cc.onSourceChanged))
}

// onSourceChanged resyncs only the ids named by a source batch.
func (cc *CompositeEntityCollection) onSourceChanged(ch CollectionChange) {
	ids := make([]string, 0, len(ch.Added)+len(ch.Removed)+len(ch.Changed))
	for _, e := range ch.Added {
		ids = append(ids, e.ID())
	}
	for _, e := range ch.Removed {
		ids = append(ids, e.ID())
	}
	for _, e := range ch.Changed {
		ids = append(ids, e.ID())
	}
	cc.syncIDs(ids)
}

// resyncAll rebuilds the merged view from scratch: every id in any source
// plus every id currently mirrored (to catch removals).
func (cc *CompositeEntityCollection) resyncAll() {
	seen := make(map[string]bool)
	var ids []string
	for _, src := range cc.sources {
		for _, e := range src.Values() {
			if !seen[e.ID()] {
				seen[e.ID()] = true
				ids = append(ids, e.ID())
			}
		}
	}
	for _, e := range cc.merged.Values() {
		if !seen[e.ID()] {
			seen[e.ID()] = true
			ids = append(ids, e.ID())
		}
	}
	cc.syncIDs(ids)
}

// syncIDs recomputes the winning source entity for each id and mirrors its
// definition onto the merged entity, all within one suspended epoch.
func (cc *CompositeEntityCollection) syncIDs(ids []string) {
	c := cc.merged
	c.SuspendEvents()
	for _, id := range ids {
		winner := cc.winner(id)
		if winner == nil {
			c.RemoveByID(id)
			continue
		}
		mirror := c.GetOrCreate(id)
		mirrorEntity(winner, mirror)
	}
	c.ResumeEvents()
}

// winner returns the highest-precedence source entity for id, or nil.
func (cc *CompositeEntityCollection) winner(id string) *Entity {
	for i := len(cc.sources) - 1; i >= 0; i-- {
		if e, ok := cc.sources[i].ByID(id); ok {
			return e
		}
	}
	return nil
}

// mirrorEntity copies src's definition onto dst through dst's setters, so
// only real differences raise change notifications.
func mirrorEntity(src, dst *Entity) {
	dst.SetName(src.Name())
	dst.SetShow(src.Show())
	dst.SetPosition(src.Position())
	dst.SetOrientation(src.Orientation())
	dst.SetAvailability(src.Availability())
	dst.SetModel(src.Model())
}
