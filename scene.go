package geode

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// entityGraph pairs a built Graph with the model description it was built
// from, so model swaps on the entity trigger a rebuild.
type entityGraph struct {
	graph *Graph
	model *ModelDescription
}

// Scene is the display driver: it owns an entity collection, builds a
// transform Graph for every entity carrying a model, drives graph root
// transforms from entity poses each frame, and submits the resulting render
// commands through a camera.
//
// Scene subscribes to the collection's batched change events; entity and
// model edits made while events are suspended are picked up in one pass
// when the suspension lifts.
type Scene struct {
	// ClearColor fills the screen before submission each frame.
	ClearColor Color
	// ScreenshotDir is where Screenshot captures are written. Defaults to
	// "screenshots" when empty.
	ScreenshotDir string

	entities *EntityCollection
	camera   *Camera
	graphs   map[string]entityGraph
	visible  []*Graph

	clock  float64
	lastDT float64
	debug  bool

	buf             submitBuffers
	stats           debugStats
	overlay         debugOverlay
	screenshotQueue []string
	unsub           func()
}

// NewScene creates a scene with an empty entity collection and a default
// camera.
func NewScene() *Scene {
	s := &Scene{
		entities: NewEntityCollection(nil),
		camera:   NewCamera(),
		graphs:   make(map[string]entityGraph),
	}
	s.unsub = s.entities.CollectionChanged().Connect(s.onEntitiesChanged)
	return s
}

// Entities returns the scene's entity collection. Populate the scene by
// adding entities to it; never bypass the collection's mutation path.
func (s *Scene) Entities() *EntityCollection {
	return s.entities
}

// Camera returns the scene's camera.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// SetDebug enables per-frame timing output on stderr.
func (s *Scene) SetDebug(debug bool) {
	s.debug = debug
}

// Clock returns the scene time in seconds, used for entity availability.
func (s *Scene) Clock() float64 {
	return s.clock
}

// SetClock sets the scene time.
func (s *Scene) SetClock(t float64) {
	s.clock = t
}

// GraphFor returns the transform graph built for entity, or (nil, false) if
// the entity has no model or is not in this scene.
func (s *Scene) GraphFor(entity *Entity) (*Graph, bool) {
	if entity == nil {
		return nil, false
	}
	eg, ok := s.graphs[entity.ID()]
	if !ok {
		return nil, false
	}
	return eg.graph, true
}

// onEntitiesChanged maintains the entity-to-graph table from collection
// change batches.
func (s *Scene) onEntitiesChanged(ch CollectionChange) {
	for _, e := range ch.Removed {
		delete(s.graphs, e.ID())
	}
	for _, e := range ch.Added {
		s.syncGraph(e)
	}
	for _, e := range ch.Changed {
		s.syncGraph(e)
	}
}

// syncGraph builds, rebuilds, or drops the graph for one entity depending
// on its current model.
func (s *Scene) syncGraph(e *Entity) {
	model := e.Model()
	if model == nil {
		delete(s.graphs, e.ID())
		return
	}
	if eg, ok := s.graphs[e.ID()]; ok && eg.model == model {
		return
	}
	s.graphs[e.ID()] = entityGraph{graph: NewGraph(*model), model: model}
}

// Update advances the scene clock and camera, then runs one graph update
// for every entity that is effectively visible and available at the
// current clock. Hidden entities keep their graphs but contribute nothing
// this frame.
func (s *Scene) Update(dt float64) {
	start := time.Now()

	s.clock += dt
	s.lastDT = dt
	s.camera.Update(dt)

	s.visible = s.visible[:0]
	for _, e := range s.entities.Values() {
		eg, ok := s.graphs[e.ID()]
		if !ok {
			continue
		}
		if !e.IsShowing() || !e.AvailableAt(s.clock) {
			continue
		}
		eg.graph.SetRootTransform(e.PoseMatrix())
		eg.graph.Update()
		s.visible = append(s.visible, eg.graph)
	}

	s.stats = debugStats{updateTime: time.Since(start)}
	s.stats.entityCount = s.entities.Len()
	s.stats.graphCount = len(s.visible)
}

// Draw submits the commands collected by the last Update to screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	screen.Fill(s.ClearColor.toRGBA())

	start := time.Now()
	for _, g := range s.visible {
		commands := g.Commands()
		s.stats.commandCount += len(commands)
		s.stats.triangleCount += submitCommands(screen, commands, s.camera, &s.buf)
	}
	s.stats.submitTime = time.Since(start)

	s.debugLog(s.stats)
	if s.debug {
		s.overlay.draw(screen, s.stats, s.lastDT)
	}
	s.stats = debugStats{}

	s.flushScreenshots(screen)
}
