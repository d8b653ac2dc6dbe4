// Package geode is a retained-mode 3D scene and entity engine core for
// [Ebitengine].
//
// Geode provides the two mechanisms every non-trivial visualization engine
// needs and keeps rebuilding: an observable keyed collection of entities
// with batched, re-entrancy-safe change notification, and a hierarchical
// transform graph with a declarative per-node processing pipeline.
// Everything else (cameras, tweens, a painter-sorted triangle renderer) is
// thin machinery around those two.
//
// # Entities
//
// An [Entity] is a mutable, uniquely-identified object. Entities live in an
// [EntityCollection], which delivers batched change events:
//
//	entities := geode.NewEntityCollection(nil)
//	entities.CollectionChanged().Connect(func(ch geode.CollectionChange) {
//		// ch.Added, ch.Removed, ch.Changed
//	})
//
//	entities.SuspendEvents()
//	a := entities.GetOrCreate("a")
//	a.SetPosition(mgl64.Vec3{10, 0, 0})
//	entities.ResumeEvents() // one batch
//
// Several collections can be merged with [CompositeEntityCollection].
//
// # Transform graphs
//
// A [Graph] is built from a [ModelDescription]: a flat node table with
// integer child indices. Each [TransformNode] owns its local transform;
// the graph owns and revalidates every node's ancestor-accumulated
// transform. Per-node work is sequenced as stage lists selected by node
// kind: instanced nodes get an instancing stage on top of the
// transform-update stage every node runs.
//
// # Scenes
//
// [Scene] ties the two together: entities that carry a model get a graph,
// visible entities drive their graph's root transform from their pose each
// frame, and the resulting commands are projected through a [Camera] and
// submitted with DrawTriangles:
//
//	type Game struct{ scene *geode.Scene }
//
//	func (g *Game) Update() error              { g.scene.Update(1.0 / float64(ebiten.TPS())); return nil }
//	func (g *Game) Draw(screen *ebiten.Image)  { g.scene.Draw(screen) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// Tweens (via [gween]) animate node transforms and camera fly-tos, an
// [OrbitControl] drives the camera from the mouse, and the geode/ecs
// sub-module bridges collection change batches into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package geode
