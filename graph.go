package geode

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Graph owns the runtime node table built from a ModelDescription. Nodes
// are stored in one contiguous arena and reference each other by index, so
// there are no ownership cycles and the table can be walked without pointer
// chasing.
//
// The graph owns every node's transformToRoot: it supplies the value at
// construction and revalidates it top-down during Update whenever an
// ancestor's local transform has changed.
type Graph struct {
	model ModelDescription
	nodes []TransformNode

	// rootTransform places the whole graph in the world. Set per frame by
	// the display driver from the owning entity's pose.
	rootTransform mgl64.Mat4
	rootDirty     bool

	stages   map[StageID]Stage
	commands []RenderCommand
}

// NewGraph builds the runtime node table for model. Panics if the model has
// no nodes, if any root or child index is out of range, if a node is
// claimed by more than one parent, or if any node is unreachable from the
// roots, since the graph cannot keep indices valid otherwise.
func NewGraph(model ModelDescription) *Graph {
	if len(model.Nodes) == 0 {
		panic("geode: model has no nodes")
	}
	if len(model.Roots) == 0 {
		panic("geode: model has no root nodes")
	}

	g := &Graph{
		model:         model,
		nodes:         make([]TransformNode, len(model.Nodes)),
		rootTransform: identityMat4,
		stages:        defaultStageRegistry(),
	}

	visited := make([]bool, len(model.Nodes))
	for _, r := range model.Roots {
		if r < 0 || r >= len(model.Nodes) {
			panic(fmt.Sprintf("geode: root index %d out of range [0, %d)", r, len(model.Nodes)))
		}
		g.build(r, identityMat4, visited)
	}
	for i, ok := range visited {
		if !ok {
			panic(fmt.Sprintf("geode: node %d is unreachable from the graph roots", i))
		}
	}
	return g
}

// build initializes the node at index and recurses into its children,
// accumulating transformToRoot along the way.
func (g *Graph) build(index int, transformToRoot mgl64.Mat4, visited []bool) {
	if visited[index] {
		panic(fmt.Sprintf("geode: node %d has more than one parent", index))
	}
	visited[index] = true

	desc := &g.model.Nodes[index]
	children := desc.Children
	if children == nil {
		children = []int{}
	}
	for _, c := range children {
		if c < 0 || c >= len(g.model.Nodes) {
			panic(fmt.Sprintf("geode: node %d child index %d out of range [0, %d)", index, c, len(g.model.Nodes)))
		}
	}
	newTransformNode(&g.nodes[index], desc, desc.Matrix, transformToRoot, g, children, index)

	childToRoot := transformToRoot.Mul4(desc.Matrix)
	for _, c := range children {
		g.build(c, childToRoot, visited)
	}
}

// Len returns the number of nodes in the table.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node stored at index in the table. Panics if index is
// out of range.
func (g *Graph) Node(index int) *TransformNode {
	if index < 0 || index >= len(g.nodes) {
		panic(fmt.Sprintf("geode: node index %d out of range [0, %d)", index, len(g.nodes)))
	}
	return &g.nodes[index]
}

// NodeByName returns the first node with the given name, or (nil, false).
func (g *Graph) NodeByName(name string) (*TransformNode, bool) {
	for i := range g.nodes {
		if g.nodes[i].desc.Name == name {
			return &g.nodes[i], true
		}
	}
	return nil, false
}

// Roots returns the indices of the graph's root nodes. The returned slice
// MUST NOT be mutated by the caller.
func (g *Graph) Roots() []int {
	return g.model.Roots
}

// RootTransform returns the transform placing the graph in the world.
func (g *Graph) RootTransform() mgl64.Mat4 {
	return g.rootTransform
}

// SetRootTransform sets the transform placing the graph in the world.
// Equal values are a no-op.
func (g *Graph) SetRootTransform(m mgl64.Mat4) {
	if m == g.rootTransform {
		return
	}
	g.rootTransform = m
	g.rootDirty = true
}

// RegisterStage overrides the implementation run for a stage id on this
// graph. Panics if impl is nil.
func (g *Graph) RegisterStage(id StageID, impl Stage) {
	if impl == nil {
		panic("geode: cannot register a nil stage")
	}
	g.stages[id] = impl
}

// Update runs one frame of graph work: transformToRoot revalidation plus
// update stages for every node whose transform state is stale, then the
// pipeline stages of every node in depth-first order. Render commands
// emitted by pipeline stages are available from Commands until the next
// Update.
func (g *Graph) Update() {
	g.commands = g.commands[:0]
	for _, r := range g.model.Roots {
		g.updateNode(r, g.rootTransform, g.rootDirty)
	}
	g.rootDirty = false
}

// updateNode revalidates one node and recurses. ancestorStale forces
// recomputation even on clean nodes, since their transformToRoot changed
// out from under them.
func (g *Graph) updateNode(index int, transformToRoot mgl64.Mat4, ancestorStale bool) {
	n := &g.nodes[index]

	stale := n.dirty || ancestorStale
	if stale {
		n.transformToRoot = transformToRoot
		if n.kind == KindInstanced {
			n.instancing = axisCorrect(transformToRoot.Mul4(n.local))
		}
		for _, id := range n.updateStages {
			g.stages[id].Process(g, n)
		}
	}

	for _, id := range n.pipelineStages {
		g.stages[id].Process(g, n)
	}

	childToRoot := transformToRoot.Mul4(n.local)
	for _, c := range n.children {
		g.updateNode(c, childToRoot, stale)
	}
}

// Commands returns the render commands emitted during the last Update. The
// returned slice MUST NOT be mutated by the caller.
func (g *Graph) Commands() []RenderCommand {
	return g.commands
}

// ReconfigurePipelines re-runs ReconfigurePipeline on every node. Call
// after structural edits to the model description (e.g. hot-reloading
// instance data).
func (g *Graph) ReconfigurePipelines() {
	for i := range g.nodes {
		g.nodes[i].ReconfigurePipeline()
	}
}
