package geode

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// NodeKind classifies a node's structural configuration. It is computed
// from the node's static description during ReconfigurePipeline and selects
// the node's stage lists from the declarative table in stage.go.
type NodeKind uint8

const (
	// KindStatic is a plain transform node, with or without a mesh.
	KindStatic NodeKind = iota
	// KindInstanced carries per-instance duplication data for its mesh.
	KindInstanced
)

func (k NodeKind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindInstanced:
		return "instanced"
	}
	return fmt.Sprintf("NodeKind(%d)", uint8(k))
}

// TransformNode is the runtime state for one node in a Graph. Nodes live in
// a contiguous table owned by the graph and reference their children by
// index into that table, never by pointer.
//
// A node owns its local transform and the values derived from it. The
// accumulated ancestor transform (transformToRoot) is supplied and
// revalidated by the owning graph; a node never recomputes it on its own.
type TransformNode struct {
	desc  *NodeDescription
	graph *Graph
	index int

	children []int
	kind     NodeKind

	local           mgl64.Mat4
	transformToRoot mgl64.Mat4
	// computed is transformToRoot * local, written by the transform-update
	// stage when the node is dirty.
	computed mgl64.Mat4
	dirty    bool

	// instancing is the axis-corrected product transformToRoot * local.
	// Valid only while kind is KindInstanced.
	instancing mgl64.Mat4

	pipelineStages []StageID
	updateStages   []StageID

	// Reused scratch buffers for stage output.
	instanceWorlds []mgl64.Mat4
	worldPositions []mgl64.Vec3
}

// newTransformNode initializes a node in the graph's table. All arguments
// are mandatory; the graph is responsible for child index validity.
func newTransformNode(n *TransformNode, desc *NodeDescription, local, transformToRoot mgl64.Mat4, graph *Graph, children []int, index int) {
	if desc == nil {
		panic("geode: node description is required")
	}
	if graph == nil {
		panic("geode: owning graph is required")
	}
	if children == nil {
		panic("geode: child index list is required (may be empty, not nil)")
	}
	n.desc = desc
	n.graph = graph
	n.index = index
	n.children = children
	n.local = local
	n.transformToRoot = transformToRoot
	n.dirty = true
	n.ReconfigurePipeline()
}

// Name returns the node's name from its static description.
func (n *TransformNode) Name() string {
	return n.desc.Name
}

// Index returns the node's position in the owning graph's node table.
func (n *TransformNode) Index() int {
	return n.index
}

// Kind returns the node's structural classification.
func (n *TransformNode) Kind() NodeKind {
	return n.kind
}

// LocalTransform returns the node's own transform.
func (n *TransformNode) LocalTransform() mgl64.Mat4 {
	return n.local
}

// SetLocalTransform stores a new local transform. Assigning a value equal
// to the current one is a no-op: the node stays clean and no derived state
// is touched. Otherwise the node is marked dirty for downstream consumers
// and, for instanced nodes, the instancing transform is recomputed.
func (n *TransformNode) SetLocalTransform(m mgl64.Mat4) {
	if m == n.local {
		return
	}
	n.dirty = true
	n.local = m
	if n.kind == KindInstanced {
		n.instancing = axisCorrect(n.transformToRoot.Mul4(n.local))
	}
}

// TransformToRoot returns the accumulated transform of all ancestors,
// excluding this node's own local transform. Owned by the graph.
func (n *TransformNode) TransformToRoot() mgl64.Mat4 {
	return n.transformToRoot
}

// ComputedTransform returns transformToRoot * local as of the last
// transform-update stage run.
func (n *TransformNode) ComputedTransform() mgl64.Mat4 {
	return n.computed
}

// InstancingTransform returns the axis-corrected world transform used for
// per-instance duplication. ok is false for non-instanced nodes.
func (n *TransformNode) InstancingTransform() (m mgl64.Mat4, ok bool) {
	if n.kind != KindInstanced {
		return mgl64.Mat4{}, false
	}
	return n.instancing, true
}

// TransformDirty reports whether the local transform has changed since the
// transform-update stage last ran.
func (n *TransformNode) TransformDirty() bool {
	return n.dirty
}

// NumChildren returns the number of child nodes.
func (n *TransformNode) NumChildren() int {
	return len(n.children)
}

// GetChild resolves the i-th child through the owning graph's node table.
// Panics if i is out of range.
func (n *TransformNode) GetChild(i int) *TransformNode {
	if i < 0 || i >= len(n.children) {
		panic(fmt.Sprintf("geode: child index %d out of range [0, %d)", i, len(n.children)))
	}
	return n.graph.Node(n.children[i])
}

// PipelineStages returns the node's ordered pipeline stage list. The
// returned slice MUST NOT be mutated by the caller.
func (n *TransformNode) PipelineStages() []StageID {
	return n.pipelineStages
}

// UpdateStages returns the node's ordered update stage list. The returned
// slice MUST NOT be mutated by the caller.
func (n *TransformNode) UpdateStages() []StageID {
	return n.updateStages
}

// ReconfigurePipeline recomputes the node's kind from its static
// description and rebuilds both stage lists from the kind's declarative
// stage table. Idempotent; call it again whenever the description's
// structural configuration changes (e.g. instance data hot-swapped).
func (n *TransformNode) ReconfigurePipeline() {
	n.kind = KindStatic
	if n.desc.Instances != nil && len(n.desc.Instances.Transforms) > 0 {
		n.kind = KindInstanced
	}

	stages := nodeStageTable[n.kind]
	n.pipelineStages = append(n.pipelineStages[:0], stages.pipeline...)
	n.updateStages = append(n.updateStages[:0], stages.update...)

	if n.kind == KindInstanced {
		n.instancing = axisCorrect(n.transformToRoot.Mul4(n.local))
	} else {
		n.instancing = mgl64.Mat4{}
	}
}
