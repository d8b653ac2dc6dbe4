package geode

import "github.com/go-gl/mathgl/mgl64"

// Mesh is a static triangle mesh in local space. Positions are indexed by
// Indices, three per triangle.
type Mesh struct {
	Positions []mgl64.Vec3
	Indices   []uint16
	Color     Color
}

// InstanceData declares per-instance duplication for a node's mesh. Each
// transform places one copy of the mesh, relative to the node's
// axis-corrected world transform.
type InstanceData struct {
	Transforms []mgl64.Mat4
}

// NodeDescription is the static description of one node in a model. It is
// never mutated by the runtime; mutable per-frame state lives on the
// TransformNode built from it.
type NodeDescription struct {
	Name string
	// Matrix is the node's initial local transform.
	Matrix mgl64.Mat4
	// Children holds indices into the owning ModelDescription's Nodes table.
	Children []int
	// Mesh is the geometry rendered at this node, or nil for a pure
	// transform node.
	Mesh *Mesh
	// Instances declares per-instance duplication of Mesh, or nil.
	Instances *InstanceData
}

// ModelDescription is a complete static model: a flat node table plus the
// indices of its root nodes. Graphs are built from it with NewGraph.
type ModelDescription struct {
	Nodes []NodeDescription
	Roots []int
}
