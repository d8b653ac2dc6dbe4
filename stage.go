package geode

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// StageID identifies a processing stage applied to a node during graph
// traversal. Stages are opaque to the node: the graph sequences them, the
// registered Stage implementations do the work.
type StageID uint8

const (
	// StageUpdateTransform recomputes the node's computed world transform
	// and clears its dirty flag. Present in every node's update stage list.
	StageUpdateTransform StageID = iota
	// StageInstancing expands the node's per-instance transforms into
	// world-space matrices. Present only for KindInstanced nodes.
	StageInstancing
	// StageGeometry transforms the node's mesh into world space and emits
	// render commands.
	StageGeometry
)

func (s StageID) String() string {
	switch s {
	case StageUpdateTransform:
		return "updateTransform"
	case StageInstancing:
		return "instancing"
	case StageGeometry:
		return "geometry"
	}
	return fmt.Sprintf("StageID(%d)", uint8(s))
}

// Stage performs a side effect on a node using its current transforms. The
// graph never interprets a stage's internals, only its ordering.
type Stage interface {
	Process(g *Graph, n *TransformNode)
}

// stageSet holds the ordered stage lists for one node kind.
type stageSet struct {
	pipeline []StageID
	update   []StageID
}

// nodeStageTable maps each node kind to its stage lists. Declarative so
// that ReconfigurePipeline is a table lookup rather than scattered type
// checks.
var nodeStageTable = map[NodeKind]stageSet{
	KindStatic: {
		pipeline: []StageID{StageGeometry},
		update:   []StageID{StageUpdateTransform},
	},
	KindInstanced: {
		pipeline: []StageID{StageInstancing, StageGeometry},
		update:   []StageID{StageUpdateTransform},
	},
}

// defaultStageRegistry returns the built-in Stage implementation for each
// StageID. Graphs copy this at construction; RegisterStage can override
// entries per graph.
func defaultStageRegistry() map[StageID]Stage {
	return map[StageID]Stage{
		StageUpdateTransform: updateTransformStage{},
		StageInstancing:      instancingStage{},
		StageGeometry:        geometryStage{},
	}
}

// updateTransformStage is the downstream consumer of a node's dirty flag:
// it recomputes the node's world transform from the graph-supplied
// transformToRoot and the node-owned local transform, then returns the node
// to the clean state.
type updateTransformStage struct{}

func (updateTransformStage) Process(g *Graph, n *TransformNode) {
	n.computed = n.transformToRoot.Mul4(n.local)
	n.dirty = false
}

// instancingStage expands per-instance transforms into world space using
// the node's axis-corrected instancing transform.
type instancingStage struct{}

func (instancingStage) Process(g *Graph, n *TransformNode) {
	instances := n.desc.Instances
	if instances == nil {
		return
	}
	n.instanceWorlds = n.instanceWorlds[:0]
	for _, t := range instances.Transforms {
		n.instanceWorlds = append(n.instanceWorlds, n.instancing.Mul4(t))
	}
}

// geometryStage transforms the node's mesh into world space and appends one
// render command per drawn copy. For instanced nodes the command set is one
// per instance world; otherwise a single command using the node's computed
// transform.
type geometryStage struct{}

func (geometryStage) Process(g *Graph, n *TransformNode) {
	mesh := n.desc.Mesh
	if mesh == nil || len(mesh.Positions) == 0 || len(mesh.Indices) == 0 {
		return
	}

	worlds := n.scratchWorlds()
	vertsPerCopy := len(mesh.Positions)
	needed := vertsPerCopy * len(worlds)
	if cap(n.worldPositions) < needed {
		n.worldPositions = make([]mgl64.Vec3, needed)
	}
	n.worldPositions = n.worldPositions[:needed]

	for i, w := range worlds {
		out := n.worldPositions[i*vertsPerCopy : (i+1)*vertsPerCopy]
		for j, p := range mesh.Positions {
			out[j] = transformPoint(w, p)
		}
		g.commands = append(g.commands, RenderCommand{
			Positions: out,
			Indices:   mesh.Indices,
			Color:     mesh.Color,
		})
	}
}

// scratchWorlds returns the world matrices geometry is drawn with: the
// instancing stage's output for instanced nodes, or the computed transform
// alone.
func (n *TransformNode) scratchWorlds() []mgl64.Mat4 {
	if n.kind == KindInstanced {
		return n.instanceWorlds
	}
	if cap(n.instanceWorlds) < 1 {
		n.instanceWorlds = make([]mgl64.Mat4, 1)
	}
	n.instanceWorlds = n.instanceWorlds[:1]
	n.instanceWorlds[0] = n.computed
	return n.instanceWorlds
}
