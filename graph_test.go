package geode

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// chainModel is root -> mid -> leaf, each with its own translation.
func chainModel() ModelDescription {
	return ModelDescription{
		Nodes: []NodeDescription{
			{Name: "root", Matrix: mgl64.Translate3D(1, 0, 0), Children: []int{1}},
			{Name: "mid", Matrix: mgl64.Translate3D(0, 2, 0), Children: []int{2}},
			{Name: "leaf", Matrix: mgl64.Translate3D(0, 0, 3)},
		},
		Roots: []int{0},
	}
}

// --- Construction ---

func TestNewGraphAccumulatesTransformToRoot(t *testing.T) {
	g := NewGraph(chainModel())

	assertMat4(t, "root toRoot", g.Node(0).TransformToRoot(), mgl64.Ident4())
	assertMat4(t, "mid toRoot", g.Node(1).TransformToRoot(), mgl64.Translate3D(1, 0, 0))
	assertMat4(t, "leaf toRoot", g.Node(2).TransformToRoot(), mgl64.Translate3D(1, 2, 0))
}

func TestNewGraphValidation(t *testing.T) {
	cases := []struct {
		name  string
		model ModelDescription
	}{
		{"no nodes", ModelDescription{Roots: []int{0}}},
		{"no roots", ModelDescription{Nodes: []NodeDescription{{Name: "n"}}}},
		{"root out of range", ModelDescription{
			Nodes: []NodeDescription{{Name: "n"}},
			Roots: []int{3},
		}},
		{"child out of range", ModelDescription{
			Nodes: []NodeDescription{{Name: "n", Children: []int{9}}},
			Roots: []int{0},
		}},
		{"two parents", ModelDescription{
			Nodes: []NodeDescription{
				{Name: "a", Children: []int{2}},
				{Name: "b", Children: []int{2}},
				{Name: "shared"},
			},
			Roots: []int{0, 1},
		}},
		{"unreachable node", ModelDescription{
			Nodes: []NodeDescription{
				{Name: "root"},
				{Name: "orphan"},
			},
			Roots: []int{0},
		}},
		{"cycle", ModelDescription{
			Nodes: []NodeDescription{
				{Name: "root"},
				{Name: "a", Children: []int{2}},
				{Name: "b", Children: []int{1}},
			},
			Roots: []int{0},
		}},
	}
	for _, tc := range cases {
		func() {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("%s: expected panic, got none", tc.name)
				}
			}()
			NewGraph(tc.model)
		}()
	}
}

func TestNodeIndexOutOfRangePanics(t *testing.T) {
	g := NewGraph(chainModel())
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for node index out of range, got none")
		}
	}()
	g.Node(99)
}

func TestNodeByName(t *testing.T) {
	g := NewGraph(chainModel())
	n, ok := g.NodeByName("mid")
	if !ok || n.Index() != 1 {
		t.Errorf("NodeByName(mid) = %v, %v", n, ok)
	}
	if _, ok := g.NodeByName("missing"); ok {
		t.Error("NodeByName should miss on unknown names")
	}
}

// --- Transform revalidation ---

// The graph owns transformToRoot: writing an ancestor's local transform
// must propagate to every descendant on the next update, even though the
// descendants themselves are clean.
func TestUpdateRevalidatesDescendants(t *testing.T) {
	g := NewGraph(chainModel())
	g.Update()

	g.Node(0).SetLocalTransform(mgl64.Translate3D(10, 0, 0))
	g.Update()

	assertMat4(t, "mid toRoot", g.Node(1).TransformToRoot(), mgl64.Translate3D(10, 0, 0))
	assertMat4(t, "leaf toRoot", g.Node(2).TransformToRoot(), mgl64.Translate3D(10, 2, 0))
	assertMat4(t, "leaf computed", g.Node(2).ComputedTransform(), mgl64.Translate3D(10, 2, 3))
}

func TestUpdateRefreshesInstancingOnAncestorWrite(t *testing.T) {
	model := ModelDescription{
		Nodes: []NodeDescription{
			{Name: "root", Matrix: mgl64.Ident4(), Children: []int{1}},
			{Name: "leaf", Matrix: mgl64.Ident4(), Instances: twoInstances()},
		},
		Roots: []int{0},
	}
	g := NewGraph(model)
	g.Update()

	g.Node(0).SetLocalTransform(mgl64.Translate3D(0, 5, 0))
	g.Update()

	leaf := g.Node(1)
	got, ok := leaf.InstancingTransform()
	if !ok {
		t.Fatal("instanced node lost its instancing transform")
	}
	assertMat4(t, "instancing", got, axisCorrect(mgl64.Translate3D(0, 5, 0)))
}

func TestSetRootTransformPlacesGraph(t *testing.T) {
	g := NewGraph(chainModel())
	g.SetRootTransform(mgl64.Translate3D(100, 0, 0))
	g.Update()

	assertMat4(t, "root toRoot", g.Node(0).TransformToRoot(), mgl64.Translate3D(100, 0, 0))
	assertMat4(t, "leaf computed", g.Node(2).ComputedTransform(), mgl64.Translate3D(101, 2, 3))

	// Same-value writes must not re-dirty the tree.
	g.SetRootTransform(mgl64.Translate3D(100, 0, 0))
	if g.rootDirty {
		t.Error("equal root transform write should be a no-op")
	}
}

// A clean tree keeps its computed transforms across updates.
func TestUpdateSkipsCleanNodes(t *testing.T) {
	g := NewGraph(chainModel())
	g.Update()
	want := g.Node(2).ComputedTransform()

	g.Update()
	g.Update()

	assertMat4(t, "leaf computed", g.Node(2).ComputedTransform(), want)
	for i := 0; i < g.Len(); i++ {
		if g.Node(i).TransformDirty() {
			t.Errorf("node %d still dirty after update", i)
		}
	}
}

// --- Pipeline execution ---

func TestUpdateEmitsGeometryCommands(t *testing.T) {
	mesh := &Mesh{
		Positions: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Indices:   []uint16{0, 1, 2},
		Color:     ColorWhite,
	}
	model := ModelDescription{
		Nodes: []NodeDescription{{Name: "tri", Matrix: mgl64.Translate3D(0, 0, 5), Mesh: mesh}},
		Roots: []int{0},
	}
	g := NewGraph(model)
	g.Update()

	commands := g.Commands()
	if len(commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(commands))
	}
	if commands[0].Positions[0] != (mgl64.Vec3{0, 0, 5}) {
		t.Errorf("world position = %v, want (0, 0, 5)", commands[0].Positions[0])
	}
}

func TestUpdateEmitsOneCommandPerInstance(t *testing.T) {
	mesh := &Mesh{
		Positions: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Indices:   []uint16{0, 1, 2},
	}
	model := ModelDescription{
		Nodes: []NodeDescription{{
			Name:      "instanced",
			Matrix:    mgl64.Ident4(),
			Mesh:      mesh,
			Instances: twoInstances(),
		}},
		Roots: []int{0},
	}
	g := NewGraph(model)
	g.Update()

	commands := g.Commands()
	if len(commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(commands))
	}
	// Instance worlds are axis-corrected; the +X translation survives the
	// Y-up to Z-up swap untouched.
	if commands[0].Positions[0] != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("instance 0 origin = %v, want (1, 0, 0)", commands[0].Positions[0])
	}
	if commands[1].Positions[0] != (mgl64.Vec3{-1, 0, 0}) {
		t.Errorf("instance 1 origin = %v, want (-1, 0, 0)", commands[1].Positions[0])
	}
}

func TestCommandsResetEachUpdate(t *testing.T) {
	g := NewGraph(singleNodeModel(nil))
	g.Update()
	first := len(g.Commands())
	g.Update()
	if len(g.Commands()) != first {
		t.Errorf("command count changed across updates: %d -> %d", first, len(g.Commands()))
	}
}

// --- Stage registration ---

// recordingStage records the nodes it processed.
type recordingStage struct {
	names []string
}

func (r *recordingStage) Process(g *Graph, n *TransformNode) {
	r.names = append(r.names, n.Name())
}

func TestRegisterStageOverride(t *testing.T) {
	g := NewGraph(chainModel())
	rec := &recordingStage{}
	g.RegisterStage(StageGeometry, rec)

	g.Update()

	// Geometry runs for every node in depth-first order, meshes or not.
	want := []string{"root", "mid", "leaf"}
	if len(rec.names) != len(want) {
		t.Fatalf("processed %v, want %v", rec.names, want)
	}
	for i := range want {
		if rec.names[i] != want[i] {
			t.Errorf("processed %v, want %v", rec.names, want)
		}
	}
}

func TestRegisterNilStagePanics(t *testing.T) {
	g := NewGraph(chainModel())
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil stage, got none")
		}
	}()
	g.RegisterStage(StageGeometry, nil)
}

func TestReconfigurePipelines(t *testing.T) {
	model := chainModel()
	g := NewGraph(model)

	g.model.Nodes[2].Instances = twoInstances()
	g.ReconfigurePipelines()

	if g.Node(2).Kind() != KindInstanced {
		t.Error("graph-wide reconfigure should pick up structural edits")
	}
	if g.Node(0).Kind() != KindStatic {
		t.Error("untouched nodes keep their kind")
	}
}
