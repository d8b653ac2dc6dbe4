package geode

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// RenderCommand is a single draw instruction emitted by pipeline stages
// during graph traversal. Positions are world-space; projection to the
// screen happens at submission time using the active camera.
type RenderCommand struct {
	Positions []mgl64.Vec3
	Indices   []uint16
	Color     Color

	// depth is the view-space depth key assigned during submission sorting.
	depth float64
}

// submitBuffers holds reusable vertex/index buffers for one Draw call.
type submitBuffers struct {
	verts []ebiten.Vertex
	inds  []uint16
	cmds  []RenderCommand
}

// submitCommands projects commands through the camera and draws them
// back-to-front onto dst. Triangles with any vertex behind the near plane
// are dropped rather than clipped; geode is not a rasterizer, it hands
// triangles to Ebitengine.
func submitCommands(dst *ebiten.Image, commands []RenderCommand, cam *Camera, buf *submitBuffers) (triangles int) {
	if len(commands) == 0 {
		return 0
	}

	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	if w == 0 || h == 0 {
		return 0
	}
	view := cam.ViewMatrix()
	viewProj := cam.ProjectionMatrix(float64(w) / float64(h)).Mul4(view)

	// Painter sort: farthest command first. Depth key is the view-space
	// depth of the command's first vertex; good enough for disjoint models.
	buf.cmds = append(buf.cmds[:0], commands...)
	for i := range buf.cmds {
		p := transformPoint(view, buf.cmds[i].Positions[0])
		buf.cmds[i].depth = -p.Z()
	}
	sort.SliceStable(buf.cmds, func(i, j int) bool {
		return buf.cmds[i].depth > buf.cmds[j].depth
	})

	for _, cmd := range buf.cmds {
		triangles += submitCommand(dst, cmd, viewProj, w, h, buf)
	}
	return triangles
}

// submitCommand projects one command and issues a DrawTriangles call.
func submitCommand(dst *ebiten.Image, cmd RenderCommand, viewProj mgl64.Mat4, w, h int, buf *submitBuffers) (triangles int) {
	buf.verts = buf.verts[:0]
	buf.inds = buf.inds[:0]

	// Vertices behind the camera are flagged so dependent triangles can be
	// dropped below.
	clipped := make([]bool, len(cmd.Positions))
	r := float32(cmd.Color.R * cmd.Color.A)
	g := float32(cmd.Color.G * cmd.Color.A)
	b := float32(cmd.Color.B * cmd.Color.A)
	a := float32(cmd.Color.A)
	for i, p := range cmd.Positions {
		clip := viewProj.Mul4x1(p.Vec4(1))
		if clip.W() <= 0 {
			clipped[i] = true
			buf.verts = append(buf.verts, ebiten.Vertex{})
			continue
		}
		inv := 1 / clip.W()
		sx := (clip.X()*inv + 1) * 0.5 * float64(w)
		sy := (1 - clip.Y()*inv) * 0.5 * float64(h)
		buf.verts = append(buf.verts, ebiten.Vertex{
			DstX:   float32(sx),
			DstY:   float32(sy),
			SrcX:   0.5,
			SrcY:   0.5,
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: a,
		})
	}

	for i := 0; i+2 < len(cmd.Indices); i += 3 {
		i0, i1, i2 := cmd.Indices[i], cmd.Indices[i+1], cmd.Indices[i+2]
		if clipped[i0] || clipped[i1] || clipped[i2] {
			continue
		}
		buf.inds = append(buf.inds, i0, i1, i2)
		triangles++
	}
	if len(buf.inds) == 0 {
		return 0
	}

	dst.DrawTriangles(buf.verts, buf.inds, WhitePixel, &ebiten.DrawTrianglesOptions{
		AntiAlias: false,
	})
	return triangles
}
