package geode

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// flyAnim holds active fly-to tweens for the camera position and target.
type flyAnim struct {
	pos    [3]*gween.Tween
	target [3]*gween.Tween
	done   bool
}

// Camera is a perspective camera in geode's Z-up world.
type Camera struct {
	// Position is the camera's world-space location.
	Position mgl64.Vec3
	// Target is the world-space point the camera looks at.
	Target mgl64.Vec3
	// Up is the camera's up direction.
	Up mgl64.Vec3
	// FOV is the vertical field of view in radians.
	FOV float64
	// Near and Far bound the visible depth range.
	Near, Far float64

	fly *flyAnim
}

// NewCamera creates a camera looking at the origin from (10, 10, 10) with a
// 60 degree field of view.
func NewCamera() *Camera {
	return &Camera{
		Position: mgl64.Vec3{10, 10, 10},
		Target:   mgl64.Vec3{0, 0, 0},
		Up:       mgl64.Vec3{0, 0, 1},
		FOV:      60 * math.Pi / 180,
		Near:     0.1,
		Far:      10000,
	}
}

// ViewMatrix returns the world-to-view transform.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// ProjectionMatrix returns the perspective projection for the given
// viewport aspect ratio (width / height).
func (c *Camera) ProjectionMatrix(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// FlyTo animates the camera position and target to the given values over
// duration seconds. A fly-to already in progress is replaced.
func (c *Camera) FlyTo(position, target mgl64.Vec3, duration float32) {
	fly := &flyAnim{}
	for i := 0; i < 3; i++ {
		fly.pos[i] = gween.New(float32(c.Position[i]), float32(position[i]), duration, ease.InOutQuad)
		fly.target[i] = gween.New(float32(c.Target[i]), float32(target[i]), duration, ease.InOutQuad)
	}
	c.fly = fly
}

// Flying reports whether a fly-to animation is in progress.
func (c *Camera) Flying() bool {
	return c.fly != nil && !c.fly.done
}

// Update advances the fly-to animation by dt seconds. No-op when no
// animation is active.
func (c *Camera) Update(dt float64) {
	fly := c.fly
	if fly == nil || fly.done {
		return
	}
	allDone := true
	for i := 0; i < 3; i++ {
		pv, pDone := fly.pos[i].Update(float32(dt))
		tv, tDone := fly.target[i].Update(float32(dt))
		c.Position[i] = float64(pv)
		c.Target[i] = float64(tv)
		if !pDone || !tDone {
			allDone = false
		}
	}
	fly.done = allDone
}
