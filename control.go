package geode

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// elevation stays shy of the poles so the look direction never becomes
// parallel to the camera up vector.
const maxElevation = math.Pi/2 - 0.01

// OrbitControl drives a Camera from mouse input: left-drag orbits around the
// camera target, right-drag or middle-drag pans target and position together,
// and the wheel dollies in and out. Call Update once per frame from the game
// loop; input is ignored while a FlyTo animation is running.
type OrbitControl struct {
	// RotateSpeed is the orbit rate in radians per pixel of drag.
	RotateSpeed float64
	// PanSpeed scales pan distance relative to the camera's distance from
	// its target.
	PanSpeed float64
	// ZoomSpeed is the fraction of the target distance covered per wheel
	// step.
	ZoomSpeed float64
	// MinDistance and MaxDistance clamp the dolly range.
	MinDistance, MaxDistance float64

	camera *Camera

	// pointer state, mirrored from the previous frame
	down         bool
	button       ebiten.MouseButton
	lastX, lastY int
}

// NewOrbitControl creates an orbit control with default speeds. Panics if
// camera is nil.
func NewOrbitControl(camera *Camera) *OrbitControl {
	if camera == nil {
		panic("geode: cannot create an orbit control with a nil camera")
	}
	return &OrbitControl{
		RotateSpeed: 0.005,
		PanSpeed:    0.002,
		ZoomSpeed:   0.1,
		MinDistance: 0.5,
		MaxDistance: 5000,
		camera:      camera,
	}
}

// Update reads the mouse and applies any orbit, pan, or dolly movement to
// the camera.
func (o *OrbitControl) Update() {
	if o.camera.Flying() {
		o.down = false
		return
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		o.Dolly(wy)
	}

	x, y := ebiten.CursorPosition()
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	pressed := left || right || middle

	switch {
	case pressed && !o.down:
		// Capture the button at press time so the gesture cannot change
		// mid-drag.
		o.down = true
		switch {
		case left:
			o.button = ebiten.MouseButtonLeft
		case right:
			o.button = ebiten.MouseButtonRight
		default:
			o.button = ebiten.MouseButtonMiddle
		}
	case pressed && o.down:
		dx := float64(x - o.lastX)
		dy := float64(y - o.lastY)
		if dx != 0 || dy != 0 {
			if o.button == ebiten.MouseButtonLeft {
				o.Orbit(dx, dy)
			} else {
				o.Pan(dx, dy)
			}
		}
	case !pressed:
		o.down = false
	}
	o.lastX, o.lastY = x, y
}

// Orbit rotates the camera position around its target. dx moves the azimuth,
// dy the elevation; both are in pixels of drag.
func (o *OrbitControl) Orbit(dx, dy float64) {
	offset := o.camera.Position.Sub(o.camera.Target)
	radius := offset.Len()
	if radius == 0 {
		return
	}
	azimuth := math.Atan2(offset.Y(), offset.X())
	elevation := math.Asin(clampF(offset.Z()/radius, -1, 1))

	azimuth -= dx * o.RotateSpeed
	elevation = clampF(elevation+dy*o.RotateSpeed, -maxElevation, maxElevation)

	cosE := math.Cos(elevation)
	o.camera.Position = o.camera.Target.Add(mgl64.Vec3{
		radius * cosE * math.Cos(azimuth),
		radius * cosE * math.Sin(azimuth),
		radius * math.Sin(elevation),
	})
}

// Pan slides the camera position and target together along the view plane.
func (o *OrbitControl) Pan(dx, dy float64) {
	forward := o.camera.Target.Sub(o.camera.Position)
	dist := forward.Len()
	if dist == 0 {
		return
	}
	forward = forward.Mul(1 / dist)
	right := forward.Cross(o.camera.Up)
	if right.Len() == 0 {
		return
	}
	right = right.Normalize()
	up := right.Cross(forward)

	move := right.Mul(-dx * o.PanSpeed * dist).Add(up.Mul(dy * o.PanSpeed * dist))
	o.camera.Position = o.camera.Position.Add(move)
	o.camera.Target = o.camera.Target.Add(move)
}

// Dolly moves the camera toward (positive steps) or away from its target,
// clamped to [MinDistance, MaxDistance].
func (o *OrbitControl) Dolly(steps float64) {
	offset := o.camera.Position.Sub(o.camera.Target)
	dist := offset.Len()
	if dist == 0 {
		return
	}
	scale := math.Pow(1-o.ZoomSpeed, steps)
	next := clampF(dist*scale, o.MinDistance, o.MaxDistance)
	o.camera.Position = o.camera.Target.Add(offset.Mul(next / dist))
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
