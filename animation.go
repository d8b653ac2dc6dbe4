package geode

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// NodeTween animates a node's local transform as translation, rotation
// (angle about a fixed axis), and uniform scale channels. Create one via
// the convenience constructors (TweenTranslation, TweenRotation,
// TweenScale) and call Update(dt) each frame; the tween composes the
// channels into a TRS matrix and assigns it through SetLocalTransform, so
// the node's dirty marking and instancing derivation run on every changed
// frame.
//
// There is no global animation manager; callers drive Update themselves.
type NodeTween struct {
	node *TransformNode

	translation [3]*gween.Tween
	angle       *gween.Tween
	scale       *gween.Tween

	curTranslation mgl64.Vec3
	axis           mgl64.Vec3
	curAngle       float64
	curScale       float64

	Done bool
}

// newNodeTween seeds the channel state from the node's current local
// transform so inactive channels hold their values.
func newNodeTween(n *TransformNode) *NodeTween {
	if n == nil {
		panic("geode: cannot tween a nil node")
	}
	local := n.LocalTransform()
	return &NodeTween{
		node:           n,
		curTranslation: local.Col(3).Vec3(),
		axis:           mgl64.Vec3{0, 0, 1},
		curScale:       1,
	}
}

// TweenTranslation animates the node's local translation between the given
// vectors over duration seconds.
func TweenTranslation(n *TransformNode, from, to mgl64.Vec3, duration float32, easing ease.TweenFunc) *NodeTween {
	t := newNodeTween(n)
	t.curTranslation = from
	for i := 0; i < 3; i++ {
		t.translation[i] = gween.New(float32(from[i]), float32(to[i]), duration, easing)
	}
	return t
}

// TweenRotation animates the node's local rotation about axis from one
// angle to another, in radians, over duration seconds.
func TweenRotation(n *TransformNode, axis mgl64.Vec3, fromAngle, toAngle float64, duration float32, easing ease.TweenFunc) *NodeTween {
	t := newNodeTween(n)
	t.axis = axis.Normalize()
	t.curAngle = fromAngle
	t.angle = gween.New(float32(fromAngle), float32(toAngle), duration, easing)
	return t
}

// TweenScale animates the node's uniform local scale between the given
// factors over duration seconds.
func TweenScale(n *TransformNode, from, to float64, duration float32, easing ease.TweenFunc) *NodeTween {
	t := newNodeTween(n)
	t.curScale = from
	t.scale = gween.New(float32(from), float32(to), duration, easing)
	return t
}

// Update advances all active channels by dt seconds and writes the composed
// transform to the node. Assigning an unchanged matrix is absorbed by
// SetLocalTransform's no-op path.
func (t *NodeTween) Update(dt float32) {
	if t.Done {
		return
	}

	allDone := true
	for i := 0; i < 3; i++ {
		if t.translation[i] == nil {
			continue
		}
		v, finished := t.translation[i].Update(dt)
		t.curTranslation[i] = float64(v)
		if !finished {
			allDone = false
		}
	}
	if t.angle != nil {
		v, finished := t.angle.Update(dt)
		t.curAngle = float64(v)
		if !finished {
			allDone = false
		}
	}
	if t.scale != nil {
		v, finished := t.scale.Update(dt)
		t.curScale = float64(v)
		if !finished {
			allDone = false
		}
	}
	t.Done = allDone

	rotation := mgl64.QuatRotate(t.curAngle, t.axis)
	t.node.SetLocalTransform(composeTRS(t.curTranslation, rotation, t.curScale))
}
