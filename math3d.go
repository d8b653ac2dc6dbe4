package geode

import "github.com/go-gl/mathgl/mgl64"

// identityMat4 is the 4x4 identity matrix.
var identityMat4 = mgl64.Ident4()

// yUpToZUp converts glTF's Y-up asset convention to geode's Z-up world:
// (x, y, z) -> (x, -z, y). Column-major, matching mgl64 storage.
var yUpToZUp = mgl64.Mat4{
	1, 0, 0, 0,
	0, 0, 1, 0,
	0, -1, 0, 0,
	0, 0, 0, 1,
}

// axisCorrect applies the Y-up to Z-up correction to a world transform.
// Instanced geometry is authored Y-up, so its accumulated transform is
// corrected once here rather than per instance.
func axisCorrect(m mgl64.Mat4) mgl64.Mat4 {
	return yUpToZUp.Mul4(m)
}

// composeTRS builds a local transform from translation, rotation, and a
// uniform scale, applied in scale-rotate-translate order.
func composeTRS(translation mgl64.Vec3, rotation mgl64.Quat, scale float64) mgl64.Mat4 {
	return mgl64.Translate3D(translation.X(), translation.Y(), translation.Z()).
		Mul4(rotation.Mat4()).
		Mul4(mgl64.Scale3D(scale, scale, scale))
}

// transformPoint applies an affine 4x4 transform to a point.
func transformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}
