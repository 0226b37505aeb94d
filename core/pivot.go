package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RotateAboutPivot spins obj in place about its own centroid. The rotation
// is composed onto the existing one so repeated calls accumulate. axis is
// expressed in the parent's frame.
func RotateAboutPivot(obj *SceneObject, angle float32, axis mgl32.Vec3) {
	obj.Rotation = RotationAbout(angle, axis).Mul4(obj.Rotation)
}

// RotateAboutPoint rotates obj about an arbitrary point of its parent's
// frame and bakes the result into Position and Rotation.
//
// With L = T(p) T(k) R S T(-k) and Q = T(q) Rθ T(-q):
//
//	Q L = T(q + Rθ(p+k-q) - k) T(k) (Rθ R) S T(-k)
//
// so the new local matrix keeps the same pivot k.
func RotateAboutPoint(obj *SceneObject, angle float32, axis mgl32.Vec3, point mgl32.Vec3) {
	rot := RotationAbout(angle, axis)
	k := obj.Pivot()
	arm := obj.Position.Add(k).Sub(point)
	obj.Position = point.Add(rot.Mul4x1(arm.Vec4(0)).Vec3()).Sub(k)
	obj.Rotation = rot.Mul4(obj.Rotation)
}

// RotateHierarchy rotates parent about its own centroid and carries the
// given attached objects rigidly with it. The attached objects must share
// parent's frame (they are not linked through ParentName); their new
// placement is baked in immediately rather than resolved per frame.
func RotateHierarchy(parent *SceneObject, attached []*SceneObject, angle float32, axis mgl32.Vec3) {
	point := parent.PivotInParent()
	RotateAboutPivot(parent, angle, axis)
	for _, child := range attached {
		RotateAboutPoint(child, angle, axis, point)
	}
}
