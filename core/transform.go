package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is the local placement of an object relative to its parent.
// Rotation is a full 4x4 so that rotations compose by multiplication over
// the lifetime of the object.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Mat4
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.Ident4(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// LocalMatrix builds T(position) * T(pivot) * R * S * T(-pivot).
// The object rotates and scales about pivot (model space) while position
// still moves the pivot itself.
func (t Transform) LocalMatrix(pivot mgl32.Vec3) mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	m = m.Mul4(mgl32.Translate3D(pivot.X(), pivot.Y(), pivot.Z()))
	m = m.Mul4(t.Rotation)
	m = m.Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
	return m.Mul4(mgl32.Translate3D(-pivot.X(), -pivot.Y(), -pivot.Z()))
}

// InverseLocalMatrix is the inverse of LocalMatrix built from the inverse
// components. Rotation is assumed orthonormal.
func (t Transform) InverseLocalMatrix(pivot mgl32.Vec3) mgl32.Mat4 {
	m := mgl32.Translate3D(pivot.X(), pivot.Y(), pivot.Z())
	m = m.Mul4(mgl32.Scale3D(1.0/t.Scale.X(), 1.0/t.Scale.Y(), 1.0/t.Scale.Z()))
	m = m.Mul4(t.Rotation.Transpose())
	m = m.Mul4(mgl32.Translate3D(-pivot.X(), -pivot.Y(), -pivot.Z()))
	return m.Mul4(mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z()))
}

// RotationAbout returns the rotation by angle (radians) about axis.
// A zero axis yields the identity.
func RotationAbout(angle float32, axis mgl32.Vec3) mgl32.Mat4 {
	if axis.Len() == 0 {
		return mgl32.Ident4()
	}
	return mgl32.HomogRotate3D(angle, axis.Normalize())
}
