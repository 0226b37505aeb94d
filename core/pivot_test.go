package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offsetCube(offset mgl32.Vec3) []mgl32.Vec3 {
	verts := unitCube()
	for i := range verts {
		verts[i] = verts[i].Add(offset)
	}
	return verts
}

func TestRotateAboutPivot_Accumulates(t *testing.T) {
	axis := mgl32.Vec3{0.3, 1, -0.2}
	theta := mgl32.DegToRad(7.5)
	const n = 12

	stepped := NewSceneObject("stepped", offsetCube(mgl32.Vec3{2, 1, 0}), nil, mgl32.Vec3{})
	for i := 0; i < n; i++ {
		RotateAboutPivot(stepped, theta, axis)
	}
	once := NewSceneObject("once", offsetCube(mgl32.Vec3{2, 1, 0}), nil, mgl32.Vec3{})
	RotateAboutPivot(once, n*theta, axis)

	assertMat4Near(t, once.Rotation, stepped.Rotation)
	assertMat4Near(t, once.LocalMatrix(), stepped.LocalMatrix())
}

func TestRotateAboutPivot_CentroidStaysPut(t *testing.T) {
	obj := NewSceneObject("box", offsetCube(mgl32.Vec3{4, -2, 1}), nil, mgl32.Vec3{1, 0, 0})
	before := obj.LocalMatrix()
	want := mgl32.TransformCoordinate(obj.Pivot(), before)

	for i := 0; i < 5; i++ {
		RotateAboutPivot(obj, 0.4, mgl32.Vec3{1, 1, 0})
	}
	got := mgl32.TransformCoordinate(obj.Pivot(), obj.LocalMatrix())

	assertVec3Near(t, want, got)
	assertVec3Near(t, obj.Centroid, got, "pivot should sit on the cached centroid")
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, obj.Position)
}

func TestRotateAboutPoint_MatchesPivotedProduct(t *testing.T) {
	obj := NewSceneObject("box", offsetCube(mgl32.Vec3{1, 2, 3}), nil, mgl32.Vec3{0.5, 0, 0})
	RotateAboutPivot(obj, 0.2, mgl32.Vec3{0, 0, 1})
	obj.Scale = mgl32.Vec3{2, 1, 1}
	before := obj.LocalMatrix()

	point := mgl32.Vec3{-1, 0.5, 2}
	angle := mgl32.DegToRad(40)
	axis := mgl32.Vec3{0, 1, 0}
	RotateAboutPoint(obj, angle, axis, point)

	q := mgl32.Translate3D(point.X(), point.Y(), point.Z()).
		Mul4(RotationAbout(angle, axis)).
		Mul4(mgl32.Translate3D(-point.X(), -point.Y(), -point.Z()))
	assertMat4Near(t, q.Mul4(before), obj.LocalMatrix())
}

func TestRotateAboutPoint_OwnCentroidKeepsPosition(t *testing.T) {
	obj := NewSceneObject("box", offsetCube(mgl32.Vec3{1, 0, 0}), nil, mgl32.Vec3{2, 2, 2})
	RotateAboutPoint(obj, 1.1, mgl32.Vec3{0, 0, 1}, obj.PivotInParent())

	assertVec3Near(t, mgl32.Vec3{2, 2, 2}, obj.Position)
}

// armScene builds an arm whose world matrix starts at identity and one
// finger hanging off it. linked decides whether the finger follows the arm
// through ParentName or has to be carried explicitly.
func armScene(t *testing.T, linked bool) (arm, finger *SceneObject, scene *Scene) {
	t.Helper()
	arm = NewSceneObject("arm", offsetCube(mgl32.Vec3{0, 2, 0}), nil, mgl32.Vec3{})
	finger = NewSceneObject("finger0", offsetCube(mgl32.Vec3{1.5, 3, 0}), nil, mgl32.Vec3{})
	RotateAboutPivot(finger, 0.25, mgl32.Vec3{1, 0, 0})
	if linked {
		finger.ParentName = "arm"
	}
	scene, err := NewScene([]*SceneObject{arm, finger})
	require.NoError(t, err)
	return arm, finger, scene
}

func TestRotateHierarchy_MatchesParentComposition(t *testing.T) {
	theta := mgl32.DegToRad(35)
	axis := mgl32.Vec3{0, 0, 1}

	lazyArm, lazyFinger, lazy := armScene(t, true)
	RotateAboutPivot(lazyArm, theta, axis)
	require.NoError(t, lazy.Resolve())

	bakedArm, bakedFinger, baked := armScene(t, false)
	RotateHierarchy(bakedArm, []*SceneObject{bakedFinger}, theta, axis)
	require.NoError(t, baked.Resolve())

	assertMat4Near(t, lazyArm.World, bakedArm.World)
	assertMat4Near(t, lazyFinger.World, bakedFinger.World)
	assertVec3Near(t, lazyFinger.WorldCentroid(), bakedFinger.WorldCentroid())
}

func TestRotateHierarchy_RepeatedEqualsSingle(t *testing.T) {
	theta := mgl32.DegToRad(9)
	axis := mgl32.Vec3{0, 0, 1}
	const n = 10

	stepArm, stepFinger, stepScene := armScene(t, false)
	for i := 0; i < n; i++ {
		RotateHierarchy(stepArm, []*SceneObject{stepFinger}, theta, axis)
	}
	require.NoError(t, stepScene.Resolve())

	onceArm, onceFinger, onceScene := armScene(t, false)
	RotateHierarchy(onceArm, []*SceneObject{onceFinger}, n*theta, axis)
	require.NoError(t, onceScene.Resolve())

	assertMat4Near(t, onceArm.World, stepArm.World)
	assertMat4Near(t, onceFinger.World, stepFinger.World)
}

func TestRotationAbout_ZeroAxis(t *testing.T) {
	assert.Equal(t, mgl32.Ident4(), RotationAbout(1, mgl32.Vec3{}))
}

func TestTransform_InverseLocalMatrix(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.Scale = mgl32.Vec3{2, 2, 2}
	tr.Rotation = RotationAbout(0.8, mgl32.Vec3{1, 2, 3})
	pivot := mgl32.Vec3{1, -1, 0.5}

	identity := tr.LocalMatrix(pivot).Mul4(tr.InverseLocalMatrix(pivot))
	assertMat4Near(t, mgl32.Ident4(), identity)
}
