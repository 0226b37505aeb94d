package pivot

import (
	"testing"

	"github.com/gekko3d/pivot/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-5

func assertVec3Near(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], tolerance, msgAndArgs...)
}

func assertMat4Near(t *testing.T, want, got mgl32.Mat4, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], tolerance, msgAndArgs...)
}

func square() ([]mgl32.Vec3, []core.Triangle) {
	return []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
		[]core.Triangle{{0, 1, 2}, {2, 1, 3}}
}

// armScene is a square "arm" with a "finger" triangle attached to it and an
// unrelated "floor" square.
func armScene(t *testing.T) *core.Scene {
	t.Helper()
	v, tri := square()
	arm := core.NewSceneObject("arm", v, tri, mgl32.Vec3{})

	finger := core.NewSceneObject("finger", []mgl32.Vec3{{1, 0, 0}, {2, 0, 0}, {1, 1, 0}}, []core.Triangle{{0, 1, 2}}, mgl32.Vec3{})
	finger.ParentName = "arm"

	v, tri = square()
	floor := core.NewSceneObject("floor", v, tri, mgl32.Vec3{0, -2, 0})
	floor.Material.Diffuse = mgl32.Vec3{0.2, 0.2, 0.2}

	scene, err := core.NewScene([]*core.SceneObject{arm, finger, floor})
	require.NoError(t, err)
	return scene
}

func object(t *testing.T, scene *core.Scene, name string) *core.SceneObject {
	t.Helper()
	obj, ok := scene.Object(name)
	require.True(t, ok, "object %s", name)
	return obj
}
