package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-5

func assertVec3Near(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...any) bool {
	t.Helper()
	return assert.InDeltaSlice(t, want[:], got[:], tolerance, msgAndArgs...)
}

func assertMat4Near(t *testing.T, want, got mgl32.Mat4, msgAndArgs ...any) bool {
	t.Helper()
	return assert.InDeltaSlice(t, want[:], got[:], tolerance, msgAndArgs...)
}
