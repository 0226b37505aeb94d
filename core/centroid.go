package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ComputeCentroid returns the arithmetic mean of vertices offset by
// initialPosition. With no vertices the result is initialPosition.
func ComputeCentroid(vertices []mgl32.Vec3, initialPosition mgl32.Vec3) mgl32.Vec3 {
	if len(vertices) == 0 {
		return initialPosition
	}
	// Accumulate in float64; large meshes lose precision otherwise.
	var sx, sy, sz float64
	for _, v := range vertices {
		sx += float64(v.X())
		sy += float64(v.Y())
		sz += float64(v.Z())
	}
	n := float64(len(vertices))
	mean := mgl32.Vec3{float32(sx / n), float32(sy / n), float32(sz / n)}
	return mean.Add(initialPosition)
}
