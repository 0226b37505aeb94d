package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Material carries the per-object lighting coefficients. The core never
// interprets them; they are handed to the renderer untouched.
type Material struct {
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32
	Alpha     float32
	Texture   string // optional texture reference, relative to the scene file
}

// Helper for default white
func DefaultMaterial() Material {
	return Material{
		Ambient:   mgl32.Vec3{0.1, 0.1, 0.1},
		Diffuse:   mgl32.Vec3{1, 1, 1},
		Specular:  mgl32.Vec3{0.3, 0.3, 0.3},
		Shininess: 11,
		Alpha:     1,
	}
}

// Color returns the diffuse colour with alpha, as uploaded to shaders.
func (m Material) Color() mgl32.Vec4 {
	return m.Diffuse.Vec4(m.Alpha)
}

func (m Material) HasTexture() bool {
	return m.Texture != ""
}
