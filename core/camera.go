package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a look-at camera. Input handlers mutate it directly.
type Camera struct {
	Position mgl32.Vec3
	Center   mgl32.Vec3
	Up       mgl32.Vec3

	FovY float32 // degrees
	Near float32
	Far  float32
}

func NewCamera() *Camera {
	return &Camera{
		Position: mgl32.Vec3{0.5, 0.5, -0.5},
		Center:   mgl32.Vec3{0.5, 0.5, 0},
		Up:       mgl32.Vec3{0, 1, 0},
		FovY:     90,
		Near:     0.1,
		Far:      100,
	}
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Center, c.Up)
}

func (c *Camera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// Basis returns the normalized forward, right and up vectors of the view.
func (c *Camera) Basis() (forward, right, up mgl32.Vec3) {
	forward = c.Center.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

// Translate moves both eye and center along the view basis.
func (c *Camera) Translate(right, up, forward float32) {
	f, r, u := c.Basis()
	delta := r.Mul(right).Add(u.Mul(up)).Add(f.Mul(forward))
	c.Position = c.Position.Add(delta)
	c.Center = c.Center.Add(delta)
}

// Yaw turns the look direction about the view up vector, keeping the
// eye-to-center distance.
func (c *Camera) Yaw(angle float32) {
	_, _, u := c.Basis()
	c.turn(RotationAbout(angle, u))
}

// Pitch turns the look direction about the view right vector. Up follows
// so the basis stays orthogonal.
func (c *Camera) Pitch(angle float32) {
	_, r, _ := c.Basis()
	rot := RotationAbout(angle, r)
	c.turn(rot)
	c.Up = rot.Mul4x1(c.Up.Vec4(0)).Vec3().Normalize()
}

func (c *Camera) turn(rot mgl32.Mat4) {
	look := c.Center.Sub(c.Position)
	c.Center = c.Position.Add(rot.Mul4x1(look.Vec4(0)).Vec3())
}
