package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Triangle indexes three vertices of the owning object's mesh.
type Triangle [3]uint32

// SceneObject is one named mesh in the scene together with its local
// transform and the world matrix resolved for the current frame.
type SceneObject struct {
	Name       string
	ParentName string // empty for root objects

	Transform

	// Origin is the load-time model position. Centroid is the mean vertex
	// position offset by Origin; both are fixed after load.
	Origin   mgl32.Vec3
	Centroid mgl32.Vec3

	Vertices  []mgl32.Vec3
	Normals   []mgl32.Vec3 // optional, one per vertex
	UVs       []mgl32.Vec2 // optional, one per vertex
	Triangles []Triangle
	Material  Material

	World mgl32.Mat4

	rest Transform // set by NewScene
}

// NewSceneObject creates a parentless object whose centroid is computed
// from vertices and the initial position.
func NewSceneObject(name string, vertices []mgl32.Vec3, triangles []Triangle, position mgl32.Vec3) *SceneObject {
	obj := &SceneObject{
		Name:      name,
		Transform: NewTransform(),
		Origin:    position,
		Centroid:  ComputeCentroid(vertices, position),
		Vertices:  vertices,
		Triangles: triangles,
		Material:  DefaultMaterial(),
		World:     mgl32.Ident4(),
	}
	obj.Position = position
	return obj
}

func (o *SceneObject) HasParent() bool {
	return o.ParentName != ""
}

// Pivot is the model-space point the object rotates about.
func (o *SceneObject) Pivot() mgl32.Vec3 {
	return o.Centroid.Sub(o.Origin)
}

// PivotInParent is where the pivot currently sits in the parent's frame.
func (o *SceneObject) PivotInParent() mgl32.Vec3 {
	return o.Position.Add(o.Pivot())
}

// LocalMatrix composes the object's transform about its centroid.
func (o *SceneObject) LocalMatrix() mgl32.Mat4 {
	return o.Transform.LocalMatrix(o.Pivot())
}

// WorldPoint maps a model-space point through the resolved world matrix.
func (o *SceneObject) WorldPoint(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, o.World)
}

// WorldCentroid is the object's pivot in world space for the current frame.
func (o *SceneObject) WorldCentroid() mgl32.Vec3 {
	return o.WorldPoint(o.Pivot())
}

// ResetTransform restores the placement the object had when its scene was
// built. Objects outside a scene go back to Origin with no rotation or
// scale.
func (o *SceneObject) ResetTransform() {
	if o.rest.Rotation == (mgl32.Mat4{}) {
		o.Transform = NewTransform()
		o.Position = o.Origin
		return
	}
	o.Transform = o.rest
}
