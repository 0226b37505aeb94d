package loader

import (
	"path/filepath"
	"testing"

	"github.com/gekko3d/pivot/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadDocument() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}, {2, 2, 0}})
	idx := modeler.WriteIndices(doc, []uint32{0, 1, 2, 2, 1, 3})
	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]uint32{gltf.POSITION: pos},
			Material:   gltf.Index(0),
		}},
	}}
	doc.Materials = []*gltf.Material{{
		Name:                 "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float32{1, 0, 0, 0.5}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "base", Mesh: gltf.Index(0), Children: []uint32{1}, Translation: [3]float32{1, 0, 0}},
		{Name: "tip", Mesh: gltf.Index(0), Translation: [3]float32{0, 2, 0}, Scale: [3]float32{0.5, 0.5, 0.5}, Rotation: [4]float32{0, 0, 0, 1}},
	}
	doc.Scenes[0].Nodes = []uint32{0}
	return doc
}

func TestDecodeGLTF(t *testing.T) {
	objects, err := DecodeGLTF(quadDocument(), "quad.glb")
	require.NoError(t, err)
	require.Len(t, objects, 2)

	base, tip := objects[0], objects[1]
	assert.Equal(t, "base", base.Name)
	assert.Equal(t, "", base.ParentName)
	assert.Equal(t, "base", tip.ParentName)
	assert.Len(t, base.Vertices, 4)
	assert.Len(t, base.Triangles, 2)
	assert.Equal(t, mgl32.Vec3{2, 1, 0}, base.Centroid)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, base.Scale)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, tip.Scale)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, base.Material.Diffuse)
	assert.Equal(t, float32(0.5), base.Material.Alpha)
}

func TestLoadGLTF_Binary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.glb")
	require.NoError(t, gltf.SaveBinary(quadDocument(), path))

	scene, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, scene.Len())
	require.NoError(t, scene.Resolve())

	tip, ok := scene.Object("tip")
	require.True(t, ok)
	// tip pivots about its own mesh center (1,1,0) and is scaled by half.
	got := tip.WorldPoint(mgl32.Vec3{1, 1, 0})
	assert.InDeltaSlice(t, []float32{2, 3, 0}, got[:], 1e-5)
}

func TestDecodeGLTF_BadChild(t *testing.T) {
	doc := quadDocument()
	doc.Nodes[0].Children = []uint32{7}
	_, err := DecodeGLTF(doc, "quad.glb")
	assert.Error(t, err)
}

func TestDecodeGLTF_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(doc *gltf.Document)
		field string
	}{
		{"position accessor", func(doc *gltf.Document) {
			doc.Meshes[0].Primitives[0].Attributes = map[string]uint32{gltf.POSITION: 7}
		}, "mesh"},
		{"no accessors", func(doc *gltf.Document) {
			doc.Accessors = nil
		}, "mesh"},
		{"index accessor", func(doc *gltf.Document) {
			doc.Meshes[0].Primitives[0].Indices = gltf.Index(9)
		}, "mesh"},
		{"no position", func(doc *gltf.Document) {
			doc.Meshes[0].Primitives[0].Attributes = map[string]uint32{}
		}, "mesh"},
		{"mesh index", func(doc *gltf.Document) {
			doc.Nodes[1].Mesh = gltf.Index(3)
		}, "mesh"},
		{"extra primitive", func(doc *gltf.Document) {
			doc.Meshes[0].Primitives = append(doc.Meshes[0].Primitives, &gltf.Primitive{
				Attributes: map[string]uint32{gltf.POSITION: 5},
			})
		}, "mesh.primitives[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := quadDocument()
			tt.edit(doc)

			var objects []*core.SceneObject
			var err error
			require.NotPanics(t, func() { objects, err = DecodeGLTF(doc, "quad.glb") })
			assert.Nil(t, objects)

			var loadErr *core.SceneLoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.field, loadErr.Field)
		})
	}
}
