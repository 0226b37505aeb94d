package loader

import (
	"fmt"

	"github.com/gekko3d/pivot/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF imports a glTF document. Every node becomes one object parented
// the way the node tree is; a node's extra primitives become children of
// the node's object. Nodes without a mesh become empty group objects.
func LoadGLTF(path string) (*core.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open gltf %s", path)
	}
	objects, err := DecodeGLTF(doc, path)
	if err != nil {
		return nil, err
	}
	scene, err := core.NewScene(objects)
	if err != nil {
		return nil, errors.Wrapf(err, "build scene %s", path)
	}
	return scene, nil
}

// DecodeGLTF converts an already parsed document.
func DecodeGLTF(doc *gltf.Document, path string) ([]*core.SceneObject, error) {
	if len(doc.Nodes) == 0 {
		return nil, &core.SceneLoadError{Path: path, Record: -1, Reason: "gltf document has no nodes"}
	}

	names := make([]string, len(doc.Nodes))
	for i, node := range doc.Nodes {
		names[i] = node.Name
		if names[i] == "" {
			names[i] = fmt.Sprintf("node%d", i)
		}
	}
	parents := make([]string, len(doc.Nodes))
	for i, node := range doc.Nodes {
		for _, c := range node.Children {
			if int(c) >= len(doc.Nodes) {
				return nil, &core.SceneLoadError{Path: path, Record: i, Name: names[i], Field: "children", Reason: "index out of range"}
			}
			parents[c] = names[i]
		}
	}

	var objects []*core.SceneObject
	for i, node := range doc.Nodes {
		var prims []*gltf.Primitive
		if node.Mesh != nil {
			if int(*node.Mesh) >= len(doc.Meshes) {
				return nil, &core.SceneLoadError{Path: path, Record: i, Name: names[i], Field: "mesh", Reason: "index out of range"}
			}
			prims = doc.Meshes[*node.Mesh].Primitives
		}

		var vertices []mgl32.Vec3
		var triangles []core.Triangle
		var material = core.DefaultMaterial()
		if len(prims) > 0 {
			var err error
			if vertices, triangles, material, err = readPrimitive(doc, prims[0]); err != nil {
				return nil, &core.SceneLoadError{Path: path, Record: i, Name: names[i], Field: "mesh", Err: err}
			}
		}

		obj := core.NewSceneObject(names[i], vertices, triangles, mgl32.Vec3(node.Translation))
		obj.ParentName = parents[i]
		obj.Rotation = nodeRotation(node.Rotation)
		obj.Scale = nodeScale(node.Scale)
		obj.Material = material
		objects = append(objects, obj)

		for p := 1; p < len(prims); p++ {
			v, t, m, err := readPrimitive(doc, prims[p])
			if err != nil {
				return nil, &core.SceneLoadError{Path: path, Record: i, Name: names[i], Field: fmt.Sprintf("mesh.primitives[%d]", p), Err: err}
			}
			extra := core.NewSceneObject(fmt.Sprintf("%s#%d", names[i], p), v, t, mgl32.Vec3{})
			extra.ParentName = names[i]
			extra.Material = m
			objects = append(objects, extra)
		}
	}
	return objects, nil
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) ([]mgl32.Vec3, []core.Triangle, core.Material, error) {
	material := core.DefaultMaterial()
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, nil, material, errors.New("only triangle primitives are supported")
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil, material, errors.New("no POSITION attribute")
	}
	if int(posIdx) >= len(doc.Accessors) {
		return nil, nil, material, errors.Errorf("accessor %d out of range", posIdx)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, nil, material, errors.Wrap(err, "read positions")
	}
	vertices := make([]mgl32.Vec3, len(positions))
	for i, p := range positions {
		vertices[i] = mgl32.Vec3(p)
	}

	var indices []uint32
	if prim.Indices != nil {
		if int(*prim.Indices) >= len(doc.Accessors) {
			return nil, nil, material, errors.Errorf("accessor %d out of range", *prim.Indices)
		}
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, nil, material, errors.Wrap(err, "read indices")
		}
	} else {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, nil, material, errors.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	triangles := make([]core.Triangle, len(indices)/3)
	for i := range triangles {
		for j := 0; j < 3; j++ {
			idx := indices[i*3+j]
			if int(idx) >= len(vertices) {
				return nil, nil, material, errors.Errorf("index %d out of range", idx)
			}
			triangles[i][j] = idx
		}
	}

	if prim.Material != nil && int(*prim.Material) < len(doc.Materials) {
		if pbr := doc.Materials[*prim.Material].PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
			c := *pbr.BaseColorFactor
			material.Diffuse = mgl32.Vec3{c[0], c[1], c[2]}
			material.Alpha = c[3]
		}
	}
	return vertices, triangles, material, nil
}

func nodeRotation(r [4]float32) mgl32.Mat4 {
	if r == [4]float32{} {
		return mgl32.Ident4()
	}
	return mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize().Mat4()
}

func nodeScale(s [3]float32) mgl32.Vec3 {
	if s == [3]float32{} {
		return mgl32.Vec3{1, 1, 1}
	}
	return mgl32.Vec3(s)
}
