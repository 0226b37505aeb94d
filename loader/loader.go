// Package loader turns scene descriptions into validated core scenes.
//
// Two formats are understood: the JSON triangle-soup records used by the
// viewer ("*.json") and glTF 2.0 ("*.gltf", "*.glb"). Loading fails on the
// first malformed record; nothing is silently defaulted except fields that
// are documented as optional.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gekko3d/pivot/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// MaterialRecord mirrors the "material" object of a scene record.
type MaterialRecord struct {
	Ambient   []float32 `json:"ambient"`
	Diffuse   []float32 `json:"diffuse"`
	Specular  []float32 `json:"specular"`
	Shininess *float32  `json:"n"`
	Alpha     *float32  `json:"alpha"`
	Texture   string    `json:"texture,omitempty"`
}

// ModelRecord is the optional initial placement of an object.
type ModelRecord struct {
	Position []float32 `json:"position,omitempty"`
	Scale    []float32 `json:"scale,omitempty"`
}

// Record is one object of a JSON scene description. A hierarchy can be
// given from either end: a child names its Parent, or a parent lists its
// Children. Both may be present as long as they agree.
type Record struct {
	Name      string          `json:"name"`
	Parent    string          `json:"parent,omitempty"`
	Children  []string        `json:"children,omitempty"`
	Vertices  [][]float32     `json:"vertices"`
	Normals   [][]float32     `json:"normals,omitempty"`
	UVs       [][]float32     `json:"uvs,omitempty"`
	Triangles [][]int64       `json:"triangles"`
	Material  *MaterialRecord `json:"material"`
	Model     *ModelRecord    `json:"model,omitempty"`
}

// LoadFile reads a scene file, picking the format from its extension.
func LoadFile(path string) (*core.Scene, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return LoadGLTF(path)
	case ".json", "":
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open scene %s", path)
		}
		defer f.Close()
		return Load(f, path)
	default:
		return nil, &core.SceneLoadError{Path: path, Record: -1, Reason: "unsupported scene format " + filepath.Ext(path)}
	}
}

// Load decodes JSON records from r and builds the scene. path is only used
// in error messages.
func Load(r io.Reader, path string) (*core.Scene, error) {
	objects, err := Decode(r, path)
	if err != nil {
		return nil, err
	}
	scene, err := core.NewScene(objects)
	if err != nil {
		return nil, errors.Wrapf(err, "build scene %s", path)
	}
	return scene, nil
}

// LoadBytes is Load over an in-memory document.
func LoadBytes(data []byte, path string) (*core.Scene, error) {
	return Load(bytes.NewReader(data), path)
}

// Decode parses and validates records without linking parents.
func Decode(r io.Reader, path string) ([]*core.SceneObject, error) {
	var records []Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, &core.SceneLoadError{Path: path, Record: -1, Reason: "malformed JSON", Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after the record array")
		}
		return nil, &core.SceneLoadError{Path: path, Record: -1, Reason: "malformed JSON", Err: err}
	}
	if len(records) == 0 {
		return nil, &core.SceneLoadError{Path: path, Record: -1, Reason: "scene has no objects"}
	}

	objects := make([]*core.SceneObject, 0, len(records))
	for i := range records {
		obj, err := records[i].toObject()
		if err != nil {
			err.Path = path
			err.Record = i
			return nil, err
		}
		objects = append(objects, obj)
	}
	if err := linkChildren(records, objects); err != nil {
		err.Path = path
		return nil, err
	}
	return objects, nil
}

// linkChildren turns each record's children list into parent links on the
// listed objects.
func linkChildren(records []Record, objects []*core.SceneObject) *core.SceneLoadError {
	index := make(map[string]int, len(objects))
	for i, obj := range objects {
		if _, dup := index[obj.Name]; !dup {
			index[obj.Name] = i
		}
	}
	for i := range records {
		rec := &records[i]
		for _, name := range rec.Children {
			j, ok := index[name]
			if !ok {
				err := rec.fail("children", fmt.Sprintf("unknown object %q", name))
				err.Record = i
				return err
			}
			child := objects[j]
			if child.ParentName != "" && child.ParentName != rec.Name {
				err := rec.fail("children", fmt.Sprintf("%q already has parent %q", name, child.ParentName))
				err.Record = i
				return err
			}
			child.ParentName = rec.Name
		}
	}
	return nil
}

func (rec *Record) fail(field, reason string) *core.SceneLoadError {
	return &core.SceneLoadError{Name: rec.Name, Field: field, Reason: reason}
}

func (rec *Record) toObject() (*core.SceneObject, *core.SceneLoadError) {
	if rec.Name == "" {
		return nil, rec.fail("name", "missing")
	}
	if len(rec.Vertices) == 0 {
		return nil, rec.fail("vertices", "missing or empty")
	}
	vertices, err := vec3List(rec.Vertices)
	if err != "" {
		return nil, rec.fail("vertices", err)
	}
	if len(rec.Triangles) == 0 {
		return nil, rec.fail("triangles", "missing or empty")
	}
	triangles, err := triangleList(rec.Triangles, len(vertices))
	if err != "" {
		return nil, rec.fail("triangles", err)
	}
	if rec.Material == nil {
		return nil, rec.fail("material", "missing")
	}
	material, field, err := rec.Material.toMaterial()
	if err != "" {
		return nil, rec.fail("material."+field, err)
	}

	position := mgl32.Vec3{}
	scale := mgl32.Vec3{1, 1, 1}
	if rec.Model != nil {
		if rec.Model.Position != nil {
			if position, err = vec3(rec.Model.Position); err != "" {
				return nil, rec.fail("model.position", err)
			}
		}
		if rec.Model.Scale != nil {
			if scale, err = vec3(rec.Model.Scale); err != "" {
				return nil, rec.fail("model.scale", err)
			}
			if scale.X() <= 0 || scale.Y() <= 0 || scale.Z() <= 0 {
				return nil, rec.fail("model.scale", "components must be positive")
			}
		}
	}

	obj := core.NewSceneObject(rec.Name, vertices, triangles, position)
	obj.ParentName = rec.Parent
	obj.Scale = scale
	obj.Material = material

	if rec.Normals != nil {
		normals, err := vec3List(rec.Normals)
		if err != "" {
			return nil, rec.fail("normals", err)
		}
		if len(normals) != len(vertices) {
			return nil, rec.fail("normals", "count does not match vertices")
		}
		obj.Normals = normals
	}
	if rec.UVs != nil {
		if len(rec.UVs) != len(vertices) {
			return nil, rec.fail("uvs", "count does not match vertices")
		}
		obj.UVs = make([]mgl32.Vec2, len(rec.UVs))
		for i, uv := range rec.UVs {
			if len(uv) != 2 {
				return nil, rec.fail("uvs", "expected 2 components")
			}
			obj.UVs[i] = mgl32.Vec2{uv[0], uv[1]}
		}
	}
	return obj, nil
}

func (m *MaterialRecord) toMaterial() (core.Material, string, string) {
	var mat core.Material
	var err string
	if mat.Ambient, err = color(m.Ambient); err != "" {
		return mat, "ambient", err
	}
	if mat.Diffuse, err = color(m.Diffuse); err != "" {
		return mat, "diffuse", err
	}
	if mat.Specular, err = color(m.Specular); err != "" {
		return mat, "specular", err
	}
	if m.Shininess == nil {
		return mat, "n", "missing"
	}
	if *m.Shininess < 0 {
		return mat, "n", "must not be negative"
	}
	if m.Alpha == nil {
		return mat, "alpha", "missing"
	}
	if *m.Alpha < 0 || *m.Alpha > 1 {
		return mat, "alpha", "must be within [0, 1]"
	}
	mat.Shininess = *m.Shininess
	mat.Alpha = *m.Alpha
	mat.Texture = m.Texture
	return mat, "", ""
}

func vec3(v []float32) (mgl32.Vec3, string) {
	if len(v) != 3 {
		return mgl32.Vec3{}, "expected 3 components"
	}
	return mgl32.Vec3{v[0], v[1], v[2]}, ""
}

func color(v []float32) (mgl32.Vec3, string) {
	if v == nil {
		return mgl32.Vec3{}, "missing"
	}
	c, err := vec3(v)
	if err != "" {
		return c, err
	}
	for _, x := range c {
		if x < 0 || x > 1 {
			return c, "components must be within [0, 1]"
		}
	}
	return c, ""
}

func vec3List(list [][]float32) ([]mgl32.Vec3, string) {
	res := make([]mgl32.Vec3, len(list))
	for i, v := range list {
		var err string
		if res[i], err = vec3(v); err != "" {
			return nil, err
		}
	}
	return res, ""
}

func triangleList(list [][]int64, vertexCount int) ([]core.Triangle, string) {
	res := make([]core.Triangle, len(list))
	for i, tri := range list {
		if len(tri) != 3 {
			return nil, "expected 3 indices per triangle"
		}
		for j, idx := range tri {
			if idx < 0 || idx >= int64(vertexCount) {
				return nil, "index out of range"
			}
			res[i][j] = uint32(idx)
		}
	}
	return res, ""
}
