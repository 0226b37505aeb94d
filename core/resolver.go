package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ResolveWorldMatrix composes obj's local matrix with its parent's world
// matrix and stores the result on obj. The parent's World must already be
// current for this frame; Scene.Resolve guarantees that ordering.
func ResolveWorldMatrix(obj *SceneObject, objects map[string]*SceneObject) (mgl32.Mat4, error) {
	local := obj.LocalMatrix()
	if !obj.HasParent() {
		obj.World = local
		return obj.World, nil
	}
	parent, ok := objects[obj.ParentName]
	if !ok || parent == nil {
		return mgl32.Ident4(), &UnknownParentError{Object: obj.Name, Parent: obj.ParentName}
	}
	obj.World = parent.World.Mul4(local)
	return obj.World, nil
}

// Scene owns a validated set of objects: names are unique, every parent
// exists and parent links are acyclic. Objects are resolved parents first.
type Scene struct {
	objects []*SceneObject // input order
	byName  map[string]*SceneObject
	order   []*SceneObject // parents before children
	frame   uint64
}

// NewScene validates objects and computes the resolution order. The
// relative input order is kept among objects that do not depend on each
// other. Each object's current transform becomes the one ResetTransform
// restores.
func NewScene(objects []*SceneObject) (*Scene, error) {
	s := &Scene{
		objects: objects,
		byName:  make(map[string]*SceneObject, len(objects)),
	}
	for _, obj := range objects {
		if _, dup := s.byName[obj.Name]; dup {
			return nil, &DuplicateNameError{Name: obj.Name}
		}
		s.byName[obj.Name] = obj
		obj.rest = obj.Transform
	}
	for _, obj := range objects {
		if obj.HasParent() {
			if _, ok := s.byName[obj.ParentName]; !ok {
				return nil, &UnknownParentError{Object: obj.Name, Parent: obj.ParentName}
			}
		}
	}

	order, err := s.sortParentsFirst()
	if err != nil {
		return nil, err
	}
	s.order = order
	return s, nil
}

const (
	unvisited = iota
	visiting
	done
)

func (s *Scene) sortParentsFirst() ([]*SceneObject, error) {
	state := make(map[string]int, len(s.objects))
	order := make([]*SceneObject, 0, len(s.objects))

	for _, obj := range s.objects {
		if state[obj.Name] == done {
			continue
		}
		// Walk up to the first finished ancestor, then emit downward.
		var chain []*SceneObject
		cur := obj
		for cur != nil && state[cur.Name] != done {
			if state[cur.Name] == visiting {
				return nil, &CycleError{Path: cyclePath(chain, cur)}
			}
			state[cur.Name] = visiting
			chain = append(chain, cur)
			if !cur.HasParent() {
				break
			}
			cur = s.byName[cur.ParentName]
		}
		for i := len(chain) - 1; i >= 0; i-- {
			state[chain[i].Name] = done
			order = append(order, chain[i])
		}
	}
	return order, nil
}

func cyclePath(chain []*SceneObject, repeated *SceneObject) []string {
	start := 0
	for i, o := range chain {
		if o == repeated {
			start = i
			break
		}
	}
	path := make([]string, 0, len(chain)-start+1)
	for _, o := range chain[start:] {
		path = append(path, o.Name)
	}
	return append(path, repeated.Name)
}

func (s *Scene) Len() int { return len(s.objects) }

// Objects returns the objects in input order.
func (s *Scene) Objects() []*SceneObject { return s.objects }

// Order returns the objects in resolution order.
func (s *Scene) Order() []*SceneObject { return s.order }

func (s *Scene) Object(name string) (*SceneObject, bool) {
	obj, ok := s.byName[name]
	return obj, ok
}

// At returns the i-th object in input order.
func (s *Scene) At(i int) *SceneObject { return s.objects[i] }

// Index returns the input-order position of name, or -1.
func (s *Scene) Index(name string) int {
	for i, o := range s.objects {
		if o.Name == name {
			return i
		}
	}
	return -1
}

// Children returns the direct children of name in input order.
func (s *Scene) Children(name string) []*SceneObject {
	var res []*SceneObject
	for _, o := range s.objects {
		if o.ParentName == name {
			res = append(res, o)
		}
	}
	return res
}

// Frame is the number of completed Resolve passes.
func (s *Scene) Frame() uint64 { return s.frame }

// Resolve recomputes every world matrix for a new frame.
func (s *Scene) Resolve() error {
	s.frame++
	for _, obj := range s.order {
		if _, err := ResolveWorldMatrix(obj, s.byName); err != nil {
			return err
		}
	}
	return nil
}

// ResolveObject recomputes name and its ancestors from their current
// local state, root first, without touching the rest of the scene. It is
// meant for queries made after local state changed mid-frame.
func (s *Scene) ResolveObject(name string) (mgl32.Mat4, error) {
	obj, ok := s.byName[name]
	if !ok {
		return mgl32.Ident4(), &UnknownObjectError{Name: name}
	}
	var chain []*SceneObject
	for cur := obj; cur != nil && len(chain) <= len(s.objects); cur = s.byName[cur.ParentName] {
		chain = append(chain, cur)
		if !cur.HasParent() {
			break
		}
	}
	var world mgl32.Mat4
	for i := len(chain) - 1; i >= 0; i-- {
		var err error
		if world, err = ResolveWorldMatrix(chain[i], s.byName); err != nil {
			return mgl32.Ident4(), err
		}
	}
	return world, nil
}
