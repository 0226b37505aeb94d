package core

import (
	"fmt"
	"strings"
)

// SceneLoadError reports a malformed or missing field in a scene description.
type SceneLoadError struct {
	Path   string // source file, may be empty
	Record int    // index of the offending record, -1 when not record specific
	Name   string // record name if known
	Field  string
	Reason string
	Err    error
}

func (e *SceneLoadError) Error() string {
	var b strings.Builder
	b.WriteString("scene load")
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Record >= 0 {
		fmt.Fprintf(&b, ": record %d", e.Record)
	}
	if e.Name != "" {
		fmt.Fprintf(&b, " (%q)", e.Name)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %s", e.Field)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *SceneLoadError) Unwrap() error { return e.Err }

// UnknownParentError is returned when an object names a parent that is not
// part of the scene.
type UnknownParentError struct {
	Object string
	Parent string
}

func (e *UnknownParentError) Error() string {
	return fmt.Sprintf("object %q references unknown parent %q", e.Object, e.Parent)
}

// UnknownObjectError is returned when a query names an object that is not
// part of the scene.
type UnknownObjectError struct {
	Name string
}

func (e *UnknownObjectError) Error() string {
	return fmt.Sprintf("unknown object %q", e.Name)
}

// CycleError is returned when parent links form a loop. Path lists the
// names along the loop, starting and ending with the same object.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("parent cycle: %s", strings.Join(e.Path, " -> "))
}

// DuplicateNameError is returned when two objects share a name.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate object name %q", e.Name)
}
