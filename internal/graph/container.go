package graph

import (
	"reflect"

	"graph-mapper/internal/common"
)

// ContainerKind classifies the declared shape of a member type.
type ContainerKind int

const (
	Scalar     ContainerKind = iota // any non-container type
	Array                           // Go array [N]T
	Collection                      // slice []T, ordered
	Set                             // map[T]struct{} or map[T]bool
)

// String returns a human-readable name for the container kind.
func (k ContainerKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Array:
		return "array"
	case Collection:
		return "collection"
	case Set:
		return "set"
	default:
		return common.UnknownStr
	}
}

// IsContainer returns true for every kind but Scalar.
func (k ContainerKind) IsContainer() bool {
	return k != Scalar
}

// ClassifyContainer returns the container kind of t and, for containers, the
// element type. Maps that are not sets (value other than struct{} or bool)
// are scalars: they are opaque values as far as relationships go.
func ClassifyContainer(t reflect.Type) (ContainerKind, reflect.Type) {
	if t == nil {
		return Scalar, nil
	}

	switch t.Kind() {
	case reflect.Slice:
		return Collection, t.Elem()
	case reflect.Array:
		return Array, t.Elem()
	case reflect.Map:
		if isSetValue(t.Elem()) {
			return Set, t.Key()
		}
	}

	return Scalar, nil
}

// ElementOf returns the element type of a container, or t itself for scalars.
func ElementOf(t reflect.Type) reflect.Type {
	if kind, elem := ClassifyContainer(t); kind.IsContainer() {
		return elem
	}

	return t
}

// Deref strips any number of pointer levels.
func Deref(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t
}

func isSetValue(t reflect.Type) bool {
	if t.Kind() == reflect.Bool {
		return true
	}

	return t.Kind() == reflect.Struct && t.NumField() == 0
}
