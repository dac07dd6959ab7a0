package metadata

import (
	"reflect"

	"graph-mapper/internal/convert"
)

// Registry holds the metadata of every registered type. It is immutable
// once Build returns.
type Registry struct {
	byType     map[reflect.Type]*ClassMetadata
	byName     map[string][]*ClassMetadata
	classes    []*ClassMetadata
	converters *convert.Registry
}

// ClassMetadataFor returns the metadata of t. Pointer types are looked up by
// their struct type.
func (r *Registry) ClassMetadataFor(t reflect.Type) (*ClassMetadata, bool) {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	cm, ok := r.byType[t]

	return cm, ok
}

// ClassMetadataOf returns the metadata of the dynamic type of v.
func (r *Registry) ClassMetadataOf(v any) (*ClassMetadata, bool) {
	return r.ClassMetadataFor(reflect.TypeOf(v))
}

// ClassMetadataForName looks a type up by qualified or simple name. A simple
// name shared by types of different packages does not resolve.
func (r *Registry) ClassMetadataForName(name string) (*ClassMetadata, bool) {
	matches := r.byName[name]
	if len(matches) != 1 {
		return nil, false
	}

	return matches[0], true
}

// Classes returns every registered type, sorted by qualified name.
func (r *Registry) Classes() []*ClassMetadata {
	return r.classes
}

// Converters returns the converter registry properties were bound with.
func (r *Registry) Converters() *convert.Registry {
	return r.converters
}

// TypesOf returns the dynamic types of values, a shorthand for building
// from sample instances:
//
//	reg, err := metadata.Build(metadata.TypesOf(Person{}, (*Movie)(nil)))
func TypesOf(values ...any) []reflect.Type {
	out := make([]reflect.Type, 0, len(values))
	for _, v := range values {
		out = append(out, reflect.TypeOf(v))
	}

	return out
}
