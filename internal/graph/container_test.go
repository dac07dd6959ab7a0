package graph

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyContainer(t *testing.T) {
	type node struct{ ID int64 }

	tests := []struct {
		name     string
		typ      reflect.Type
		wantKind ContainerKind
		wantElem reflect.Type
	}{
		{"scalar struct", reflect.TypeFor[node](), Scalar, nil},
		{"pointer", reflect.TypeFor[*node](), Scalar, nil},
		{"slice", reflect.TypeFor[[]*node](), Collection, reflect.TypeFor[*node]()},
		{"array", reflect.TypeFor[[3]node](), Array, reflect.TypeFor[node]()},
		{"struct set", reflect.TypeFor[map[*node]struct{}](), Set, reflect.TypeFor[*node]()},
		{"bool set", reflect.TypeFor[map[string]bool](), Set, reflect.TypeFor[string]()},
		{"plain map", reflect.TypeFor[map[string]int](), Scalar, nil},
		{"nil", nil, Scalar, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, elem := ClassifyContainer(tt.typ)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantElem, elem)
		})
	}
}

func TestElementOfAndDeref(t *testing.T) {
	type node struct{}

	assert.Equal(t, reflect.TypeFor[*node](), ElementOf(reflect.TypeFor[[]*node]()))
	assert.Equal(t, reflect.TypeFor[node](), ElementOf(reflect.TypeFor[node]()))
	assert.Equal(t, reflect.TypeFor[node](), Deref(reflect.TypeFor[**node]()))
}

func TestContainerKind_String(t *testing.T) {
	assert.Equal(t, "scalar", Scalar.String())
	assert.Equal(t, "array", Array.String())
	assert.Equal(t, "collection", Collection.String())
	assert.Equal(t, "set", Set.String())
	assert.Equal(t, "unknown", ContainerKind(42).String())
}
