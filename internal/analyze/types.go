package analyze

import (
	"go/types"
	"maps"
	"reflect"
	"slices"

	"graph-mapper/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "graph-mapper/examples/social"
	Name    string // e.g., "Person"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, etc.
	TypeKindStruct             // struct type
	TypeKindPointer            // pointer to another type
	TypeKindSlice              // slice of another type
	TypeKindArray              // array of another type
	TypeKindMap                // map; a set when the value is struct{} or bool
	TypeKindInterface          // interface, including any
	TypeKindAlias              // type alias (named type wrapping another)
	TypeKindExternal           // external/opaque type (e.g., time.Time)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindInterface:
		return "interface"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID         TypeID      // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind    // Kind of type
	Underlying *TypeInfo   // For named types, the underlying type
	ElemType   *TypeInfo   // For pointers, slices, arrays and maps, the element type
	KeyType    *TypeInfo   // For maps, the key type
	Fields     []FieldInfo // For structs, the list of fields
	GoType     types.Type  // The original go/types.Type
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// IsSet reports whether t is a map used as a set.
func (t *TypeInfo) IsSet() bool {
	if t.Kind != TypeKindMap || t.ElemType == nil {
		return false
	}

	switch u := t.ElemType.GoType.Underlying().(type) {
	case *types.Struct:
		return u.NumFields() == 0
	case *types.Basic:
		return u.Kind() == types.Bool
	default:
		return false
	}
}

// Element returns the element type of a container (slice, array or set),
// pointers stripped, or the type itself with pointers stripped.
func (t *TypeInfo) Element() *TypeInfo {
	if t == nil {
		return nil
	}

	switch {
	case t.Kind == TypeKindSlice || t.Kind == TypeKindArray:
		t = t.ElemType
	case t.IsSet():
		t = t.KeyType
	}

	for t != nil && t.Kind == TypeKindPointer {
		t = t.ElemType
	}

	return t
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// Annotation returns the value of the annotation tag key, if present.
func (f *FieldInfo) Annotation(key string) (string, bool) {
	return f.Tag.Lookup(key)
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Structs returns the struct types declared in loaded packages, sorted by
// package path and name.
func (g *TypeGraph) Structs() []*TypeInfo {
	var out []*TypeInfo

	for _, path := range slices.Sorted(maps.Keys(g.Packages)) {
		for _, id := range g.Packages[path].Types {
			if t := g.Types[id]; t != nil && t.Kind == TypeKindStruct {
				out = append(out, t)
			}
		}
	}

	return out
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package, sorted by name
}
