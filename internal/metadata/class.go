package metadata

import (
	"reflect"

	"graph-mapper/internal/annotation"
	"graph-mapper/internal/convert"
	"graph-mapper/internal/graph"
)

// ClassMetadata describes one domain type.
type ClassMetadata struct {
	typ           reflect.Type
	name          string
	qualifiedName string

	// parent is the embedded struct the type extends, reached through the
	// field at parentIndex. Non-owning.
	parent      *ClassMetadata
	parentIndex int
	parentPtr   bool

	fields  []*FieldMetadata
	methods []*MethodMetadata

	// visible is the union of own and ancestor fields, ancestors first,
	// with shadowed ancestor fields removed.
	visible  []*FieldMetadata
	identity *FieldMetadata
	implicit bool
}

// Type returns the struct type described.
func (c *ClassMetadata) Type() reflect.Type { return c.typ }

// Name returns the simple type name.
func (c *ClassMetadata) Name() string { return c.name }

// QualifiedName returns the package path qualified type name.
func (c *ClassMetadata) QualifiedName() string { return c.qualifiedName }

// Implicit reports whether the type was registered only because a
// registered type embeds it.
func (c *ClassMetadata) Implicit() bool { return c.implicit }

// Parent returns the embedded parent type, or nil.
func (c *ClassMetadata) Parent() *ClassMetadata { return c.parent }

// Ancestors returns the parent chain, nearest first.
func (c *ClassMetadata) Ancestors() []*ClassMetadata {
	var out []*ClassMetadata
	for p := c.parent; p != nil; p = p.parent {
		out = append(out, p)
	}

	return out
}

// IsSubtypeOf reports whether other is c or one of its ancestors.
func (c *ClassMetadata) IsSubtypeOf(other *ClassMetadata) bool {
	for p := c; p != nil; p = p.parent {
		if p == other {
			return true
		}
	}

	return false
}

// OwnFields returns the fields declared by the type itself.
func (c *ClassMetadata) OwnFields() []*FieldMetadata { return c.fields }

// Fields returns own and inherited fields, ancestors first. A field declared
// again by a descendant hides the ancestor's.
func (c *ClassMetadata) Fields() []*FieldMetadata { return c.visible }

// FieldByName looks a field up by its Go name, walking the parent chain.
func (c *ClassMetadata) FieldByName(name string) (*FieldMetadata, bool) {
	for p := c; p != nil; p = p.parent {
		for _, f := range p.fields {
			if f.Name == name {
				return f, true
			}
		}
	}

	return nil, false
}

// FieldPath returns the index path that leads from a value of c's type to
// field f: one embedded-parent hop per ancestor level, then f's own index.
func (c *ClassMetadata) FieldPath(f *FieldMetadata) ([]int, bool) {
	var path []int
	for p := c; p != nil; p = p.parent {
		if p == f.owner {
			return append(path, f.Index), true
		}

		if p.parent != nil {
			path = append(path, p.parentIndex)
		}
	}

	return nil, false
}

// EmbeddedPointer reports whether the hop from c to its parent goes through
// a pointer, which readers may find nil and writers must allocate.
func (c *ClassMetadata) EmbeddedPointer() bool { return c.parentPtr }

// PropertyFields returns the visible property fields.
func (c *ClassMetadata) PropertyFields() []*FieldMetadata {
	var out []*FieldMetadata
	for _, f := range c.visible {
		if !f.IsRelationship() {
			out = append(out, f)
		}
	}

	return out
}

// RelationshipFields returns the visible relationship fields.
func (c *ClassMetadata) RelationshipFields() []*FieldMetadata {
	var out []*FieldMetadata
	for _, f := range c.visible {
		if f.IsRelationship() {
			out = append(out, f)
		}
	}

	return out
}

// Relationships returns the relationships declared on the type and its
// ancestors, one per (type, direction). A field declaring the pair is
// returned before the methods reading or writing it.
func (c *ClassMetadata) Relationships() []*RelationshipMetadata {
	type key struct {
		relType string
		dir     graph.Direction
	}

	seen := make(map[key]bool)

	var out []*RelationshipMetadata

	add := func(r *RelationshipMetadata) {
		k := key{relType: r.Type, dir: r.Direction}
		if !seen[k] {
			seen[k] = true
			out = append(out, r)
		}
	}

	for _, f := range c.RelationshipFields() {
		add(f.Relationship)
	}

	for _, m := range c.methods {
		if m.Relationship != nil {
			add(m.Relationship)
		}
	}

	return out
}

// Methods returns the getters and setters of the type, including those
// promoted from embedded types, sorted by name.
func (c *ClassMetadata) Methods() []*MethodMetadata { return c.methods }

// MethodByName looks up a getter or setter by its Go name.
func (c *ClassMetadata) MethodByName(name string) (*MethodMetadata, bool) {
	for _, m := range c.methods {
		if m.Name == name {
			return m, true
		}
	}

	return nil, false
}

// Identity returns the identity field, if the type has one.
func (c *ClassMetadata) Identity() (*FieldMetadata, bool) {
	return c.identity, c.identity != nil
}

// String returns the qualified name.
func (c *ClassMetadata) String() string { return c.qualifiedName }

// FieldMetadata describes one struct field.
type FieldMetadata struct {
	// Name is the Go field name.
	Name string
	// Index is the field's position in its owner struct.
	Index int
	// Type is the declared Go type.
	Type reflect.Type
	// Container is the declared container kind.
	Container graph.ContainerKind
	// ElementType is the container element type, or Type for scalars.
	ElementType reflect.Type
	// Opaque is set when the element type is an interface and the real
	// target comes from a target= annotation.
	Opaque bool
	// Exported reports whether the field is exported.
	Exported bool
	// Annotations are the parsed annotations of the field.
	Annotations annotation.Set
	// PropertyName is the graph property name of a property field.
	PropertyName string
	// Relationship is set for relationship fields.
	Relationship *RelationshipMetadata
	// Converter translates property values. Nil for relationship fields.
	Converter convert.Converter

	owner *ClassMetadata
}

// Owner returns the type that declares the field.
func (f *FieldMetadata) Owner() *ClassMetadata { return f.owner }

// IsRelationship reports whether the field holds related entities.
func (f *FieldMetadata) IsRelationship() bool { return f.Relationship != nil }

// IsIdentity reports whether the field is its type's identity.
func (f *FieldMetadata) IsIdentity() bool {
	id, ok := f.owner.Identity()
	return ok && id == f
}

// DeclaredType implements convert.Field.
func (f *FieldMetadata) DeclaredType() reflect.Type { return f.Type }

// ConverterName implements convert.Field.
func (f *FieldMetadata) ConverterName() string { return f.Annotations.Converter }

// String returns "Owner.Field".
func (f *FieldMetadata) String() string { return f.owner.name + "." + f.Name }

// Role tells getters from setters.
type Role int

const (
	Getter Role = iota + 1
	Setter
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case Getter:
		return "getter"
	case Setter:
		return "setter"
	default:
		return "none"
	}
}

// MethodMetadata describes a getter or a setter.
type MethodMetadata struct {
	// Name is the Go method name.
	Name string
	// Member is the name the method reads or writes: "Friends" for
	// Friends, GetFriends and SetFriends.
	Member string
	Role   Role
	// ValueType is the getter result or the setter argument type.
	ValueType    reflect.Type
	Container    graph.ContainerKind
	ElementType  reflect.Type
	ReturnsError bool
	Annotations  annotation.Set
	// Relationship is set for annotated relationship methods and for
	// un-annotated methods fronting a relationship field of the same name.
	Relationship *RelationshipMetadata
	// Converter is bound at build time for every property method.
	Converter convert.Converter

	owner *ClassMetadata
}

// Owner returns the type whose method set holds the method.
func (m *MethodMetadata) Owner() *ClassMetadata { return m.owner }

// Annotated reports whether the method carries annotations.
func (m *MethodMetadata) Annotated() bool { return !m.Annotations.IsZero() }

// IsRelationship reports whether the method reads or writes related entities.
func (m *MethodMetadata) IsRelationship() bool { return m.Relationship != nil }

// DeclaredType implements convert.Field.
func (m *MethodMetadata) DeclaredType() reflect.Type { return m.ValueType }

// ConverterName implements convert.Field.
func (m *MethodMetadata) ConverterName() string { return m.Annotations.Converter }

// PropertyName returns the graph property name served by the method.
func (m *MethodMetadata) PropertyName() string {
	if m.Annotations.Property != "" {
		return m.Annotations.Property
	}

	return m.Member
}

// String returns "Owner.Method".
func (m *MethodMetadata) String() string { return m.owner.name + "." + m.Name }

// RelationshipMetadata describes a relationship declared by a field or a
// method.
type RelationshipMetadata struct {
	// Type is the relationship type, annotated or inferred from the
	// member name.
	Type      string
	Direction graph.Direction
	// Target is the related struct type, pointers stripped.
	Target reflect.Type
	// Explicit is set when the relationship comes from an annotation.
	Explicit bool

	Field  *FieldMetadata
	Method *MethodMetadata
}

// MemberName returns the Go name of the field or method.
func (r *RelationshipMetadata) MemberName() string {
	if r.Field != nil {
		return r.Field.Name
	}

	return r.Method.Name
}

// Matches reports whether the relationship serves relType in direction dir.
func (r *RelationshipMetadata) Matches(relType string, dir graph.Direction) bool {
	return r.Type == relType && r.Direction == dir
}
