package access

import (
	"errors"
	"fmt"
	"reflect"

	"graph-mapper/internal/graph"
)

// Capability tells how an accessor reaches its member.
type Capability int

const (
	Field Capability = iota + 1
	Method
)

func (c Capability) String() string {
	switch c {
	case Field:
		return "FIELD"
	case Method:
		return "METHOD"
	default:
		return "NONE"
	}
}

// Rule is the resolution rule that produced an accessor, in precedence order.
type Rule int

const (
	AnnotatedMethod Rule = iota + 1
	AnnotatedField
	ConventionalMethod
	ConventionalField
	// TypeMatch picks the only relationship field whose element type
	// matches the written value.
	TypeMatch
)

func (r Rule) String() string {
	switch r {
	case AnnotatedMethod:
		return "annotated method"
	case AnnotatedField:
		return "annotated field"
	case ConventionalMethod:
		return "conventional method"
	case ConventionalField:
		return "conventional field"
	case TypeMatch:
		return "type match"
	default:
		return "none"
	}
}

// Info identifies a resolved accessor.
type Info struct {
	Capability Capability
	Rule       Rule
	// Type is the qualified name of the type the accessor was resolved for.
	Type string
	// Name is the relationship type or property name that was requested.
	Name string
	// Direction is the direction the accessor serves. It may differ from the
	// requested one when resolution fell back.
	Direction graph.Direction
	// Member is the Go field or method name.
	Member string
}

func (i Info) String() string {
	if i.Direction == graph.DirectionNone {
		return fmt.Sprintf("%s.%s[%s %s via %s]", i.Type, i.Member, i.Capability, i.Name, i.Rule)
	}

	return fmt.Sprintf("%s.%s[%s %s %s via %s]", i.Type, i.Member, i.Capability, i.Name, i.Direction, i.Rule)
}

// Reader reads a member of a domain value. Property readers return the
// graph form of the value; relationship readers return the member as is.
type Reader interface {
	Info() Info
	Read(instance any) (any, error)
}

// Writer writes a member of a domain value. instance must be a non-nil
// pointer to the type the writer was resolved for.
type Writer interface {
	Info() Info
	Write(instance any, value any) error
}

var errNilInstance = errors.New("nil instance")

// target returns the addressable struct value behind instance. Readers
// also accept the struct itself and work on a copy.
func target(owner reflect.Type, instance any, write bool) (reflect.Value, error) {
	v := reflect.ValueOf(instance)

	switch {
	case !v.IsValid():
		return reflect.Value{}, errNilInstance

	case v.Kind() == reflect.Ptr && v.Type().Elem() == owner:
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil *%s", owner.Name())
		}

		return v.Elem(), nil

	case v.Type() == owner && !write:
		cp := reflect.New(owner).Elem()
		cp.Set(v)

		return cp, nil
	}

	return reflect.Value{}, fmt.Errorf("instance is %s, want *%s", v.Type(), owner)
}
