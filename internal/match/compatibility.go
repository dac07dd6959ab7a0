package match

import (
	"reflect"

	"graph-mapper/internal/common"
	"graph-mapper/internal/graph"
)

// TypeCompatibility represents the level of compatibility between two types.
type TypeCompatibility int

const (
	// TypeIncompatible means the types cannot be converted.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means the value must be reshaped: pointer
	// wrapping or unwrapping, or rebuilding a container element by element.
	TypeNeedsTransform
	// TypeConvertible means types are convertible using Go's type conversion.
	TypeConvertible
	// TypeAssignable means the source type can be directly assigned to the target.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

const (
	VerdictIdentical      = "identical"
	VerdictAssignable     = "assignable"
	VerdictConvertible    = "convertible"
	VerdictNeedsTransform = "needs_transform"
	VerdictIncompatible   = "incompatible"
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeNeedsTransform:
		return VerdictNeedsTransform
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return common.UnknownStr
	}
}

// Score returns a numeric score for sorting (higher is better).
func (c TypeCompatibility) Score() int {
	return int(c)
}

// TypeCompatibilityResult contains detailed information about type compatibility.
type TypeCompatibilityResult struct {
	Compatibility TypeCompatibility
	Reason        string // Human-readable explanation
	SourceType    string // String representation of source type
	TargetType    string // String representation of target type
}

// OK reports whether a value of the source type can be written to the target
// in some form.
func (r TypeCompatibilityResult) OK() bool {
	return r.Compatibility >= TypeNeedsTransform
}

func result(c TypeCompatibility, reason string, source, target reflect.Type) TypeCompatibilityResult {
	return TypeCompatibilityResult{
		Compatibility: c,
		Reason:        reason,
		SourceType:    typeString(source),
		TargetType:    typeString(target),
	}
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}

// ScoreTypeCompatibility determines the compatibility between a source and target type.
func ScoreTypeCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	if source == nil || target == nil {
		return result(TypeIncompatible, "type information unavailable", source, target)
	}

	if source == target {
		return result(TypeIdentical, "types are identical", source, target)
	}

	// Check for assignability (includes interface satisfaction)
	if source.AssignableTo(target) {
		return result(TypeAssignable, "source is assignable to target", source, target)
	}

	// Numeric to string is a legal Go conversion but yields a rune, never
	// what a mapping wants.
	if source.ConvertibleTo(target) && !(IsNumericType(source) && IsStringType(target)) {
		return result(TypeConvertible, "source is convertible to target", source, target)
	}

	if needsTransform(source, target) {
		return result(TypeNeedsTransform, "types require a transform", source, target)
	}

	return result(TypeIncompatible, "types are not compatible", source, target)
}

// needsTransform checks for pointer lifting and for containers whose
// elements are compatible even though the containers themselves are not
// ([]*T into map[*T]struct{}, [2]T into []T and so on).
func needsTransform(source, target reflect.Type) bool {
	sourceIsPtr := source.Kind() == reflect.Ptr
	targetIsPtr := target.Kind() == reflect.Ptr

	// *T -> T (dereference possible if not nil)
	if sourceIsPtr && !targetIsPtr && directlyCompatible(source.Elem(), target) {
		return true
	}

	// T -> *T (take address)
	if !sourceIsPtr && targetIsPtr && directlyCompatible(source, target.Elem()) {
		return true
	}

	sourceKind, sourceElem := graph.ClassifyContainer(source)
	targetKind, targetElem := graph.ClassifyContainer(target)

	if !sourceKind.IsContainer() || !targetKind.IsContainer() {
		return false
	}

	return ScorePointerCompatibility(sourceElem, targetElem).OK()
}

func directlyCompatible(source, target reflect.Type) bool {
	return ScoreTypeCompatibility(source, target).Compatibility >= TypeConvertible
}

// ScorePointerCompatibility checks compatibility considering pointer wrapping/unwrapping.
func ScorePointerCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	res := ScoreTypeCompatibility(source, target)
	if res.Compatibility >= TypeConvertible || source == nil || target == nil {
		return res
	}

	// Try unwrapping source pointer
	if source.Kind() == reflect.Ptr {
		inner := ScoreTypeCompatibility(source.Elem(), target)
		if inner.Compatibility >= TypeConvertible {
			return result(TypeNeedsTransform, "requires pointer dereference", source, target)
		}
	}

	// Try wrapping source as pointer
	if target.Kind() == reflect.Ptr {
		inner := ScoreTypeCompatibility(source, target.Elem())
		if inner.Compatibility >= TypeConvertible {
			return result(TypeNeedsTransform, "requires taking address", source, target)
		}
	}

	return res
}

// ElementCompatibility scores how well a value of type value can populate a
// member of type member when elements, not containers, are what matter: a
// single *Person, a []*Person and a map[*Person]struct{} all fit a
// []*Person member. An interface element in the value is accepted when the
// member element could be stored in it; the concrete values are checked on
// write.
func ElementCompatibility(value, member reflect.Type) TypeCompatibilityResult {
	valueElem := graph.ElementOf(value)
	memberElem := graph.ElementOf(member)

	res := ScorePointerCompatibility(valueElem, memberElem)
	if res.OK() {
		return res
	}

	if valueElem != nil && memberElem != nil &&
		valueElem.Kind() == reflect.Interface && memberElem.AssignableTo(valueElem) {
		return result(TypeNeedsTransform, "element type checked on write", value, member)
	}

	return res
}

// IsNumericType returns true if the type is a numeric basic type.
func IsNumericType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

// IsStringType returns true if the type is a string.
func IsStringType(t reflect.Type) bool {
	return t.Kind() == reflect.String
}
