package metadata

import (
	"errors"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"graph-mapper/internal/annotation"
)

var (
	errNotAccessor   = errors.New("method is not a recognizable getter or setter")
	errDoublePointer = errors.New("getter and setter values do not support double pointers")
)

var errorType = reflect.TypeFor[error]()

// wellKnownMethods come from standard interfaces and never name a member.
var wellKnownMethods = map[string]struct{}{
	"String":        {},
	"GoString":      {},
	"Error":         {},
	"MarshalText":   {},
	"MarshalJSON":   {},
	"MarshalBinary": {},
}

// accessorSignature is the parsed shape of a candidate getter or setter.
type accessorSignature struct {
	Role         Role
	Member       string
	ValueType    reflect.Type
	ReturnsError bool
}

// parseAccessor inspects a method of a pointer method set and recognizes
// getters and setters.
//
// Supports signatures:
//   - func (r *T) X() V
//   - func (r *T) GetX() V
//   - func (r *T) X() (V, error)
//   - func (r *T) SetX(v V)
//   - func (r *T) SetX(v V) error
func parseAccessor(m reflect.Method) (accessorSignature, error) {
	if _, ok := wellKnownMethods[m.Name]; ok || annotation.IsHookMethod(m.Name) {
		return accessorSignature{}, errNotAccessor
	}

	fnType := m.Type

	// In(0) is the receiver
	switch fnType.NumIn() {
	default:
		return accessorSignature{}, errNotAccessor

	case 1:
		return parseGetter(m.Name, fnType)

	case 2:
		return parseSetter(m.Name, fnType)
	}
}

func parseGetter(name string, fnType reflect.Type) (accessorSignature, error) {
	member := strings.TrimPrefix(name, "Get")
	if member == "" || !startsUpper(member) {
		member = name
	}

	sig := accessorSignature{Role: Getter, Member: member}

	switch fnType.NumOut() {
	default:
		return accessorSignature{}, errNotAccessor

	case 1:
		sig.ValueType = fnType.Out(0)

	case 2:
		if !isError(fnType.Out(1)) {
			return accessorSignature{}, errNotAccessor
		}

		sig.ValueType = fnType.Out(0)
		sig.ReturnsError = true
	}

	if isError(sig.ValueType) {
		return accessorSignature{}, errNotAccessor
	}

	if isDoublePointer(sig.ValueType) {
		return accessorSignature{}, errDoublePointer
	}

	return sig, nil
}

func parseSetter(name string, fnType reflect.Type) (accessorSignature, error) {
	member, ok := strings.CutPrefix(name, "Set")
	if !ok || member == "" || !startsUpper(member) {
		return accessorSignature{}, errNotAccessor
	}

	sig := accessorSignature{Role: Setter, Member: member, ValueType: fnType.In(1)}

	switch fnType.NumOut() {
	default:
		return accessorSignature{}, errNotAccessor

	case 0:

	case 1:
		if !isError(fnType.Out(0)) {
			return accessorSignature{}, errNotAccessor
		}

		sig.ReturnsError = true
	}

	if fnType.IsVariadic() {
		return accessorSignature{}, errNotAccessor
	}

	if isDoublePointer(sig.ValueType) {
		return accessorSignature{}, errDoublePointer
	}

	return sig, nil
}

func isError(t reflect.Type) bool {
	if t == nil {
		return false
	}

	return t.Implements(errorType)
}

func isDoublePointer(t reflect.Type) bool {
	return t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Ptr
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
