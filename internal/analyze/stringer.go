package analyze

import (
	"strconv"
	"strings"
)

// TypeString returns a short, readable representation of a TypeInfo, using
// unqualified names for types of loaded packages.
func TypeString(t *TypeInfo) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind {
	case TypeKindBasic:
		return t.GoType.String()

	case TypeKindStruct:
		if t.IsNamed() {
			return t.ID.Name
		}
		return "struct{...}"

	case TypeKindPointer:
		return "*" + elemString(t.ElemType)

	case TypeKindSlice:
		return "[]" + elemString(t.ElemType)

	case TypeKindArray:
		n := ""
		if arr, ok := t.GoType.Underlying().(interface{ Len() int64 }); ok {
			n = strconv.FormatInt(arr.Len(), 10)
		}
		return "[" + n + "]" + elemString(t.ElemType)

	case TypeKindMap:
		return "map[" + elemString(t.KeyType) + "]" + elemString(t.ElemType)

	case TypeKindInterface:
		if t.IsNamed() {
			return t.ID.String()
		}
		return "any"

	case TypeKindAlias:
		if t.IsNamed() {
			return t.ID.Name
		}
		return TypeString(t.Underlying)

	case TypeKindExternal:
		if t.IsNamed() {
			return t.ID.String()
		}
		return t.GoType.String()

	default:
		return t.GoType.String()
	}
}

func elemString(t *TypeInfo) string {
	if t == nil {
		return "<unknown>"
	}
	return TypeString(t)
}

// FieldPath joins a type name and field names into a dotted path.
// Example: Person, Friends -> "Person.Friends"
func FieldPath(typeName string, fieldNames ...string) string {
	return strings.Join(append([]string{typeName}, fieldNames...), ".")
}
