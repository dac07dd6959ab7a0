package primitive

import (
	"math"
	"reflect"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // named type over any number, boolean or string

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

func (k KindEnum) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsInteger() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only integer kinds has meaningful bits amount, but requested for: " + k.String())
	case KindInt, KindUint:
		power := 0
		for n := uint(math.MaxUint); n > 0; n >>= 1 {
			power++
		}
		return power
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32:
		return 32
	case KindInt64, KindUint64:
		return 64
	case KindFloat32:
		return 32
	case KindFloat64:
		return 64
	}
}

// FromReflectType returns the kind of a graph-native scalar type. Named
// types over basic kinds (type Status string, type Level int) are
// KindPrimitiveEnum; use Underlying for their storage kind.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	// check if true primitive type
	switch rtype {
	case reflect.TypeOf(time.Time{}):
		return KindTime
	case reflect.TypeOf(time.Duration(0)):
		return KindDuration
	}

	kind := FromReflectKind(rtype.Kind())
	if kind == 0 {
		return 0
	}

	if rtype.PkgPath() != "" {
		return KindPrimitiveEnum
	}

	return kind
}

// FromReflectKind maps a basic reflect.Kind to its KindEnum.
func FromReflectKind(kind reflect.Kind) KindEnum {
	switch kind {
	case reflect.Int:
		return KindInt
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Uint:
		return KindUint
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	default:
		return 0
	}
}

// Underlying returns the storage kind of rtype, looking through named types:
// time.Duration is KindInt64, type Status string is KindString.
// time.Time has no basic storage kind and yields 0.
func Underlying(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	return FromReflectKind(rtype.Kind())
}

// IsStorable reports whether values of rtype can be stored as graph
// properties as they are: booleans, numbers, strings, named types over those,
// and slices or arrays of storable elements.
func IsStorable(rtype reflect.Type) bool {
	if rtype == nil {
		return false
	}

	switch rtype.Kind() {
	case reflect.Slice, reflect.Array:
		return IsStorable(rtype.Elem())
	default:
		return Underlying(rtype) != 0
	}
}
