package primitive

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

// ConversionPair is a (from, to) pair of storage kinds.
type ConversionPair struct {
	From, To KindEnum
}

var safePairs = safeNumberConversionPairs()

// IsSafe reports whether every value of kind from can be represented in kind
// to without loss. Identical non-numeric kinds are always safe.
func IsSafe(from, to KindEnum) bool {
	if from == to {
		return true
	}

	_, ok := safePairs[ConversionPair{from, to}]

	return ok
}

// ConvertNumber converts a numeric value to the numeric type target,
// rejecting values that do not fit: overflow, negative into unsigned,
// fractional into integer. Safe pairs convert without checks.
func ConvertNumber(v reflect.Value, target reflect.Type) (reflect.Value, error) {
	from := Underlying(v.Type())
	to := Underlying(target)

	if !from.IsNumber() || !to.IsNumber() {
		return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", v.Type(), target)
	}

	if !IsSafe(from, to) {
		if err := checkRange(v, from, to); err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert %v to %s: %w", v.Interface(), target, err)
		}
	}

	return v.Convert(target), nil
}

// ErrOutOfRange is returned when a number does not fit its target kind.
var ErrOutOfRange = errors.New("value out of range")

func checkRange(v reflect.Value, from, to KindEnum) error {
	switch {
	case from.IsFloat():
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ErrOutOfRange
		}

		if to.IsInteger() && f != math.Trunc(f) {
			return fmt.Errorf("%w: fractional value", ErrOutOfRange)
		}

		return checkFloat(f, to)
	case from.IsSigned():
		return checkSigned(v.Int(), to)
	default:
		return checkUnsigned(v.Uint(), to)
	}
}

func checkSigned(n int64, to KindEnum) error {
	switch {
	case to.IsFloat():
		return nil
	case to.IsUnsigned():
		if n < 0 {
			return fmt.Errorf("%w: negative value", ErrOutOfRange)
		}

		return checkUnsigned(uint64(n), to)
	default:
		bits := to.Bits()
		if bits < 64 && (n < -(1<<(bits-1)) || n > 1<<(bits-1)-1) {
			return ErrOutOfRange
		}

		return nil
	}
}

func checkUnsigned(n uint64, to KindEnum) error {
	switch {
	case to.IsFloat():
		return nil
	case to.IsSigned():
		if n > uint64(math.MaxInt64) {
			return ErrOutOfRange
		}

		return checkSigned(int64(n), to)
	default:
		bits := to.Bits()
		if bits < 64 && n > 1<<bits-1 {
			return ErrOutOfRange
		}

		return nil
	}
}

func checkFloat(f float64, to KindEnum) error {
	switch {
	case to == KindFloat32:
		if math.Abs(f) > math.MaxFloat32 {
			return ErrOutOfRange
		}

		return nil
	case to.IsFloat():
		return nil
	case to.IsSigned():
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return ErrOutOfRange
		}

		return checkSigned(int64(f), to)
	default:
		if f < 0 {
			return fmt.Errorf("%w: negative value", ErrOutOfRange)
		}

		if f >= math.MaxUint64 {
			return ErrOutOfRange
		}

		return checkUnsigned(uint64(f), to)
	}
}

func safeNumberConversionPairs() map[ConversionPair]struct{} {
	return map[ConversionPair]struct{}{
		{KindInt, KindInt}:   {}, // int can be any wide from 32 upto 64
		{KindInt, KindInt64}: {},

		{KindInt8, KindInt}:     {}, // int8 can be safely converted to any signed int
		{KindInt8, KindInt8}:    {},
		{KindInt8, KindInt16}:   {},
		{KindInt8, KindInt32}:   {},
		{KindInt8, KindInt64}:   {},
		{KindInt8, KindFloat32}: {},
		{KindInt8, KindFloat64}: {},

		{KindInt16, KindInt}:     {},
		{KindInt16, KindInt16}:   {}, // int16 omitting narrowing to int8
		{KindInt16, KindInt32}:   {},
		{KindInt16, KindInt64}:   {},
		{KindInt16, KindFloat32}: {},
		{KindInt16, KindFloat64}: {},

		{KindInt32, KindInt}:     {},
		{KindInt32, KindInt32}:   {}, // int32 omitting narrowing to int8/16
		{KindInt32, KindInt64}:   {},
		{KindInt32, KindFloat64}: {}, // int32 is wider than float32 mantissa

		{KindInt64, KindInt64}: {}, // int64 is the widest signed integer type

		{KindUint, KindUint}:   {}, // uint can be any wide from 32 upto 64
		{KindUint, KindUint64}: {},

		{KindUint8, KindUint}:    {}, // uint8 can be safely converted to any unsigned int
		{KindUint8, KindUint8}:   {},
		{KindUint8, KindUint16}:  {},
		{KindUint8, KindUint32}:  {},
		{KindUint8, KindUint64}:  {},
		{KindUint8, KindInt}:     {}, // also uint8 can be converted to any wider signed int
		{KindUint8, KindInt16}:   {},
		{KindUint8, KindInt32}:   {},
		{KindUint8, KindInt64}:   {},
		{KindUint8, KindFloat32}: {},
		{KindUint8, KindFloat64}: {},

		{KindUint16, KindUint}:    {},
		{KindUint16, KindUint16}:  {}, // uint16 omitting narrowing to uint8
		{KindUint16, KindUint32}:  {},
		{KindUint16, KindUint64}:  {},
		{KindUint16, KindInt}:     {}, // also uint16 can be converted to any wider signed int
		{KindUint16, KindInt32}:   {},
		{KindUint16, KindInt64}:   {},
		{KindUint16, KindFloat32}: {},
		{KindUint16, KindFloat64}: {},

		{KindUint32, KindUint32}:  {},
		{KindUint32, KindUint64}:  {}, // uint32 omitting narrowing to uint8/16
		{KindUint32, KindInt64}:   {}, // also only int64 is wide enough to hold uint32
		{KindUint32, KindFloat64}: {}, // uint32 is wider than float32 mantissa

		{KindUint64, KindUint64}: {}, // uint64 is the widest unsigned integer type

		{KindFloat32, KindFloat32}: {},
		{KindFloat32, KindFloat64}: {},

		{KindFloat64, KindFloat64}: {},
	}
}
