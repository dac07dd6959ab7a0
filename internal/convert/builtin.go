package convert

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"graph-mapper/primitive"
)

// DateLayout is the layout of the date converter.
const DateLayout = time.DateOnly

var (
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// isEnumLike reports whether t round-trips through text: T implements
// encoding.TextMarshaler and *T implements encoding.TextUnmarshaler.
func isEnumLike(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr || t.Kind() == reflect.Interface {
		return false
	}

	return t.Implements(textMarshalerType) && reflect.PointerTo(t).Implements(textUnmarshalerType)
}

func expect(name string, declared, want reflect.Type) error {
	if declared != want {
		return fmt.Errorf("%w: %s converter needs %s, not %s", ErrNoConverter, name, want, declared)
	}

	return nil
}

func conversionErr(name string, value any, err error) error {
	return fmt.Errorf("%w: %s: %v (%T): %w", ErrConversion, name, value, value, err)
}

// identity passes storable values through, coercing graph values into the
// declared type on the way back.
type identity struct {
	typ reflect.Type
}

func newIdentity(declared reflect.Type) (Converter, error) {
	if !primitive.IsStorable(declared) {
		return nil, fmt.Errorf("%w: %s is not graph-storable", ErrNoConverter, declared)
	}

	return identity{typ: declared}, nil
}

func (c identity) ToGraph(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	return toBasic(reflect.ValueOf(value)), nil
}

func (c identity) FromGraph(value any) (any, error) {
	v, err := coerce(value, c.typ)
	if err != nil {
		return nil, conversionErr(Identity, value, err)
	}

	return v.Interface(), nil
}

// toBasic strips named types: a Status string becomes a string, a []Level a
// []int64 and so on, so the graph only sees its own value types.
func toBasic(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil
		}

		if v.Kind() == reflect.Slice && v.Type().PkgPath() == "" && v.Type().Elem().PkgPath() == "" {
			return v.Interface()
		}

		out := make([]any, v.Len())
		for i := range out {
			out[i] = toBasic(v.Index(i))
		}

		return out
	case reflect.Bool:
		return v.Bool()
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	default:
		return v.Interface()
	}
}

// coerce converts a loosely typed graph value into t. Numbers are range
// checked; strings and other driver representations go through cast.
func coerce(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}

	v := reflect.ValueOf(value)
	if v.Type() == t {
		return v, nil
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return coerceList(v, t)
	case reflect.Bool:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(b).Convert(t), nil
	case reflect.String:
		if primitive.Underlying(v.Type()).IsNumber() {
			return reflect.Value{}, fmt.Errorf("number %v is not a string", value)
		}

		s, err := cast.ToStringE(value)
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(s).Convert(t), nil
	}

	kind := primitive.Underlying(t)
	if !kind.IsNumber() {
		return reflect.Value{}, fmt.Errorf("cannot coerce into %s", t)
	}

	if !primitive.Underlying(v.Type()).IsNumber() {
		n, err := castNumber(value, kind)
		if err != nil {
			return reflect.Value{}, err
		}

		v = reflect.ValueOf(n)
	}

	return primitive.ConvertNumber(v, t)
}

func castNumber(value any, kind primitive.KindEnum) (any, error) {
	switch {
	case kind.IsFloat():
		return cast.ToFloat64E(value)
	case kind.IsUnsigned():
		return cast.ToUint64E(value)
	default:
		return cast.ToInt64E(value)
	}
}

func coerceList(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return reflect.Value{}, fmt.Errorf("%s is not a list", v.Type())
	}

	out, err := newList(t, v.Len())
	if err != nil {
		return reflect.Value{}, err
	}

	for i := range v.Len() {
		elem, err := coerce(v.Index(i).Interface(), t.Elem())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}

		out.Index(i).Set(elem)
	}

	return out, nil
}

// newList allocates a slice or array of type t holding n elements.
func newList(t reflect.Type, n int) (reflect.Value, error) {
	if t.Kind() == reflect.Slice {
		return reflect.MakeSlice(t, n, n), nil
	}

	if n > t.Len() {
		return reflect.Value{}, fmt.Errorf("%d values do not fit %s", n, t)
	}

	return reflect.New(t).Elem(), nil
}

// enumText converts enum-like types to their text form.
type enumText struct {
	typ reflect.Type
}

func newEnum(declared reflect.Type) (Converter, error) {
	if !isEnumLike(declared) {
		return nil, fmt.Errorf("%w: %s does not implement encoding.TextMarshaler and TextUnmarshaler", ErrNoConverter, declared)
	}

	return enumText{typ: declared}, nil
}

func (c enumText) ToGraph(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	m, ok := value.(encoding.TextMarshaler)
	if !ok {
		return nil, conversionErr(Enum, value, fmt.Errorf("not a %s", c.typ))
	}

	text, err := m.MarshalText()
	if err != nil {
		return nil, conversionErr(Enum, value, err)
	}

	return string(text), nil
}

func (c enumText) FromGraph(value any) (any, error) {
	if value == nil {
		return reflect.Zero(c.typ).Interface(), nil
	}

	if reflect.TypeOf(value) == c.typ {
		return value, nil
	}

	s, err := cast.ToStringE(value)
	if err != nil {
		return nil, conversionErr(Enum, value, err)
	}

	ptr := reflect.New(c.typ)
	if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		return nil, conversionErr(Enum, value, err)
	}

	return ptr.Elem().Interface(), nil
}

// timeFormat converts time.Time to and from a string layout.
type timeFormat struct {
	name   string
	layout string
}

func newDateTime(declared reflect.Type) (Converter, error) {
	if err := expect(DateTime, declared, timeType); err != nil {
		return nil, err
	}

	return timeFormat{name: DateTime, layout: time.RFC3339Nano}, nil
}

func newDate(declared reflect.Type) (Converter, error) {
	if err := expect(Date, declared, timeType); err != nil {
		return nil, err
	}

	return timeFormat{name: Date, layout: DateLayout}, nil
}

func (c timeFormat) ToGraph(value any) (any, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, conversionErr(c.name, value, fmt.Errorf("not a time.Time"))
	}

	return t.Format(c.layout), nil
}

func (c timeFormat) FromGraph(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(c.layout, v)
		if err != nil {
			return nil, conversionErr(c.name, value, err)
		}

		return t, nil
	default:
		return nil, conversionErr(c.name, value, fmt.Errorf("expected a string"))
	}
}

// epochMillis converts time.Time to and from Unix milliseconds.
type epochMillis struct{}

func newEpoch(declared reflect.Type) (Converter, error) {
	if err := expect(Epoch, declared, timeType); err != nil {
		return nil, err
	}

	return epochMillis{}, nil
}

func (epochMillis) ToGraph(value any) (any, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, conversionErr(Epoch, value, fmt.Errorf("not a time.Time"))
	}

	return t.UnixMilli(), nil
}

func (epochMillis) FromGraph(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	}

	ms, err := cast.ToInt64E(value)
	if err != nil {
		return nil, conversionErr(Epoch, value, err)
	}

	return time.UnixMilli(ms).UTC(), nil
}

// base64Bytes converts []byte to and from standard Base64.
type base64Bytes struct{}

func newBase64(declared reflect.Type) (Converter, error) {
	if err := expect(Base64, declared, bytesType); err != nil {
		return nil, err
	}

	return base64Bytes{}, nil
}

func (base64Bytes) ToGraph(value any) (any, error) {
	b, ok := value.([]byte)
	if !ok {
		return nil, conversionErr(Base64, value, fmt.Errorf("not a []byte"))
	}

	if b == nil {
		return nil, nil
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

func (base64Bytes) FromGraph(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return []byte(nil), nil
	case []byte:
		return v, nil
	case string:
		b, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, conversionErr(Base64, value, err)
		}

		return b, nil
	default:
		return nil, conversionErr(Base64, value, fmt.Errorf("expected a string"))
	}
}

// uuidText converts uuid.UUID to and from its canonical string.
type uuidText struct{}

func newUUID(declared reflect.Type) (Converter, error) {
	if err := expect(UUID, declared, uuidType); err != nil {
		return nil, err
	}

	return uuidText{}, nil
}

func (uuidText) ToGraph(value any) (any, error) {
	id, ok := value.(uuid.UUID)
	if !ok {
		return nil, conversionErr(UUID, value, fmt.Errorf("not a uuid.UUID"))
	}

	return id.String(), nil
}

func (uuidText) FromGraph(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return uuid.Nil, nil
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, conversionErr(UUID, value, err)
		}

		return id, nil
	case []byte:
		id, err := uuid.FromBytes(v)
		if err != nil {
			return nil, conversionErr(UUID, value, err)
		}

		return id, nil
	default:
		return nil, conversionErr(UUID, value, fmt.Errorf("expected a string"))
	}
}
