package access

import (
	"errors"
	"fmt"
	"reflect"

	"graph-mapper/internal/graph"
)

var (
	errTooManyValues = errors.New("too many values")
	errElementType   = errors.New("element type mismatch")
)

// Elements flattens a relationship value: nil yields nothing, slices and
// arrays yield their elements in order, sets yield their members in no
// particular order, and anything else yields itself. Nil pointers are
// skipped.
func Elements(value any) []any {
	return valuesOf(value, false)
}

// valuesOf flattens value. With keepNil, nil elements of slices and arrays
// stay in place as untyped nils.
func valuesOf(value any, keepNil bool) []any {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return nil
	}

	var out []any

	add := func(e reflect.Value, ordered bool) {
		for e.Kind() == reflect.Interface && !e.IsNil() {
			e = e.Elem()
		}

		if isNil(e) {
			if ordered && keepNil {
				out = append(out, nil)
			}

			return
		}

		out = append(out, e.Interface())
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			add(v.Index(i), true)
		}

	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if val := iter.Value(); val.Kind() == reflect.Bool && !val.Bool() {
				continue
			}

			add(iter.Key(), false)
		}

	default:
		add(v, false)
	}

	return out
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	default:
		return !v.IsValid()
	}
}

// assemble builds a value of the declared type t from a relationship value.
// Sets de-duplicate, slices keep order, arrays are freshly allocated and a
// scalar takes the only element. Slices and arrays keep nil elements at
// their position; a nil for an element type that cannot be nil is an error.
// Sets and scalars skip nils.
func assemble(t reflect.Type, kind graph.ContainerKind, value any) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}

	if v := reflect.ValueOf(value); v.Type() == t {
		return v, nil
	}

	values := valuesOf(value, kind == graph.Collection || kind == graph.Array)

	switch kind {
	case graph.Collection:
		out := reflect.MakeSlice(t, 0, len(values))
		for _, e := range values {
			ev, err := adapt(e, t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}

			out = reflect.Append(out, ev)
		}

		return out, nil

	case graph.Array:
		if len(values) > t.Len() {
			return reflect.Value{}, fmt.Errorf("%w: %d values for %s", errTooManyValues, len(values), t)
		}

		out := reflect.New(t).Elem()
		for i, e := range values {
			ev, err := adapt(e, t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}

			out.Index(i).Set(ev)
		}

		return out, nil

	case graph.Set:
		out := reflect.MakeMapWithSize(t, len(values))

		member := reflect.New(t.Elem()).Elem()
		if member.Kind() == reflect.Bool {
			member.SetBool(true)
		}

		for _, e := range values {
			if e == nil {
				continue
			}

			ev, err := adapt(e, t.Key())
			if err != nil {
				return reflect.Value{}, err
			}

			out.SetMapIndex(ev, member)
		}

		return out, nil
	}

	switch len(values) {
	case 0:
		return reflect.Zero(t), nil
	case 1:
		return adapt(values[0], t)
	default:
		return reflect.Value{}, fmt.Errorf("%w: %d values for scalar %s", errTooManyValues, len(values), t)
	}
}

// adapt converts one element to elem, taking or dropping a pointer level
// when needed.
func adapt(e any, elem reflect.Type) (reflect.Value, error) {
	if e == nil {
		switch elem.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
			return reflect.Zero(elem), nil
		default:
			return reflect.Value{}, fmt.Errorf("%w: nil element for %s", errElementType, elem)
		}
	}

	v := reflect.ValueOf(e)

	switch {
	case v.Type().AssignableTo(elem):
		return v, nil

	case elem.Kind() == reflect.Ptr && v.Type().AssignableTo(elem.Elem()):
		p := reflect.New(elem.Elem())
		p.Elem().Set(v)

		return p, nil

	case v.Kind() == reflect.Ptr && v.Type().Elem().AssignableTo(elem):
		return v.Elem(), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: cannot use %s as %s", errElementType, v.Type(), elem)
}

// valueOf turns a converted property value into a value of type t.
func valueOf(out any, t reflect.Type) (reflect.Value, error) {
	if out == nil {
		return reflect.Zero(t), nil
	}

	v := reflect.ValueOf(out)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%w: converter returned %s for %s", errElementType, v.Type(), t)
	}

	return v, nil
}
