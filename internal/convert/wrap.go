package convert

import (
	"fmt"
	"reflect"
)

// nullable adapts a converter of T to *T. Nil pointers map to nil.
type nullable struct {
	inner Converter
	typ   reflect.Type
}

func (c nullable) ToGraph(value any) (any, error) {
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsNil() {
		return nil, nil
	}

	return c.inner.ToGraph(v.Elem().Interface())
}

func (c nullable) FromGraph(value any) (any, error) {
	if value == nil {
		return reflect.Zero(c.typ).Interface(), nil
	}

	if reflect.TypeOf(value) == c.typ {
		return value, nil
	}

	out, err := c.inner.FromGraph(value)
	if err != nil {
		return nil, err
	}

	ptr := reflect.New(c.typ.Elem())
	ptr.Elem().Set(reflect.ValueOf(out))

	return ptr.Interface(), nil
}

// elementwise adapts a converter of T to []T or [N]T.
type elementwise struct {
	inner Converter
	typ   reflect.Type
}

func (c elementwise) ToGraph(value any) (any, error) {
	v := reflect.ValueOf(value)
	if !v.IsValid() || (v.Kind() == reflect.Slice && v.IsNil()) {
		return nil, nil
	}

	out := make([]any, v.Len())
	for i := range out {
		elem, err := c.inner.ToGraph(v.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		out[i] = elem
	}

	return out, nil
}

func (c elementwise) FromGraph(value any) (any, error) {
	if value == nil {
		return reflect.Zero(c.typ).Interface(), nil
	}

	v := reflect.ValueOf(value)
	if v.Type() == c.typ {
		return value, nil
	}

	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %T is not a list", ErrConversion, value)
	}

	out, err := newList(c.typ, v.Len())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversion, err)
	}

	for i := range v.Len() {
		elem, err := c.inner.FromGraph(v.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		if elem != nil {
			out.Index(i).Set(reflect.ValueOf(elem))
		}
	}

	return out.Interface(), nil
}
