package access

import (
	"errors"
	"reflect"
	"unsafe"

	"graph-mapper/internal/convert"
	"graph-mapper/internal/metadata"
)

var errNoPath = errors.New("field is not reachable from the type")

// FieldAccessor reads and writes a struct field directly. It reaches
// inherited fields through embedded parents, allocating nil embedded
// pointers on write, and unexported fields.
type FieldAccessor struct {
	info  Info
	owner reflect.Type
	field *metadata.FieldMetadata
	path  []int
	conv  convert.Converter
}

var (
	_ Reader = (*FieldAccessor)(nil)
	_ Writer = (*FieldAccessor)(nil)
)

// NewFieldAccessor binds field f as seen from type cm. Property fields
// convert through their bound converter.
func NewFieldAccessor(cm *metadata.ClassMetadata, f *metadata.FieldMetadata, info Info) (*FieldAccessor, error) {
	path, ok := cm.FieldPath(f)
	if !ok {
		return nil, errNoPath
	}

	info.Capability = Field
	info.Member = f.Name

	return &FieldAccessor{
		info:  info,
		owner: cm.Type(),
		field: f,
		path:  path,
		conv:  f.Converter,
	}, nil
}

func (a *FieldAccessor) Info() Info { return a.info }

// Field returns the field metadata the accessor is bound to.
func (a *FieldAccessor) Field() *metadata.FieldMetadata { return a.field }

func (a *FieldAccessor) Read(instance any) (any, error) {
	v, err := target(a.owner, instance, false)
	if err != nil {
		return nil, failed(a.info, err)
	}

	fv, ok := walk(v, a.path, false)
	if !ok {
		// a nil embedded parent holds zero values
		fv = reflect.Zero(a.field.Type)
	}

	value := readable(fv).Interface()

	if a.conv == nil {
		return value, nil
	}

	out, err := a.conv.ToGraph(value)
	if err != nil {
		return nil, failed(a.info, err)
	}

	return out, nil
}

func (a *FieldAccessor) Write(instance any, value any) error {
	v, err := target(a.owner, instance, true)
	if err != nil {
		return failed(a.info, err)
	}

	var nv reflect.Value

	if a.conv != nil {
		out, err := a.conv.FromGraph(value)
		if err != nil {
			return failed(a.info, err)
		}

		nv, err = valueOf(out, a.field.Type)
		if err != nil {
			return failed(a.info, err)
		}
	} else {
		nv, err = assemble(a.field.Type, a.field.Container, value)
		if err != nil {
			return failed(a.info, err)
		}
	}

	fv, _ := walk(v, a.path, true)
	settable(fv).Set(nv)

	return nil
}

// walk follows an index path from an addressable struct value. Embedded
// pointers met on the way are allocated when alloc is set; otherwise a nil
// one stops the walk.
func walk(v reflect.Value, path []int, alloc bool) (reflect.Value, bool) {
	for i, idx := range path {
		v = v.Field(idx)
		if i == len(path)-1 {
			break
		}

		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				if !alloc {
					return reflect.Value{}, false
				}

				settable(v).Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}
	}

	return v, true
}

// settable returns a settable view of an addressable field, including
// unexported ones.
func settable(v reflect.Value) reflect.Value {
	if v.CanSet() {
		return v
	}

	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

func readable(v reflect.Value) reflect.Value {
	if v.CanInterface() || !v.CanAddr() {
		return v
	}

	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}
