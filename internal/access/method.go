package access

import (
	"errors"
	"fmt"
	"reflect"

	"graph-mapper/internal/convert"
	"graph-mapper/internal/metadata"
)

var errRole = errors.New("method has the wrong role")

// MethodReader reads a member through a getter.
type MethodReader struct {
	info   Info
	owner  reflect.Type
	method *metadata.MethodMetadata
	conv   convert.Converter
}

// MethodWriter writes a member through a setter.
type MethodWriter struct {
	info   Info
	owner  reflect.Type
	method *metadata.MethodMetadata
	conv   convert.Converter
}

var (
	_ Reader = (*MethodReader)(nil)
	_ Writer = (*MethodWriter)(nil)
)

// NewMethodReader binds getter m of type cm. conv is nil for relationship
// getters.
func NewMethodReader(cm *metadata.ClassMetadata, m *metadata.MethodMetadata, conv convert.Converter, info Info) (*MethodReader, error) {
	if m.Role != metadata.Getter {
		return nil, fmt.Errorf("%w: %s is a %s", errRole, m, m.Role)
	}

	info.Capability = Method
	info.Member = m.Name

	return &MethodReader{info: info, owner: cm.Type(), method: m, conv: conv}, nil
}

// NewMethodWriter binds setter m of type cm. conv is nil for relationship
// setters.
func NewMethodWriter(cm *metadata.ClassMetadata, m *metadata.MethodMetadata, conv convert.Converter, info Info) (*MethodWriter, error) {
	if m.Role != metadata.Setter {
		return nil, fmt.Errorf("%w: %s is a %s", errRole, m, m.Role)
	}

	info.Capability = Method
	info.Member = m.Name

	return &MethodWriter{info: info, owner: cm.Type(), method: m, conv: conv}, nil
}

func (r *MethodReader) Info() Info { return r.info }

// Method returns the getter the reader is bound to.
func (r *MethodReader) Method() *metadata.MethodMetadata { return r.method }

func (r *MethodReader) Read(instance any) (any, error) {
	v, err := target(r.owner, instance, false)
	if err != nil {
		return nil, failed(r.info, err)
	}

	out, err := invoke(v.Addr().MethodByName(r.method.Name), nil, r.method.ReturnsError)
	if err != nil {
		return nil, failed(r.info, err)
	}

	value := out.Interface()
	if r.conv == nil {
		return value, nil
	}

	converted, err := r.conv.ToGraph(value)
	if err != nil {
		return nil, failed(r.info, err)
	}

	return converted, nil
}

func (w *MethodWriter) Info() Info { return w.info }

// Method returns the setter the writer is bound to.
func (w *MethodWriter) Method() *metadata.MethodMetadata { return w.method }

func (w *MethodWriter) Write(instance any, value any) error {
	v, err := target(w.owner, instance, true)
	if err != nil {
		return failed(w.info, err)
	}

	var arg reflect.Value

	if w.conv != nil {
		out, err := w.conv.FromGraph(value)
		if err != nil {
			return failed(w.info, err)
		}

		arg, err = valueOf(out, w.method.ValueType)
		if err != nil {
			return failed(w.info, err)
		}
	} else {
		arg, err = assemble(w.method.ValueType, w.method.Container, value)
		if err != nil {
			return failed(w.info, err)
		}
	}

	if _, err := invoke(v.Addr().MethodByName(w.method.Name), []reflect.Value{arg}, w.method.ReturnsError); err != nil {
		return failed(w.info, err)
	}

	return nil
}

// invoke calls fn and returns its value result, if any. A panic or a
// returned error fails the call.
func invoke(fn reflect.Value, args []reflect.Value, returnsError bool) (result reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	out := fn.Call(args)

	if returnsError {
		last := out[len(out)-1]
		if !last.IsNil() {
			return reflect.Value{}, last.Interface().(error)
		}

		out = out[:len(out)-1]
	}

	if len(out) == 0 {
		return reflect.Value{}, nil
	}

	return out[0], nil
}
