package convert

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"graph-mapper/primitive"
)

var (
	// ErrNoConverter is returned when no converter can serve a declared type.
	ErrNoConverter = errors.New("no converter")
	// ErrUnknownConverter is returned for a converter name nobody registered.
	ErrUnknownConverter = errors.New("unknown converter")
	// ErrConversion wraps failures while converting a value.
	ErrConversion = errors.New("conversion failed")
)

// Built-in converter names.
const (
	Identity = "identity"
	Enum     = "enum"
	DateTime = "datetime"
	Epoch    = "epoch"
	Date     = "date"
	Base64   = "base64"
	UUID     = "uuid"
)

// Converter translates one declared Go type to and from its graph form.
// Converters are stateless and safe for concurrent use.
type Converter interface {
	// ToGraph converts a value of the declared type to a storable value.
	ToGraph(value any) (any, error)
	// FromGraph converts a storable value to the declared type.
	FromGraph(value any) (any, error)
}

// Factory binds a named converter to a declared type. It returns an error
// wrapping ErrNoConverter if the converter cannot serve that type.
type Factory func(declared reflect.Type) (Converter, error)

// Field is what ConverterFor needs to know about a member.
type Field interface {
	DeclaredType() reflect.Type
	ConverterName() string
}

// Registry holds converter factories by name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a registry holding the built-in converters.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	r.factories[Identity] = newIdentity
	r.factories[Enum] = newEnum
	r.factories[DateTime] = newDateTime
	r.factories[Epoch] = newEpoch
	r.factories[Date] = newDate
	r.factories[Base64] = newBase64
	r.factories[UUID] = newUUID

	return r
}

// Register adds a named converter. Names are unique.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" || factory == nil {
		return errors.New("converter name and factory are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("converter %q already registered", name)
	}

	r.factories[name] = factory

	return nil
}

// Names returns the registered converter names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ConverterFor returns the converter for a member.
func (r *Registry) ConverterFor(f Field) (Converter, error) {
	if name := f.ConverterName(); name != "" {
		return r.Lookup(name, f.DeclaredType())
	}

	return r.ForType(f.DeclaredType())
}

// Lookup binds the named converter to t. When the converter does not accept
// t itself but accepts its pointer or element type, the result is wrapped
// to handle nil pointers or to convert collections element by element.
func (r *Registry) Lookup(name string, t reflect.Type) (Converter, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownConverter, name)
	}

	conv, err := factory(t)
	if err == nil {
		return conv, nil
	}

	switch t.Kind() {
	case reflect.Ptr:
		inner, innerErr := r.Lookup(name, t.Elem())
		if innerErr == nil {
			return nullable{inner: inner, typ: t}, nil
		}
	case reflect.Slice, reflect.Array:
		inner, innerErr := r.Lookup(name, t.Elem())
		if innerErr == nil {
			return elementwise{inner: inner, typ: t}, nil
		}
	}

	return nil, err
}

var (
	timeType  = reflect.TypeFor[time.Time]()
	bytesType = reflect.TypeFor[[]byte]()
	uuidType  = reflect.TypeFor[uuid.UUID]()
)

// ForType returns the default converter for t.
func (r *Registry) ForType(t reflect.Type) (Converter, error) {
	if t == nil {
		return nil, fmt.Errorf("%w for nil type", ErrNoConverter)
	}

	switch {
	case t == timeType:
		return r.Lookup(DateTime, t)
	case t == bytesType:
		return r.Lookup(Base64, t)
	case t == uuidType:
		return r.Lookup(UUID, t)
	case isEnumLike(t):
		return r.Lookup(Enum, t)
	}

	switch t.Kind() {
	case reflect.Ptr:
		inner, err := r.ForType(t.Elem())
		if err != nil {
			return nil, err
		}

		return nullable{inner: inner, typ: t}, nil
	case reflect.Slice, reflect.Array:
		inner, err := r.ForType(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %w", ErrNoConverter, t, err)
		}

		// lists of storable values are storable as a whole
		if _, ok := inner.(identity); ok {
			return r.Lookup(Identity, t)
		}

		return elementwise{inner: inner, typ: t}, nil
	}

	if primitive.IsStorable(t) {
		return r.Lookup(Identity, t)
	}

	return nil, fmt.Errorf("%w for %s", ErrNoConverter, t)
}
