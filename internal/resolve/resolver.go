package resolve

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"graph-mapper/internal/access"
	"graph-mapper/internal/graph"
	"graph-mapper/internal/metadata"
	"graph-mapper/internal/metrics"
)

type operation int

const (
	read operation = iota + 1
	write
)

func (op operation) String() string {
	if op == write {
		return "write"
	}

	return "read"
}

func (op operation) role() metadata.Role {
	if op == write {
		return metadata.Setter
	}

	return metadata.Getter
}

type cacheKey struct {
	typ       reflect.Type
	name      string
	dir       graph.Direction
	op        operation
	valueType reflect.Type
}

// Resolver resolves and caches accessors over one metadata registry.
// It is safe for concurrent use.
type Resolver struct {
	registry *metadata.Registry
	logger   *zap.Logger
	metrics  *metrics.Collector

	cache sync.Map
}

// New returns a resolver over reg.
func New(reg *metadata.Registry, opts ...Option) *Resolver {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	return &Resolver{
		registry: reg,
		logger:   o.logger,
		metrics:  o.metrics,
	}
}

// Registry returns the metadata registry the resolver works on.
func (r *Resolver) Registry() *metadata.Registry {
	return r.registry
}

// ResolveWriter returns the accessor that writes name on values of cm.
// A relationship direction selects relationship members, DirectionNone
// selects properties. valueType, when known, is the type of the value to be
// written; it disambiguates relationship members and may be nil.
func (r *Resolver) ResolveWriter(cm *metadata.ClassMetadata, name string, dir graph.Direction, valueType reflect.Type) (access.Writer, error) {
	a, err := r.resolve(cm, name, dir, write, valueType)
	if err != nil {
		return nil, err
	}

	w, _ := a.(access.Writer)

	return w, nil
}

// ResolveReader returns the accessor that reads name on values of cm.
func (r *Resolver) ResolveReader(cm *metadata.ClassMetadata, name string, dir graph.Direction) (access.Reader, error) {
	a, err := r.resolve(cm, name, dir, read, nil)
	if err != nil {
		return nil, err
	}

	rd, _ := a.(access.Reader)

	return rd, nil
}

// ResolveWriterFor is ResolveWriter for the registered type of instance.
func (r *Resolver) ResolveWriterFor(instance any, name string, dir graph.Direction, valueType reflect.Type) (access.Writer, error) {
	cm, err := r.classOf(instance, name, dir)
	if err != nil {
		return nil, err
	}

	return r.ResolveWriter(cm, name, dir, valueType)
}

// ResolveReaderFor is ResolveReader for the registered type of instance.
func (r *Resolver) ResolveReaderFor(instance any, name string, dir graph.Direction) (access.Reader, error) {
	cm, err := r.classOf(instance, name, dir)
	if err != nil {
		return nil, err
	}

	return r.ResolveReader(cm, name, dir)
}

func (r *Resolver) classOf(instance any, name string, dir graph.Direction) (*metadata.ClassMetadata, error) {
	cm, ok := r.registry.ClassMetadataOf(instance)
	if !ok {
		return nil, &access.ResolutionError{
			Kind:      access.NoMatch,
			Type:      fmt.Sprintf("%T", instance),
			Name:      name,
			Direction: dir,
			Err:       fmt.Errorf("type %T is not registered", instance),
		}
	}

	return cm, nil
}

func (r *Resolver) resolve(cm *metadata.ClassMetadata, name string, dir graph.Direction, op operation, valueType reflect.Type) (any, error) {
	key := cacheKey{typ: cm.Type(), name: name, dir: dir, op: op, valueType: valueType}

	if cached, ok := r.cache.Load(key); ok {
		r.metrics.RecordCache(true)
		return cached, nil
	}

	r.metrics.RecordCache(false)

	s := &search{cm: cm, name: name, op: op, valueType: valueType}

	c, err := s.run(dir)
	if err != nil {
		r.recordFailure(op, err)
		r.logger.Debug("accessor not resolved",
			zap.String("type", cm.QualifiedName()),
			zap.String("name", name),
			zap.Stringer("direction", dir),
			zap.Stringer("operation", op),
			zap.Error(err))

		return nil, err
	}

	a, err := r.build(cm, name, op, c)
	if err != nil {
		return nil, err
	}

	r.metrics.RecordResolution(op.String(), c.rule.String(), metrics.OutcomeResolved)

	// concurrent first resolutions build equivalent accessors
	actual, loaded := r.cache.LoadOrStore(key, a)
	if !loaded {
		r.logger.Debug("accessor resolved",
			zap.String("type", cm.QualifiedName()),
			zap.String("name", name),
			zap.Stringer("direction", dir),
			zap.Stringer("operation", op),
			zap.Stringer("accessor", infoOf(a)))
	}

	return actual, nil
}

func (r *Resolver) recordFailure(op operation, err error) {
	var resErr *access.ResolutionError
	if !errors.As(err, &resErr) {
		return
	}

	outcome := metrics.OutcomeNoMatch
	if resErr.Kind == access.Ambiguous {
		outcome = metrics.OutcomeAmbiguous
	}

	r.metrics.RecordResolution(op.String(), "none", outcome)
}

// build turns a candidate into its accessor.
func (r *Resolver) build(cm *metadata.ClassMetadata, name string, op operation, c candidate) (any, error) {
	info := access.Info{
		Rule:      c.rule,
		Type:      cm.QualifiedName(),
		Name:      name,
		Direction: c.dir,
	}

	var (
		a   any
		err error
	)

	switch {
	case c.field != nil:
		a, err = access.NewFieldAccessor(cm, c.field, info)
	case op == write:
		a, err = access.NewMethodWriter(cm, c.method, c.conv, info)
	default:
		a, err = access.NewMethodReader(cm, c.method, c.conv, info)
	}

	if err != nil {
		return nil, fmt.Errorf("binding accessor for %s.%s: %w", cm.Name(), name, err)
	}

	if r.metrics == nil {
		return a, nil
	}

	return instrument(a, op, r.metrics), nil
}

func infoOf(a any) access.Info {
	switch v := a.(type) {
	case access.Reader:
		return v.Info()
	case access.Writer:
		return v.Info()
	default:
		return access.Info{}
	}
}
