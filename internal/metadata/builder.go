package metadata

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"graph-mapper/internal/annotation"
	"graph-mapper/internal/common"
	"graph-mapper/internal/diagnostic"
	"graph-mapper/internal/graph"
	"graph-mapper/internal/match"
)

// embedded records the parent struct a type embeds.
type embedded struct {
	index int
	typ   reflect.Type
	ptr   bool
}

type builder struct {
	opts   options
	reader annotation.Reader
	diags  diagnostic.Diagnostics

	explicit map[reflect.Type]bool
	parents  map[reflect.Type]embedded
	classes  map[reflect.Type]*ClassMetadata
	byName   map[string][]*ClassMetadata
	sorted   []*ClassMetadata
	visible  map[*ClassMetadata]bool
}

// Build derives metadata for types and for every parent struct they embed.
// Pointer types are registered by their struct type. Input order and
// duplicates do not matter.
//
// On any configuration problem Build returns a *diagnostic.ConfigError
// listing all of them and no registry.
func Build(types []reflect.Type, opts ...Option) (*Registry, error) {
	o := newOptions(opts)

	b := &builder{
		opts:     o,
		reader:   annotation.Reader{TagKey: o.tagKey, Overlay: o.overlay},
		explicit: make(map[reflect.Type]bool),
		parents:  make(map[reflect.Type]embedded),
		classes:  make(map[reflect.Type]*ClassMetadata),
		byName:   make(map[string][]*ClassMetadata),
		visible:  make(map[*ClassMetadata]bool),
	}

	b.collect(types)
	b.discover()
	b.link()

	// classes are all known now, so relationship targets can be classified
	for _, cm := range b.sorted {
		b.buildFields(cm)
	}

	// methods infer relationships from visible fields
	for _, cm := range b.sorted {
		b.buildVisible(cm)
	}

	for _, cm := range b.sorted {
		b.buildMethods(cm)
	}

	for _, cm := range b.sorted {
		b.resolveIdentity(cm)
		b.checkAmbiguity(cm)
		b.logClass(cm)
	}

	for _, w := range b.diags.Warnings {
		o.logger.Warn("domain metadata warning", zap.String("diagnostic", w.String()))
	}

	if err := b.diags.Error(); err != nil {
		o.logger.Warn("domain metadata build failed",
			zap.Int("types", len(b.sorted)),
			zap.Int("errors", len(b.diags.Errors)))

		return nil, err
	}

	o.logger.Info("domain metadata built",
		zap.Int("types", len(b.sorted)),
		zap.Int("explicit", len(b.explicit)))

	return &Registry{
		byType:     b.classes,
		byName:     b.byName,
		classes:    b.sorted,
		converters: o.converters,
	}, nil
}

func qualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.String()
	}

	return t.PkgPath() + "." + t.Name()
}

func shortName(t reflect.Type) string {
	return common.PkgAlias(t.PkgPath()) + "." + t.Name()
}

// collect validates and normalizes the requested types.
func (b *builder) collect(types []reflect.Type) {
	for _, t := range types {
		if t == nil {
			b.diags.AddError(diagnostic.CodeNotStruct, "nil type cannot be registered", "", "")
			continue
		}

		t = graph.Deref(t)

		switch {
		case t.Kind() != reflect.Struct:
			b.diags.AddErrorf(diagnostic.CodeNotStruct, t.String(), "", "%s is a %s, not a struct", t, t.Kind())
		case t.Name() == "":
			b.diags.AddErrorf(diagnostic.CodeNotStruct, t.String(), "", "anonymous struct types cannot be registered")
		default:
			b.explicit[t] = true
		}
	}
}

// discover adds the parent structs of requested types, transitively.
func (b *builder) discover() {
	var d dealer
	for t := range b.explicit {
		d.Needs(t)
	}

	for t, ok := d.NextNeeds(); ok; t, ok = d.NextNeeds() {
		if emb, found := b.findParent(t); found {
			b.parents[t] = emb
			d.Needs(emb.typ)
		}
	}

	for _, t := range d.Seen() {
		b.classes[t] = &ClassMetadata{
			typ:           t,
			name:          t.Name(),
			qualifiedName: qualifiedName(t),
			implicit:      !b.explicit[t],
		}
	}

	for _, cm := range b.classes {
		b.sorted = append(b.sorted, cm)
	}

	sort.Slice(b.sorted, func(i, j int) bool {
		if b.sorted[i].qualifiedName != b.sorted[j].qualifiedName {
			return b.sorted[i].qualifiedName < b.sorted[j].qualifiedName
		}

		return b.sorted[i].typ.String() < b.sorted[j].typ.String()
	})

	for _, cm := range b.sorted {
		b.byName[cm.qualifiedName] = append(b.byName[cm.qualifiedName], cm)
		if short := shortName(cm.typ); short != cm.qualifiedName {
			b.byName[short] = append(b.byName[short], cm)
		}

		b.byName[cm.name] = append(b.byName[cm.name], cm)
	}
}

// findParent returns the single embedded struct t extends. Embedded structs
// without exported fields (sync.Mutex and the like) are not parents unless
// registered explicitly.
func (b *builder) findParent(t reflect.Type) (embedded, bool) {
	var found []embedded

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}

		ft, ptr := f.Type, false
		if ft.Kind() == reflect.Ptr {
			ft, ptr = ft.Elem(), true
		}

		if ft.Kind() != reflect.Struct {
			continue
		}

		set, ok := b.parseFieldTag(t, f)
		if !ok || set.Transient {
			continue
		}

		if !set.IsZero() {
			b.diags.AddErrorf(diagnostic.CodeAnnotationConflict, qualifiedName(t), f.Name,
				"embedded parent %s cannot carry annotations other than transient", ft)

			continue
		}

		if !b.explicit[ft] && !hasExportedFields(ft) {
			continue
		}

		found = append(found, embedded{index: i, typ: ft, ptr: ptr})
	}

	switch len(found) {
	case 0:
		return embedded{}, false
	case 1:
		return found[0], true
	default:
		names := make([]string, len(found))
		for i, e := range found {
			names[i] = e.typ.Name()
		}

		b.diags.AddErrorf(diagnostic.CodeBadHierarchy, qualifiedName(t), "",
			"embeds more than one parent struct (%s); mark all but one transient", strings.Join(names, ", "))

		return embedded{}, false
	}
}

func hasExportedFields(t reflect.Type) bool {
	for i := range t.NumField() {
		if t.Field(i).IsExported() {
			return true
		}
	}

	return false
}

// link wires parent references and breaks embedding cycles, which Go
// permits through pointers.
func (b *builder) link() {
	for _, cm := range b.sorted {
		if emb, ok := b.parents[cm.typ]; ok {
			cm.parent = b.classes[emb.typ]
			cm.parentIndex = emb.index
			cm.parentPtr = emb.ptr
		}
	}

	for _, cm := range b.sorted {
		seen := map[*ClassMetadata]bool{cm: true}
		chain := []string{cm.name}

		for p := cm.parent; p != nil; p = p.parent {
			chain = append(chain, p.name)
			if seen[p] {
				b.diags.AddErrorf(diagnostic.CodeBadHierarchy, cm.qualifiedName, "",
					"embedding cycle: %s", strings.Join(chain, " -> "))

				cm.parent = nil

				break
			}

			seen[p] = true
		}
	}
}

func (b *builder) parseFieldTag(owner reflect.Type, f reflect.StructField) (annotation.Set, bool) {
	tag, _ := b.reader.FieldTag(owner, f)

	set, err := annotation.Parse(tag)
	if err != nil {
		b.annotationError(qualifiedName(owner), f.Name, err)
		return annotation.Set{}, false
	}

	return set, true
}

func (b *builder) annotationError(typeName, member string, err error) {
	code := diagnostic.CodeTagSyntax
	if errors.Is(err, annotation.ErrConflict) {
		code = diagnostic.CodeAnnotationConflict
	}

	b.diags.AddError(code, err.Error(), typeName, member)
}

func (b *builder) buildFields(cm *ClassMetadata) {
	t := cm.typ

	for i := range t.NumField() {
		f := t.Field(i)

		// embedded structs are the parent or are ignored
		if f.Anonymous && graph.Deref(f.Type).Kind() == reflect.Struct {
			continue
		}

		if f.Name == "_" {
			continue
		}

		set, ok := b.parseFieldTag(t, f)
		if !ok || set.Transient {
			continue
		}

		kind, elem := graph.ClassifyContainer(f.Type)
		if !kind.IsContainer() {
			elem = f.Type
		}

		fm := &FieldMetadata{
			Name:        f.Name,
			Index:       i,
			Type:        f.Type,
			Container:   kind,
			ElementType: elem,
			Exported:    f.IsExported(),
			Annotations: set,
			owner:       cm,
		}

		if b.classifyField(cm, fm) {
			cm.fields = append(cm.fields, fm)
		}
	}
}

// classifyField decides whether fm is a relationship or a property and binds
// its relationship metadata or converter.
func (b *builder) classifyField(cm *ClassMetadata, fm *FieldMetadata) bool {
	set := fm.Annotations
	target := graph.Deref(fm.ElementType)
	opaque := target.Kind() == reflect.Interface

	switch {
	case set.IsRelationship():
		resolved, ok := b.relationshipTarget(cm, fm.Name, set.Target, target)
		if !ok {
			return false
		}

		fm.Opaque = opaque
		fm.Relationship = &RelationshipMetadata{
			Type:      relationshipType(set, fm.Name),
			Direction: direction(set),
			Target:    resolved,
			Explicit:  true,
			Field:     fm,
		}

		return true

	case b.isDomainType(target) && set.Property == "" && set.Converter == "" && !set.Identity:
		fm.Relationship = &RelationshipMetadata{
			Type:      match.RelationshipType(fm.Name),
			Direction: graph.Outgoing,
			Target:    target,
			Field:     fm,
		}

		return true

	case opaque && set.Converter == "":
		b.diags.AddErrorf(diagnostic.CodeOpaqueElement, cm.qualifiedName, fm.Name,
			"element type %s is an interface; annotate the relationship with target=<Type> or mark the field transient",
			fm.ElementType)

		return false
	}

	fm.PropertyName = set.Property
	if fm.PropertyName == "" {
		fm.PropertyName = match.LowerCamel(fm.Name)
	}

	if set.Identity && !isIdentityType(fm.Type) {
		b.diags.AddErrorf(diagnostic.CodeMalformedIdentity, cm.qualifiedName, fm.Name,
			"identity field must be an integer, string or uuid.UUID, not %s", fm.Type)

		return false
	}

	conv, err := b.opts.converters.ConverterFor(fm)
	if err != nil {
		if !fm.Exported && set.IsZero() {
			b.diags.AddWarning(diagnostic.CodeNoConverter,
				"unexported field skipped: "+err.Error(), cm.qualifiedName, fm.Name)

			return false
		}

		b.diags.AddError(diagnostic.CodeNoConverter, err.Error(), cm.qualifiedName, fm.Name)

		return false
	}

	fm.Converter = conv

	return true
}

func relationshipType(set annotation.Set, member string) string {
	if set.Relationship != "" {
		return set.Relationship
	}

	return match.RelationshipType(member)
}

func direction(set annotation.Set) graph.Direction {
	if set.Direction != graph.DirectionNone {
		return set.Direction
	}

	return graph.Outgoing
}

func (b *builder) isDomainType(t reflect.Type) bool {
	if t == nil || t.Kind() != reflect.Struct {
		return false
	}

	_, ok := b.classes[t]

	return ok
}

// relationshipTarget resolves the related type of a relationship member from
// its target= annotation or its element type.
func (b *builder) relationshipTarget(cm *ClassMetadata, member, targetName string, elem reflect.Type) (reflect.Type, bool) {
	if targetName == "" {
		switch {
		case elem.Kind() == reflect.Interface:
			b.diags.AddErrorf(diagnostic.CodeOpaqueElement, cm.qualifiedName, member,
				"element type %s is an interface; name the related type with target=<Type>", elem)

			return nil, false
		case !b.isDomainType(elem):
			b.diags.AddErrorf(diagnostic.CodeUnknownTarget, cm.qualifiedName, member,
				"related type %s is not registered", elem)

			return nil, false
		}

		return elem, true
	}

	matches := b.byName[targetName]
	if len(matches) != 1 {
		d := diagnostic.Diagnostic{
			Severity:    diagnostic.DiagnosticError,
			Code:        diagnostic.CodeUnknownTarget,
			Message:     fmt.Sprintf("target %q does not name exactly one registered type", targetName),
			Type:        cm.qualifiedName,
			FieldPath:   member,
			Suggestions: match.Suggestions(targetName, b.typeNames(), match.DefaultSuggestionCount),
		}
		b.diags.Errors = append(b.diags.Errors, d)

		return nil, false
	}

	target := matches[0].typ

	switch {
	case elem.Kind() == reflect.Interface:
		if !target.Implements(elem) && !reflect.PointerTo(target).Implements(elem) {
			b.diags.AddErrorf(diagnostic.CodeAnnotationConflict, cm.qualifiedName, member,
				"target %s does not implement element type %s", target, elem)

			return nil, false
		}
	case elem != target:
		b.diags.AddErrorf(diagnostic.CodeAnnotationConflict, cm.qualifiedName, member,
			"target %s does not match element type %s", target, elem)

		return nil, false
	}

	return target, true
}

func (b *builder) typeNames() []string {
	names := make([]string, 0, len(b.sorted))
	for _, cm := range b.sorted {
		names = append(names, cm.name)
	}

	return names
}

var uuidType = reflect.TypeFor[uuid.UUID]()

// isIdentityType accepts integers, pointers to integers, strings and UUIDs.
func isIdentityType(t reflect.Type) bool {
	if t == uuidType {
		return true
	}

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.String:
		return true
	default:
		return false
	}
}

func (b *builder) buildMethods(cm *ClassMetadata) {
	tags, err := b.reader.MethodTags(cm.typ)
	if err != nil {
		b.diags.AddError(diagnostic.CodeAnnotationConflict, err.Error(), cm.qualifiedName, "MethodTags")
	}

	ptr := reflect.PointerTo(cm.typ)
	inSet := make(map[string]bool, ptr.NumMethod())

	// methods come sorted by name
	for i := range ptr.NumMethod() {
		m := ptr.Method(i)
		inSet[m.Name] = true

		tag, annotated := tags[m.Name]

		sig, err := parseAccessor(m)
		if err != nil {
			if annotated && !annotation.IsHookMethod(m.Name) {
				b.diags.AddErrorf(diagnostic.CodeAnnotationConflict, cm.qualifiedName, m.Name,
					"annotated method is not usable: %v", err)
			}

			continue
		}

		var set annotation.Set
		if annotated {
			if set, err = annotation.Parse(tag); err != nil {
				b.annotationError(cm.qualifiedName, m.Name, err)
				continue
			}
		}

		if set.Transient {
			continue
		}

		if set.Identity {
			b.diags.AddErrorf(diagnostic.CodeAnnotationConflict, cm.qualifiedName, m.Name,
				"a method cannot be the identity")

			continue
		}

		kind, elem := graph.ClassifyContainer(sig.ValueType)
		if !kind.IsContainer() {
			elem = sig.ValueType
		}

		mm := &MethodMetadata{
			Name:         m.Name,
			Member:       sig.Member,
			Role:         sig.Role,
			ValueType:    sig.ValueType,
			Container:    kind,
			ElementType:  elem,
			ReturnsError: sig.ReturnsError,
			Annotations:  set,
			owner:        cm,
		}

		if b.classifyMethod(cm, mm) {
			cm.methods = append(cm.methods, mm)
		}
	}

	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if !inSet[name] {
			b.diags.AddErrorf(diagnostic.CodeAnnotationConflict, cm.qualifiedName, name,
				"annotation names a method *%s does not have", cm.name)
		}
	}
}

// classifyMethod binds a method to what it reads or writes. Annotated
// methods declare it. An un-annotated method is a relationship accessor only
// when its member names a visible relationship field of the same target,
// and then serves that field's relationship; otherwise it is a property
// accessor when a converter exists, and no accessor at all when none does.
func (b *builder) classifyMethod(cm *ClassMetadata, mm *MethodMetadata) bool {
	set := mm.Annotations
	target := graph.Deref(mm.ElementType)

	switch {
	case set.IsRelationship():
		resolved, ok := b.relationshipTarget(cm, mm.Name, set.Target, target)
		if !ok {
			return false
		}

		mm.Relationship = &RelationshipMetadata{
			Type:      relationshipType(set, mm.Member),
			Direction: direction(set),
			Target:    resolved,
			Explicit:  true,
			Method:    mm,
		}

		return true

	case set.IsZero():
		if f := backingField(cm, mm); f != nil {
			mm.Relationship = &RelationshipMetadata{
				Type:      f.Relationship.Type,
				Direction: f.Relationship.Direction,
				Target:    f.Relationship.Target,
				Method:    mm,
			}

			return true
		}

		conv, err := b.opts.converters.ConverterFor(mm)
		if err != nil {
			return false
		}

		mm.Converter = conv

		return true
	}

	conv, err := b.opts.converters.ConverterFor(mm)
	if err != nil {
		b.diags.AddError(diagnostic.CodeNoConverter, err.Error(), cm.qualifiedName, mm.Name)
		return false
	}

	mm.Converter = conv

	return true
}

// backingField returns the visible relationship field that mm reads or
// writes: same member name after normalization and same related type.
func backingField(cm *ClassMetadata, mm *MethodMetadata) *FieldMetadata {
	elem := graph.Deref(mm.ElementType)

	for _, f := range cm.visible {
		if !f.IsRelationship() || !match.SameIdent(f.Name, mm.Member) {
			continue
		}

		if elem == f.Relationship.Target || (f.Opaque && elem == graph.Deref(f.ElementType)) {
			return f
		}
	}

	return nil
}

// buildVisible computes the field union, parents first.
func (b *builder) buildVisible(cm *ClassMetadata) {
	if b.visible[cm] {
		return
	}

	b.visible[cm] = true

	own := make(map[string]bool, len(cm.fields))
	for _, f := range cm.fields {
		own[f.Name] = true
	}

	if cm.parent != nil {
		b.buildVisible(cm.parent)

		for _, f := range cm.parent.visible {
			if !own[f.Name] {
				cm.visible = append(cm.visible, f)
			}
		}
	}

	cm.visible = append(cm.visible, cm.fields...)
}

func (b *builder) resolveIdentity(cm *ClassMetadata) {
	var tagged []*FieldMetadata

	for _, f := range cm.visible {
		if f.Annotations.Identity {
			tagged = append(tagged, f)
		}
	}

	switch {
	case len(tagged) > 1:
		if anyOwned(cm, tagged) {
			b.diags.AddErrorf(diagnostic.CodeMalformedIdentity, cm.qualifiedName, "",
				"identity declared by more than one field: %s", fieldNames(tagged))
		}

		return
	case len(tagged) == 1:
		cm.identity = tagged[0]
		return
	}

	for _, f := range cm.visible {
		if !f.IsRelationship() && b.isIdentityName(f.Name) && isIdentityType(f.Type) {
			cm.identity = f
			return
		}
	}
}

func (b *builder) isIdentityName(name string) bool {
	for _, candidate := range b.opts.identityNames {
		if strings.EqualFold(name, candidate) {
			return true
		}
	}

	return false
}

type relationshipKey struct {
	relType string
	dir     graph.Direction
	role    Role
}

func (b *builder) checkAmbiguity(cm *ClassMetadata) {
	rels := make(map[relationshipKey][]*FieldMetadata)
	props := make(map[string][]*FieldMetadata)

	for _, f := range cm.visible {
		if f.IsRelationship() {
			key := relationshipKey{relType: f.Relationship.Type, dir: f.Relationship.Direction}
			rels[key] = append(rels[key], f)
		} else {
			props[f.PropertyName] = append(props[f.PropertyName], f)
		}
	}

	for _, key := range sortedRelationshipKeys(rels) {
		if fields := rels[key]; len(fields) > 1 && anyOwned(cm, fields) {
			b.diags.AddErrorf(diagnostic.CodeAmbiguousRelationship, cm.qualifiedName, "",
				"relationship %s/%s is mapped by more than one field: %s", key.relType, key.dir, fieldNames(fields))
		}
	}

	for _, name := range sortedKeys(props) {
		if fields := props[name]; len(fields) > 1 && anyOwned(cm, fields) {
			b.diags.AddErrorf(diagnostic.CodeAnnotationConflict, cm.qualifiedName, "",
				"property %q is mapped by more than one field: %s", name, fieldNames(fields))
		}
	}

	methods := make(map[relationshipKey][]*MethodMetadata)
	for _, m := range cm.methods {
		if m.Relationship != nil && m.Relationship.Explicit {
			key := relationshipKey{relType: m.Relationship.Type, dir: m.Relationship.Direction, role: m.Role}
			methods[key] = append(methods[key], m)
		}
	}

	for _, key := range sortedRelationshipKeys(methods) {
		group := methods[key]
		if len(group) > 1 && !b.inheritedGroup(cm, group) {
			names := make([]string, len(group))
			for i, m := range group {
				names[i] = m.Name
			}

			b.diags.AddErrorf(diagnostic.CodeAmbiguousRelationship, cm.qualifiedName, "",
				"relationship %s/%s is mapped by more than one %s: %s",
				key.relType, key.dir, key.role, strings.Join(names, ", "))
		}
	}
}

// inheritedGroup reports whether every method of group is also an annotated
// relationship method of cm's parent, so the parent reports it already.
func (b *builder) inheritedGroup(cm *ClassMetadata, group []*MethodMetadata) bool {
	if cm.parent == nil {
		return false
	}

	for _, m := range group {
		pm, ok := cm.parent.MethodByName(m.Name)
		if !ok || pm.Relationship == nil || !pm.Relationship.Explicit {
			return false
		}
	}

	return true
}

func anyOwned(cm *ClassMetadata, fields []*FieldMetadata) bool {
	for _, f := range fields {
		if f.owner == cm {
			return true
		}
	}

	return false
}

func fieldNames(fields []*FieldMetadata) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}

	return strings.Join(names, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func sortedRelationshipKeys[V any](m map[relationshipKey]V) []relationshipKey {
	keys := make([]relationshipKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].relType != keys[j].relType {
			return keys[i].relType < keys[j].relType
		}

		if keys[i].dir != keys[j].dir {
			return keys[i].dir < keys[j].dir
		}

		return keys[i].role < keys[j].role
	})

	return keys
}

func (b *builder) logClass(cm *ClassMetadata) {
	if ce := b.opts.logger.Check(zap.DebugLevel, "class metadata"); ce != nil {
		fields := []zap.Field{
			zap.String("type", cm.qualifiedName),
			zap.Int("fields", len(cm.visible)),
			zap.Int("methods", len(cm.methods)),
			zap.Int("relationships", len(cm.Relationships())),
			zap.Bool("implicit", cm.implicit),
		}

		if cm.parent != nil {
			fields = append(fields, zap.String("parent", cm.parent.qualifiedName))
		}

		if id, ok := cm.Identity(); ok {
			fields = append(fields, zap.String("identity", id.Name))
		}

		ce.Write(fields...)
	}
}
