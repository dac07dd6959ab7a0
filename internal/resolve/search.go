package resolve

import (
	"reflect"
	"sort"

	"graph-mapper/internal/access"
	"graph-mapper/internal/convert"
	"graph-mapper/internal/graph"
	"graph-mapper/internal/match"
	"graph-mapper/internal/metadata"
)

// candidate is a member picked by one of the rules.
type candidate struct {
	rule   access.Rule
	dir    graph.Direction
	field  *metadata.FieldMetadata
	method *metadata.MethodMetadata
	conv   convert.Converter
}

func (c candidate) String() string {
	if c.field != nil {
		return c.field.Name
	}

	return c.method.Name
}

// search is one resolution attempt.
type search struct {
	cm        *metadata.ClassMetadata
	name      string
	op        operation
	valueType reflect.Type
}

type step func(s *search, dir graph.Direction) []candidate

var (
	relationshipSteps = []step{
		(*search).annotatedRelationshipMethods,
		(*search).annotatedRelationshipFields,
		(*search).conventionalRelationshipMethods,
		(*search).conventionalRelationshipFields,
	}

	propertySteps = []step{
		(*search).annotatedPropertyMethods,
		(*search).annotatedPropertyFields,
		(*search).conventionalPropertyMethods,
		(*search).conventionalPropertyFields,
	}
)

func (s *search) run(dir graph.Direction) (candidate, error) {
	steps := propertySteps
	if dir.IsRelationship() {
		steps = relationshipSteps
	}

	for _, d := range dir.Fallbacks() {
		for _, st := range steps {
			found := st(s, d)

			switch len(found) {
			case 0:
				continue
			case 1:
				return found[0], nil
			default:
				return candidate{}, s.ambiguous(dir, found)
			}
		}
	}

	if dir.IsRelationship() && s.op == write && s.valueType != nil {
		found := s.typeMatch(dir)

		switch len(found) {
		case 0:
		case 1:
			return found[0], nil
		default:
			return candidate{}, s.ambiguous(dir, found)
		}
	}

	return candidate{}, s.noMatch(dir)
}

func (s *search) annotatedRelationshipMethods(dir graph.Direction) []candidate {
	var out []candidate

	for _, m := range s.cm.Methods() {
		rel := m.Relationship
		if m.Role != s.op.role() || rel == nil || !rel.Explicit || !rel.Matches(s.name, dir) {
			continue
		}

		if s.valueType != nil && !match.ElementCompatibility(s.valueType, m.ValueType).OK() {
			continue
		}

		out = append(out, candidate{rule: access.AnnotatedMethod, dir: dir, method: m})
	}

	return out
}

func (s *search) annotatedRelationshipFields(dir graph.Direction) []candidate {
	var out []candidate

	for _, f := range s.cm.RelationshipFields() {
		if rel := f.Relationship; rel.Explicit && rel.Matches(s.name, dir) {
			out = append(out, candidate{rule: access.AnnotatedField, dir: dir, field: f})
		}
	}

	return out
}

// Un-annotated relationship methods carry the relationship of the field
// they front, so they answer for that field's type and direction.
func (s *search) conventionalRelationshipMethods(dir graph.Direction) []candidate {
	var out []candidate

	for _, m := range s.cm.Methods() {
		rel := m.Relationship
		if m.Role != s.op.role() || m.Annotated() || rel == nil || rel.Direction != dir || !match.SameIdent(rel.Type, s.name) {
			continue
		}

		if s.valueType != nil && !match.ElementCompatibility(s.valueType, m.ValueType).OK() {
			continue
		}

		out = append(out, candidate{rule: access.ConventionalMethod, dir: dir, method: m})
	}

	return out
}

func (s *search) conventionalRelationshipFields(dir graph.Direction) []candidate {
	if dir != graph.Outgoing {
		return nil
	}

	var fields []*metadata.FieldMetadata

	for _, f := range s.cm.RelationshipFields() {
		if !f.Relationship.Explicit {
			fields = append(fields, f)
		}
	}

	found := s.nameMatches(fields, match.SameIdent)
	if len(found) == 0 {
		found = s.inflectedMatches(fields)
	}

	if s.valueType != nil {
		found = filterFields(found, func(f *metadata.FieldMetadata) bool {
			return match.ElementCompatibility(s.valueType, f.Type).OK()
		})
	}

	return fieldCandidates(found, access.ConventionalField, dir)
}

// inflectedMatches ranks singular/plural name matches. A clear winner is
// returned alone, a near tie returns every contender.
func (s *search) inflectedMatches(fields []*metadata.FieldMetadata) []*metadata.FieldMetadata {
	found := s.nameMatches(fields, match.InflectedMatch)
	if len(found) < 2 {
		return found
	}

	byName := make(map[string]*metadata.FieldMetadata, len(found))
	members := make([]match.Member, len(found))

	for i, f := range found {
		byName[f.Name] = f
		members[i] = match.Member{Name: f.Name, Type: f.Type}
	}

	ranked := match.RankCandidates(s.name, s.valueType, members)

	if best := ranked.HighConfidence(match.DefaultMinScore, match.DefaultMinGap); best != nil {
		return []*metadata.FieldMetadata{byName[best.Member.Name]}
	}

	if ranked.IsAmbiguous(match.DefaultAmbiguityThreshold) {
		return found
	}

	return []*metadata.FieldMetadata{byName[ranked.Best().Member.Name]}
}

func (s *search) nameMatches(fields []*metadata.FieldMetadata, same func(a, b string) bool) []*metadata.FieldMetadata {
	return filterFields(fields, func(f *metadata.FieldMetadata) bool {
		return same(f.Name, s.name)
	})
}

// typeMatch picks un-annotated relationship fields by element type alone.
func (s *search) typeMatch(dir graph.Direction) []candidate {
	served := false
	for _, d := range dir.Fallbacks() {
		served = served || d == graph.Outgoing
	}

	if !served {
		return nil
	}

	want := graph.Deref(graph.ElementOf(s.valueType))

	var found []*metadata.FieldMetadata

	for _, f := range s.cm.RelationshipFields() {
		if !f.Relationship.Explicit && f.Relationship.Target == want {
			found = append(found, f)
		}
	}

	return fieldCandidates(found, access.TypeMatch, graph.Outgoing)
}

func (s *search) annotatedPropertyMethods(graph.Direction) []candidate {
	var out []candidate

	for _, m := range s.cm.Methods() {
		if m.Role != s.op.role() || !m.Annotated() || m.IsRelationship() {
			continue
		}

		if m.Annotations.Property != "" && m.Annotations.Property != s.name {
			continue
		}

		if m.Annotations.Property == "" && !match.SameIdent(m.Member, s.name) {
			continue
		}

		out = append(out, candidate{rule: access.AnnotatedMethod, method: m, conv: m.Converter})
	}

	return out
}

func (s *search) annotatedPropertyFields(graph.Direction) []candidate {
	found := filterFields(s.cm.PropertyFields(), func(f *metadata.FieldMetadata) bool {
		return f.Annotations.Property != "" && f.Annotations.Property == s.name
	})

	return fieldCandidates(found, access.AnnotatedField, graph.DirectionNone)
}

func (s *search) conventionalPropertyMethods(graph.Direction) []candidate {
	var out []candidate

	for _, m := range s.cm.Methods() {
		if m.Role != s.op.role() || m.Annotated() || m.IsRelationship() || !match.SameIdent(m.Member, s.name) {
			continue
		}

		// converters are bound at build time
		if m.Converter == nil {
			continue
		}

		out = append(out, candidate{rule: access.ConventionalMethod, method: m, conv: m.Converter})
	}

	return out
}

func (s *search) conventionalPropertyFields(graph.Direction) []candidate {
	found := filterFields(s.cm.PropertyFields(), func(f *metadata.FieldMetadata) bool {
		return f.Annotations.Property == "" &&
			(match.SameIdent(f.Name, s.name) || f.PropertyName == s.name)
	})

	return fieldCandidates(found, access.ConventionalField, graph.DirectionNone)
}

func (s *search) ambiguous(dir graph.Direction, found []candidate) error {
	names := make([]string, len(found))
	for i, c := range found {
		names[i] = c.String()
	}

	return &access.ResolutionError{
		Kind:       access.Ambiguous,
		Type:       s.cm.QualifiedName(),
		Name:       s.name,
		Direction:  dir,
		Candidates: names,
	}
}

func (s *search) noMatch(dir graph.Direction) error {
	return &access.ResolutionError{
		Kind:        access.NoMatch,
		Type:        s.cm.QualifiedName(),
		Name:        s.name,
		Direction:   dir,
		Suggestions: match.Suggestions(s.name, s.knownNames(dir), match.DefaultSuggestionCount),
	}
}

// knownNames lists what could have been asked for instead.
func (s *search) knownNames(dir graph.Direction) []string {
	seen := make(map[string]bool)

	var names []string

	add := func(n string) {
		if n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}

	if dir.IsRelationship() {
		for _, rel := range s.cm.Relationships() {
			add(rel.Type)
		}
	} else {
		for _, f := range s.cm.PropertyFields() {
			add(f.PropertyName)
		}

		for _, m := range s.cm.Methods() {
			if !m.IsRelationship() {
				add(m.PropertyName())
			}
		}
	}

	sort.Strings(names)

	return names
}

func filterFields(fields []*metadata.FieldMetadata, keep func(*metadata.FieldMetadata) bool) []*metadata.FieldMetadata {
	var out []*metadata.FieldMetadata

	for _, f := range fields {
		if keep(f) {
			out = append(out, f)
		}
	}

	return out
}

func fieldCandidates(fields []*metadata.FieldMetadata, rule access.Rule, dir graph.Direction) []candidate {
	out := make([]candidate, 0, len(fields))
	for _, f := range fields {
		out = append(out, candidate{rule: rule, dir: dir, field: f})
	}

	return out
}
