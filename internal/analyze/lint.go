package analyze

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"graph-mapper/internal/annotation"
	"graph-mapper/internal/common"
	"graph-mapper/internal/diagnostic"
	"graph-mapper/internal/graph"
	"graph-mapper/internal/match"
)

// Linter checks the struct annotations of a TypeGraph without loading the
// program. It sees declared fields only: problems that need the method set,
// converters or inherited members are left to the metadata builder.
type Linter struct {
	graph  *TypeGraph
	tagKey string
	byName map[string][]*TypeInfo
}

// NewLinter creates a Linter reading the given tag key; an empty key means
// annotation.DefaultTagKey.
func NewLinter(g *TypeGraph, tagKey string) *Linter {
	if tagKey == "" {
		tagKey = annotation.DefaultTagKey
	}

	l := &Linter{
		graph:  g,
		tagKey: tagKey,
		byName: make(map[string][]*TypeInfo),
	}

	for _, t := range g.Structs() {
		for _, name := range lookupNames(t.ID) {
			l.byName[name] = append(l.byName[name], t)
		}
	}

	return l
}

// Lint checks every struct of the graph.
func (l *Linter) Lint() diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	for _, t := range l.graph.Structs() {
		diags.Merge(l.LintType(t))
	}

	return diags
}

type relKey struct {
	relType string
	dir     graph.Direction
}

// LintType checks the declared fields of one struct.
func (l *Linter) LintType(t *TypeInfo) diagnostic.Diagnostics {
	var (
		diags diagnostic.Diagnostics
		ids   []string
		rels  = make(map[relKey][]string)
		props = make(map[string][]string)
	)

	typeName := t.ID.String()

	for i := range t.Fields {
		f := &t.Fields[i]
		if f.Name == "_" {
			continue
		}

		tag, _ := f.Annotation(l.tagKey)
		set, err := annotation.Parse(tag)
		if err != nil {
			code := diagnostic.CodeTagSyntax
			if errors.Is(err, annotation.ErrConflict) {
				code = diagnostic.CodeAnnotationConflict
			}
			diags.AddError(code, err.Error(), typeName, f.Name)

			continue
		}

		if set.Transient {
			continue
		}

		if f.Embedded && f.Type.Element().Kind == TypeKindStruct {
			if !set.IsZero() {
				diags.AddErrorf(diagnostic.CodeAnnotationConflict, typeName, f.Name,
					"embedded struct %s can only be marked transient", TypeString(f.Type))
			}

			continue
		}

		elem := f.Type.Element()

		switch {
		case set.IsRelationship():
			key := relKey{relType: set.Relationship, dir: set.Direction}
			if key.relType == "" {
				key.relType = match.RelationshipType(f.Name)
			}
			if key.dir == graph.DirectionNone {
				key.dir = graph.Outgoing
			}
			rels[key] = append(rels[key], f.Name)

			l.checkTarget(&diags, typeName, f, set.Target, elem)

		case l.isDomain(elem) && set.Property == "" && set.Converter == "" && !set.Identity:
			key := relKey{relType: match.RelationshipType(f.Name), dir: graph.Outgoing}
			rels[key] = append(rels[key], f.Name)

		case elem != nil && elem.Kind == TypeKindInterface && set.Converter == "":
			diags.AddErrorf(diagnostic.CodeOpaqueElement, typeName, f.Name,
				"element type %s is an interface; annotate the relationship with target=<Type> or mark the field transient",
				TypeString(elem))

		default:
			name := set.Property
			if name == "" {
				name = match.LowerCamel(f.Name)
			}
			props[name] = append(props[name], f.Name)

			if set.Identity {
				ids = append(ids, f.Name)
			}
		}
	}

	if len(ids) > 1 {
		diags.AddErrorf(diagnostic.CodeMalformedIdentity, typeName, "",
			"more than one identity field: %s", strings.Join(ids, ", "))
	}

	for _, key := range slices.SortedFunc(maps.Keys(rels), compareRelKeys) {
		if fields := rels[key]; len(fields) > 1 {
			diags.AddErrorf(diagnostic.CodeAmbiguousRelationship, typeName, "",
				"relationship %s/%s is mapped by more than one field: %s", key.relType, key.dir, strings.Join(fields, ", "))
		}
	}

	for _, name := range slices.Sorted(maps.Keys(props)) {
		if fields := props[name]; len(fields) > 1 {
			diags.AddErrorf(diagnostic.CodeAnnotationConflict, typeName, "",
				"property %q is mapped by more than one field: %s", name, strings.Join(fields, ", "))
		}
	}

	return diags
}

func (l *Linter) checkTarget(diags *diagnostic.Diagnostics, typeName string, f *FieldInfo, target string, elem *TypeInfo) {
	opaque := elem != nil && elem.Kind == TypeKindInterface

	if target == "" {
		switch {
		case opaque:
			diags.AddErrorf(diagnostic.CodeOpaqueElement, typeName, f.Name,
				"element type %s is an interface; name the related type with target=<Type>", TypeString(elem))
		case !l.isDomain(elem):
			diags.AddErrorf(diagnostic.CodeUnknownTarget, typeName, f.Name,
				"related type %s is not a struct of the analyzed packages", TypeString(f.Type))
		}

		return
	}

	matches := l.byName[target]
	if len(matches) != 1 {
		diags.Errors = append(diags.Errors, diagnostic.Diagnostic{
			Severity:    diagnostic.DiagnosticError,
			Code:        diagnostic.CodeUnknownTarget,
			Message:     fmt.Sprintf("target %q does not name exactly one analyzed type", target),
			Type:        typeName,
			FieldPath:   f.Name,
			Suggestions: match.Suggestions(target, l.typeNames(), match.DefaultSuggestionCount),
		})

		return
	}

	if !opaque && elem != matches[0] {
		diags.AddErrorf(diagnostic.CodeAnnotationConflict, typeName, f.Name,
			"target %s does not match element type %s", matches[0].ID, TypeString(elem))
	}
}

func (l *Linter) isDomain(t *TypeInfo) bool {
	if t == nil || t.Kind != TypeKindStruct || !t.IsNamed() {
		return false
	}

	_, ok := l.graph.Packages[t.ID.PkgPath]

	return ok
}

func (l *Linter) typeNames() []string {
	names := make([]string, 0, len(l.byName))
	for _, t := range l.graph.Structs() {
		names = append(names, t.ID.Name)
	}

	return names
}

// lookupNames lists the names a target= annotation may use for id: the
// qualified name, the package-alias form and the bare type name.
func lookupNames(id TypeID) []string {
	names := []string{id.String(), id.Name}
	if short := common.PkgAlias(id.PkgPath) + "." + id.Name; short != id.String() {
		names = append(names, short)
	}

	return names
}

func compareRelKeys(a, b relKey) int {
	if c := strings.Compare(a.relType, b.relType); c != 0 {
		return c
	}

	return strings.Compare(string(a.dir), string(b.dir))
}
