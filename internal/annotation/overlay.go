package annotation

import (
	"fmt"
	"os"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"

	"graph-mapper/internal/common"
	"graph-mapper/internal/diagnostic"
)

// Overlay holds annotations supplied outside the Go source, keyed by type name.
//
// Example:
//
//	types:
//	  social.Person:
//	    fields:
//	      Friends: rel=KNOWS,dir=UNDIRECTED
//	    methods:
//	      SetFollowers: rel=FOLLOWS,dir=INCOMING
type Overlay struct {
	Types map[string]TypeOverlay `yaml:"types"`
}

// TypeOverlay holds the annotations of one type's fields and methods.
// Values use the struct tag grammar.
type TypeOverlay struct {
	Fields  map[string]string `yaml:"fields,omitempty"`
	Methods map[string]string `yaml:"methods,omitempty"`
}

// LoadOverlay loads and parses a YAML overlay file from the given path.
func LoadOverlay(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overlay file %s: %w", path, err)
	}

	return ParseOverlay(data)
}

// ParseOverlay parses YAML data into an Overlay.
func ParseOverlay(data []byte) (*Overlay, error) {
	var o Overlay

	err := yaml.Unmarshal(data, &o)
	if err != nil {
		return nil, fmt.Errorf("failed to parse overlay YAML: %w", err)
	}

	if o.Types == nil {
		o.Types = make(map[string]TypeOverlay)
	}

	return &o, nil
}

// For returns the overlay entry for t. Keys are matched against the
// qualified name ("example.com/app/social.Person"), the package-alias name
// ("social.Person") and the simple name ("Person"), in that order.
func (o *Overlay) For(t reflect.Type) (TypeOverlay, bool) {
	if o == nil || t == nil {
		return TypeOverlay{}, false
	}

	keys := []string{
		t.PkgPath() + "." + t.Name(),
		common.PkgAlias(t.PkgPath()) + "." + t.Name(),
		t.Name(),
	}

	for _, key := range keys {
		if to, ok := o.Types[key]; ok {
			return to, true
		}
	}

	return TypeOverlay{}, false
}

// Validate parses every annotation in the overlay and reports syntax errors.
// Entries are visited in sorted order so the report is stable.
func (o *Overlay) Validate() diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	for _, typeName := range sortedKeys(o.Types) {
		to := o.Types[typeName]

		check := func(kind string, members map[string]string) {
			for _, member := range sortedKeys(members) {
				if _, err := Parse(members[member]); err != nil {
					diags.AddErrorf(diagnostic.CodeTagSyntax, typeName, kind+"."+member, "%v", err)
				}
			}
		}

		check("fields", to.Fields)
		check("methods", to.Methods)

		if len(to.Fields) == 0 && len(to.Methods) == 0 {
			diags.AddWarning("empty_overlay", "type entry has no fields or methods", typeName, "")
		}
	}

	return diags
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
