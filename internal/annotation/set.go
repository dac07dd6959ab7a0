package annotation

import (
	"errors"
	"fmt"
	"strings"

	"graph-mapper/internal/graph"
)

// DefaultTagKey is the struct tag key read when none is configured.
const DefaultTagKey = "ogm"

var (
	// ErrSyntax marks a malformed annotation.
	ErrSyntax = errors.New("malformed annotation")
	// ErrConflict marks annotation items that cannot be combined.
	ErrConflict = errors.New("conflicting annotation")
)

// Set is the parsed form of one member's annotations.
type Set struct {
	Transient    bool
	Identity     bool
	Property     string
	Relationship string
	Direction    graph.Direction
	Target       string
	Converter    string
}

// IsRelationship reports whether the set declares a relationship member.
func (s Set) IsRelationship() bool {
	return s.Relationship != "" || s.Direction != graph.DirectionNone || s.Target != ""
}

// IsZero reports whether no annotation was given.
func (s Set) IsZero() bool {
	return s == Set{}
}

// String renders the set back into tag grammar.
func (s Set) String() string {
	if s.Transient {
		return "-"
	}

	var items []string
	if s.Identity {
		items = append(items, "id")
	}

	add := func(key, value string) {
		if value != "" {
			items = append(items, key+"="+value)
		}
	}

	add("property", s.Property)
	add("rel", s.Relationship)
	add("dir", string(s.Direction))
	add("target", s.Target)
	add("convert", s.Converter)

	return strings.Join(items, ",")
}

// Parse parses a tag value such as "rel=KNOWS,dir=incoming".
// Keys are case-insensitive; values keep their case.
func Parse(tag string) (Set, error) {
	var s Set

	seen := make(map[string]bool)

	for _, raw := range strings.Split(tag, ",") {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}

		key, value, hasValue := strings.Cut(item, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if seen[key] {
			return Set{}, fmt.Errorf("%w: duplicate item %q", ErrSyntax, key)
		}

		seen[key] = true

		if !hasValue {
			switch key {
			case "-", "transient":
				s.Transient = true
			case "id":
				s.Identity = true
			default:
				return Set{}, fmt.Errorf("%w: unknown item %q", ErrSyntax, item)
			}

			continue
		}

		if value == "" {
			return Set{}, fmt.Errorf("%w: empty value for %q", ErrSyntax, key)
		}

		switch key {
		case "property":
			s.Property = value
		case "rel":
			s.Relationship = value
		case "dir":
			dir, err := graph.ParseDirection(value)
			if err != nil {
				return Set{}, fmt.Errorf("%w: %w", ErrSyntax, err)
			}

			s.Direction = dir
		case "target":
			s.Target = value
		case "convert":
			s.Converter = value
		default:
			return Set{}, fmt.Errorf("%w: unknown key %q", ErrSyntax, key)
		}
	}

	if err := s.check(); err != nil {
		return Set{}, err
	}

	return s, nil
}

func (s Set) check() error {
	if s.Transient && s != (Set{Transient: true}) {
		return fmt.Errorf("%w: transient member cannot carry other annotations", ErrConflict)
	}

	if !s.IsRelationship() {
		return nil
	}

	switch {
	case s.Property != "":
		return fmt.Errorf("%w: relationship cannot declare property=%s", ErrConflict, s.Property)
	case s.Converter != "":
		return fmt.Errorf("%w: relationship cannot declare convert=%s", ErrConflict, s.Converter)
	case s.Identity:
		return fmt.Errorf("%w: relationship cannot be the identity", ErrConflict)
	}

	return nil
}
