// Package graph holds the small vocabulary shared by every layer of the
// mapper: relationship directions.
package graph

import (
	"fmt"
	"strings"
)

// Direction is the orientation of a relationship relative to its owning type.
// The zero value means "no direction" and selects property members.
type Direction string

const (
	DirectionNone Direction = ""
	Outgoing      Direction = "OUTGOING"
	Incoming      Direction = "INCOMING"
	Undirected    Direction = "UNDIRECTED"
)

// ParseDirection parses a direction name, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case Outgoing:
		return Outgoing, nil
	case Incoming:
		return Incoming, nil
	case Undirected:
		return Undirected, nil
	default:
		return DirectionNone, fmt.Errorf("unknown relationship direction %q", s)
	}
}

// IsRelationship reports whether d names a relationship direction.
func (d Direction) IsRelationship() bool {
	return d == Outgoing || d == Incoming || d == Undirected
}

// String returns the direction name, or "NONE" for the zero value.
func (d Direction) String() string {
	if d == DirectionNone {
		return "NONE"
	}

	return string(d)
}

// Fallbacks returns the directions to try, in order, when resolving a
// relationship requested with direction d. An undirected member serves both
// orientations and an undirected request can be served by either.
func (d Direction) Fallbacks() []Direction {
	switch d {
	case Undirected:
		return []Direction{Undirected, Outgoing, Incoming}
	case Outgoing:
		return []Direction{Outgoing, Undirected}
	case Incoming:
		return []Direction{Incoming, Undirected}
	default:
		return []Direction{DirectionNone}
	}
}
