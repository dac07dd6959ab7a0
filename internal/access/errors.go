package access

import (
	"errors"
	"fmt"
	"strings"

	"graph-mapper/internal/graph"
)

var (
	// ErrNoMatch matches resolution errors where no member serves the request.
	ErrNoMatch = errors.New("no matching accessor")
	// ErrAmbiguous matches resolution errors where several members do.
	ErrAmbiguous = errors.New("ambiguous accessor")
	// ErrAccessorFailed matches errors raised while reading or writing.
	ErrAccessorFailed = errors.New("accessor failed")
)

// ErrorKind classifies a ResolutionError.
type ErrorKind int

const (
	NoMatch ErrorKind = iota + 1
	Ambiguous
	AccessorFailed
)

func (k ErrorKind) String() string {
	switch k {
	case NoMatch:
		return "NoMatch"
	case Ambiguous:
		return "Ambiguous"
	case AccessorFailed:
		return "AccessorFailed"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case NoMatch:
		return ErrNoMatch
	case Ambiguous:
		return ErrAmbiguous
	case AccessorFailed:
		return ErrAccessorFailed
	default:
		return nil
	}
}

// ResolutionError reports a failed resolution or a failed read or write.
type ResolutionError struct {
	Kind      ErrorKind
	Type      string
	Name      string
	Direction graph.Direction
	// Candidates lists the members that matched equally well (Ambiguous).
	Candidates []string
	// Suggestions lists similar member names (NoMatch).
	Suggestions []string
	// Accessor identifies the accessor that failed (AccessorFailed).
	Accessor string
	Err      error
}

func (e *ResolutionError) Error() string {
	var b strings.Builder

	switch e.Kind {
	case AccessorFailed:
		fmt.Fprintf(&b, "%s: %s", ErrAccessorFailed, e.Accessor)
	default:
		fmt.Fprintf(&b, "%s for %s.%s (%s)", e.Kind.sentinel(), e.Type, e.Name, e.Direction)
	}

	if len(e.Candidates) > 0 {
		fmt.Fprintf(&b, ": candidates %s", strings.Join(e.Candidates, ", "))
	}

	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}

	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

// Is matches the sentinel of the error's kind.
func (e *ResolutionError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

func failed(info Info, err error) error {
	return &ResolutionError{
		Kind:      AccessorFailed,
		Type:      info.Type,
		Name:      info.Name,
		Direction: info.Direction,
		Accessor:  info.String(),
		Err:       err,
	}
}
