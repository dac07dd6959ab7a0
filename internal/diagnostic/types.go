package diagnostic

import (
	"fmt"
	"strings"

	"graph-mapper/internal/common"
)

// Diagnostics holds all diagnostic information from a metadata build.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Type is the qualified name of the type this relates to (if any).
	Type string
	// FieldPath identifies which member this relates to (if any).
	FieldPath string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// Diagnostic codes reported by the metadata builder and the tag linter.
const (
	CodeTagSyntax             = "tag_syntax"
	CodeAmbiguousRelationship = "ambiguous_relationship"
	CodeNoConverter           = "no_converter"
	CodeMalformedIdentity     = "malformed_identity"
	CodeOpaqueElement         = "opaque_element"
	CodeUnknownTarget         = "unknown_target"
	CodeBadHierarchy          = "bad_hierarchy"
	CodeNotStruct             = "not_struct"
	CodeAnnotationConflict    = "annotation_conflict"
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, typeName, fieldPath string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity:  DiagnosticError,
		Code:      code,
		Message:   message,
		Type:      typeName,
		FieldPath: fieldPath,
	})
}

// AddErrorf adds an error diagnostic with a formatted message.
func (d *Diagnostics) AddErrorf(code, typeName, fieldPath, format string, args ...any) {
	d.AddError(code, fmt.Sprintf(format, args...), typeName, fieldPath)
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, typeName, fieldPath string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity:  DiagnosticWarning,
		Code:      code,
		Message:   message,
		Type:      typeName,
		FieldPath: fieldPath,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, typeName, fieldPath string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity:  DiagnosticInfo,
		Code:      code,
		Message:   message,
		Type:      typeName,
		FieldPath: fieldPath,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a *ConfigError holding every error diagnostic, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	return newConfigError(d.Errors)
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Type != "" {
		prefix = append(prefix, "["+d.Type+"]")
	}

	if d.FieldPath != "" {
		prefix = append(prefix, d.FieldPath)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

// Error implements the error interface so a Diagnostic can be aggregated.
func (d Diagnostic) Error() string {
	return d.String()
}
