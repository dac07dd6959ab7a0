package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrConfig matches any *ConfigError with errors.Is.
var ErrConfig = errors.New("invalid mapping configuration")

// ConfigError aggregates every error found while building metadata.
type ConfigError struct {
	errs *multierror.Error
}

func newConfigError(diags []Diagnostic) *ConfigError {
	var merr *multierror.Error
	for _, d := range diags {
		merr = multierror.Append(merr, d)
	}

	merr.ErrorFormat = formatDiagnostics

	return &ConfigError{errs: merr}
}

func formatDiagnostics(errs []error) string {
	lines := make([]string, 0, len(errs)+1)
	lines = append(lines, fmt.Sprintf("%s: %d problem(s)", ErrConfig, len(errs)))

	for _, err := range errs {
		lines = append(lines, "  * "+err.Error())
	}

	return strings.Join(lines, "\n")
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return e.errs.Error()
}

// Is reports whether target is ErrConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// Unwrap exposes the individual diagnostics to errors.As.
func (e *ConfigError) Unwrap() []error {
	return e.errs.WrappedErrors()
}

// Diagnostics returns the individual problems in the order they were found.
func (e *ConfigError) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, 0, e.errs.Len())
	for _, err := range e.errs.WrappedErrors() {
		var d Diagnostic
		if errors.As(err, &d) {
			out = append(out, d)
		}
	}

	return out
}

// HasCode reports whether any diagnostic carries the given code.
func (e *ConfigError) HasCode(code string) bool {
	for _, d := range e.Diagnostics() {
		if d.Code == code {
			return true
		}
	}

	return false
}
