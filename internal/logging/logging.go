// Package logging builds the zap logger used by the command line tool.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a logger at the given level ("debug", "info", "warn",
// "error"). Development loggers print human readable output to stderr;
// production loggers print JSON.
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}
