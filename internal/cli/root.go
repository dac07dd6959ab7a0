// Package cli implements the graph-mapper command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"graph-mapper/internal/config"
	"graph-mapper/internal/logging"
)

// Exit codes.
const (
	exitSuccess = 0
	exitFailure = 1
)

// Version information, set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// errFindings is returned by commands that ran fine but reported errors.
var errFindings = errors.New("problems found")

// app holds what the persistent flags resolve to.
type app struct {
	configPath string
	logLevel   string
	noColor    bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd creates the top-level "graph-mapper" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "graph-mapper",
		Short: "Inspect and check object-graph mapping metadata",
		Long: `graph-mapper checks the ogm annotations of Go domain types and shows how
their members map to graph properties and relationships.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ./graph-mapper.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newLintCmd(a))
	root.AddCommand(newOverlayCmd(a))
	root.AddCommand(newConvertersCmd())
	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newResolveCmd(a))

	return root
}

// setup loads the configuration and creates the logger.
func (a *app) setup(*cobra.Command, []string) error {
	if a.noColor {
		color.NoColor = true
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger

	return nil
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errFindings) {
			color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(exitFailure)
	}

	os.Exit(exitSuccess)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			title := color.New(color.FgCyan, color.Bold)
			out := cmd.OutOrStdout()

			title.Fprint(out, "graph-mapper version: ")
			fmt.Fprintln(out, Version)
			title.Fprint(out, "Git commit: ")
			fmt.Fprintln(out, GitCommit)
			title.Fprint(out, "Go version: ")
			fmt.Fprintln(out, runtime.Version())
		},
	}
}
