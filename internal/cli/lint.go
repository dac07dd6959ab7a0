package cli

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"graph-mapper/internal/analyze"
	"graph-mapper/internal/annotation"
)

func newLintCmd(a *app) *cobra.Command {
	var (
		dir  string
		dump bool
	)

	cmd := &cobra.Command{
		Use:   "lint [packages...]",
		Short: "Check the ogm annotations of Go packages",
		Long: `Load Go packages without running them and check the ogm annotations of
their structs: tag syntax, conflicting items, duplicate identities, duplicate
relationship and property mappings, opaque elements and unknown targets.`,
		Example: `  graph-mapper lint ./...
  graph-mapper lint graph-mapper/examples/social --dump`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}

			graph, err := analyze.NewAnalyzer(dir).LoadPackages(args...)
			if err != nil {
				return err
			}

			a.logger.Debug("packages loaded",
				zap.Strings("patterns", args),
				zap.Int("packages", len(graph.Packages)),
				zap.Int("types", len(graph.Types)))

			if dump {
				spew.Fdump(cmd.OutOrStdout(), annotationsOf(graph, a.cfg.TagKey))
			}

			return printDiagnostics(cmd.OutOrStdout(), analyze.NewLinter(graph, a.cfg.TagKey).Lint())
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory the patterns are resolved from")
	cmd.Flags().BoolVar(&dump, "dump", false, "dump the parsed annotations of every struct")

	return cmd
}

// annotationsOf parses the annotations of every struct field that carries
// a valid tag, keyed by type and field name.
func annotationsOf(graph *analyze.TypeGraph, tagKey string) map[string]map[string]annotation.Set {
	out := make(map[string]map[string]annotation.Set)

	for _, t := range graph.Structs() {
		fields := make(map[string]annotation.Set)

		for _, f := range t.Fields {
			tag, ok := f.Annotation(tagKey)
			if !ok {
				continue
			}

			if set, err := annotation.Parse(tag); err == nil {
				fields[f.Name] = set
			}
		}

		if len(fields) > 0 {
			out[t.ID.String()] = fields
		}
	}

	return out
}
