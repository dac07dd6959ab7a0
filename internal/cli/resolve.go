package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"graph-mapper/internal/access"
	"graph-mapper/internal/graph"
	"graph-mapper/internal/metrics"
	"graph-mapper/internal/resolve"
)

func newResolveCmd(a *app) *cobra.Command {
	var (
		dir         string
		write       bool
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <type> <name>",
		Short: "Resolve the accessor for a property or relationship",
		Long: `Resolve the accessor of the bundled example model that reads or writes a
property (no --dir) or a relationship (--dir OUTGOING, INCOMING or
UNDIRECTED), and print which member and rule were chosen.`,
		Example: `  graph-mapper resolve social.Person KNOWS --dir outgoing --write
  graph-mapper resolve social.Person mail`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := graph.DirectionNone
			if dir != "" {
				d, err := graph.ParseDirection(dir)
				if err != nil {
					return err
				}
				direction = d
			}

			reg, err := a.buildModel()
			if err != nil {
				return err
			}

			cm, err := a.lookupClass(reg, args[0])
			if err != nil {
				return err
			}

			collector := metrics.NewCollector(a.cfg.MetricsNamespace)
			resolver := resolve.New(reg, resolve.WithLogger(a.logger), resolve.WithMetrics(collector))

			var info access.Info
			if write {
				var w access.Writer
				w, err = resolver.ResolveWriter(cm, args[1], direction, nil)
				if w != nil {
					info = w.Info()
				}
			} else {
				var r access.Reader
				r, err = resolver.ResolveReader(cm, args[1], direction)
				if r != nil {
					info = r.Info()
				}
			}

			out := cmd.OutOrStdout()
			if showMetrics {
				defer printMetrics(out, collector)
			}

			var rerr *access.ResolutionError
			if errors.As(err, &rerr) {
				errorLabel.Fprint(out, "error   ")
				fmt.Fprintln(out, rerr)
				return errFindings
			}
			if err != nil {
				return err
			}

			okLabel.Fprint(out, "resolved ")
			fmt.Fprintln(out, info)

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "relationship direction; empty resolves a property")
	cmd.Flags().BoolVar(&write, "write", false, "resolve a writer instead of a reader")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print the resolver metrics afterwards")

	return cmd
}

// printMetrics writes the non-zero counters of c, one sample per line.
func printMetrics(out io.Writer, c *metrics.Collector) {
	families, err := c.Registry().Gather()
	if err != nil {
		fmt.Fprintln(out, "gather metrics:", err)
		return
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			value := m.GetCounter().GetValue()
			if value == 0 {
				continue
			}

			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}

			fmt.Fprintf(out, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), value)
		}
	}
}
