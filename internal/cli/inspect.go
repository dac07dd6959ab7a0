package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"graph-mapper/internal/metadata"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [types...]",
		Short: "Show the metadata of the example model",
		Long: `Build the metadata of the bundled social example model and print, for
each type, its parent, identity, properties, relationships and accessor
methods. The configured tag key, identity names and overlay apply.`,
		Example: `  graph-mapper inspect
  graph-mapper inspect social.Person --config graph-mapper.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.buildModel()
			if err != nil {
				return err
			}

			classes := reg.Classes()
			if len(args) > 0 {
				classes = classes[:0:0]
				for _, name := range args {
					cm, err := a.lookupClass(reg, name)
					if err != nil {
						return err
					}
					classes = append(classes, cm)
				}
			}

			for _, cm := range classes {
				printClass(cmd.OutOrStdout(), cm)
			}

			return nil
		},
	}
}

func printClass(out io.Writer, cm *metadata.ClassMetadata) {
	headerLabel.Fprint(out, cm.QualifiedName())
	if parent := cm.Parent(); parent != nil {
		fmt.Fprintf(out, " (embeds %s)", parent.Name())
	}
	if cm.Implicit() {
		fmt.Fprint(out, " [implicit]")
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	if id, ok := cm.Identity(); ok {
		fmt.Fprintf(w, "  identity\t%s\t%s\t\n", id.Name, id.Type)
	}

	for _, f := range cm.PropertyFields() {
		conv := f.Annotations.Converter
		if conv == "" {
			conv = "-"
		}
		fmt.Fprintf(w, "  property\t%s\t%s\t%s\tconvert=%s\n", f.Name, f.PropertyName, f.Type, conv)
	}

	for _, r := range cm.Relationships() {
		fmt.Fprintf(w, "  relationship\t%s\t%s %s\t%s\t%s\n",
			r.MemberName(), r.Type, r.Direction, r.Target.Name(), explicitness(r.Explicit))
	}

	for _, m := range cm.Methods() {
		if !m.Annotated() && !m.IsRelationship() {
			continue
		}
		fmt.Fprintf(w, "  method\t%s\t%s\t%s\t%s\n", m.Name, m.Role, m.ValueType, m.Annotations)
	}

	_ = w.Flush()
	fmt.Fprintln(out)
}

func explicitness(explicit bool) string {
	if explicit {
		return "annotated"
	}

	return "inferred"
}
