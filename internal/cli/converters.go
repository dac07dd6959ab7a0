package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"graph-mapper/internal/convert"
)

func newConvertersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "converters",
		Short: "List the named property converters",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range convert.NewRegistry().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
