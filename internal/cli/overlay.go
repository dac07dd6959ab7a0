package cli

import (
	"github.com/spf13/cobra"

	"graph-mapper/internal/annotation"
)

func newOverlayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overlay <file>",
		Short: "Validate an annotation overlay file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overlay, err := annotation.LoadOverlay(args[0])
			if err != nil {
				return err
			}

			a.logger.Debug("overlay loaded")

			return printDiagnostics(cmd.OutOrStdout(), overlay.Validate())
		},
	}
}
