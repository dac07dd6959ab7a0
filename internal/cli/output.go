package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"graph-mapper/internal/diagnostic"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	infoLabel    = color.New(color.FgBlue)
	okLabel      = color.New(color.FgGreen, color.Bold)
	headerLabel  = color.New(color.FgCyan, color.Bold)
)

// printDiagnostics writes every diagnostic on its own line and a summary.
// It returns errFindings when diags holds errors.
func printDiagnostics(w io.Writer, diags diagnostic.Diagnostics) error {
	for _, d := range diags.Errors {
		errorLabel.Fprint(w, "error   ")
		fmt.Fprintln(w, d)
	}

	for _, d := range diags.Warnings {
		warningLabel.Fprint(w, "warning ")
		fmt.Fprintln(w, d)
	}

	for _, d := range diags.Infos {
		infoLabel.Fprint(w, "info    ")
		fmt.Fprintln(w, d)
	}

	if diags.HasErrors() {
		errorLabel.Fprintf(w, "%d error(s), %d warning(s)\n", len(diags.Errors), len(diags.Warnings))
		return errFindings
	}

	okLabel.Fprint(w, "ok")
	fmt.Fprintf(w, " (%d warning(s))\n", len(diags.Warnings))

	return nil
}
