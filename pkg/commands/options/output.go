// Package options defines shared flag helpers for CLI commands.
package options

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/critterdex/pkg/printers"
)

// OutputOptions selects structured output.
type OutputOptions struct {
	Format string
}

func AddOutputArg(cmd *cobra.Command, o *OutputOptions) {
	cmd.Flags().StringVarP(&o.Format, "output", "o", "",
		`Output format. One of "json" or "yaml"; a table when unset.`)
}

// Validate rejects unknown formats before any work is done.
func (o *OutputOptions) Validate() error {
	switch o.Format {
	case "", printers.FormatJSON, printers.FormatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q, use %q or %q", o.Format, printers.FormatJSON, printers.FormatYAML)
}

// HandleError prints err as a structured document when a format is set, so
// scripted callers always get parseable output.
func (o *OutputOptions) HandleError(err error) error {
	if o.Format != "" && err != nil {
		out := map[string]string{
			"error": err.Error(),
		}
		if perr := printers.Structured(color.Output, o.Format, out); perr != nil {
			return err
		}
		return nil
	}
	return err
}
