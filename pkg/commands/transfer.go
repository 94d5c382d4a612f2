package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/critterdex/pkg/commands/options"
	"tableflip.dev/critterdex/pkg/runner/transfer"
)

func addExport(topLevel *cobra.Command) {
	dir := "."

	cmd := &cobra.Command{
		Use:   "export [index|id|name]",
		Short: "Export a profile to a .critterdex file",
		Example: `
critterdex export
critterdex export "Second island" --dir ~/backups
critterdex export --dir - > island.critterdex
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: profileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			return withSession(func(ctx context.Context, s *session) error {
				r := transfer.Export{
					Store:  s.Store,
					Target: target,
					Dir:    dir,
					Out:    cmd.OutOrStdout(),
				}
				return r.Do(ctx)
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", dir, `Directory for the file, or "-" for stdout.`)

	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}
	activate := false

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import a profile from a .critterdex file",
		Example: `
critterdex import island.critterdex
critterdex import - --yes < island.critterdex
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(ctx context.Context, s *session) error {
				r := transfer.Import{
					Store:    s.Store,
					Path:     args[0],
					In:       cmd.InOrStdin(),
					Yes:      co.Yes,
					Activate: activate,
					Out:      cmd.OutOrStdout(),
				}
				if args[0] != "-" {
					r.Confirm = confirmer(cmd)
				}
				return r.Do(ctx)
			})
		},
	}
	options.AddConfirmArgs(cmd, co)
	cmd.Flags().BoolVarP(&activate, "switch", "s", false, "Make the imported profile active.")

	topLevel.AddCommand(cmd)
}
