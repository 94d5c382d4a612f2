package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/critterdex/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show where state and catalog data are kept",
		Example: `
critterdex info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(ctx context.Context, s *session) error {
				i := info.Info{Config: s.Config, Store: s.Store, Out: cmd.OutOrStdout()}
				return i.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}
