package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/critterdex/pkg/commands/options"
	"tableflip.dev/critterdex/pkg/runner/live"
)

func addLive(topLevel *cobra.Command) {
	ko := &options.KindOptions{}
	follow := true

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Open a live view that updates every second",
		Example: `
critterdex live
critterdex live -k fish,bug
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := ko.Parse()
			if err != nil {
				return err
			}

			ctx := context.Background()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			l := live.Live{
				Store:   s.Store,
				Catalog: s.Catalog,
				Kinds:   kinds,
				Follow:  follow,
			}
			return l.Do(ctx)
		},
	}

	options.AddKindArgs(cmd, ko)
	cmd.Flags().BoolVar(&follow, "follow", true, "Pick up changes made by other sessions.")

	topLevel.AddCommand(cmd)
}
