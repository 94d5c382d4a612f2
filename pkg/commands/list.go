package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/critterdex/pkg/commands/options"
	"tableflip.dev/critterdex/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	ko := &options.KindOptions{}
	fo := &options.FilterOptions{}
	ao := &options.AtOptions{}
	oo := &options.OutputOptions{}
	sorted := false

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List creatures for the active profile",
		Example: `
critterdex list
critterdex list -k fish --filter leaving
critterdex list -k bug --show-caught=false --at="2025-08-01 19:00"
critterdex list -o json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := oo.Validate(); err != nil {
				return err
			}
			kinds, err := ko.Parse()
			if err != nil {
				return err
			}
			mode, err := fo.GetMode()
			if err != nil {
				return err
			}
			now, err := ao.GetNow()
			if err != nil {
				return err
			}

			ctx := context.Background()
			s, err := openSession(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.Close()

			l := list.List{
				Store:         s.Store,
				Catalog:       s.Catalog,
				Kinds:         kinds,
				Mode:          mode,
				ShowCollected: fo.GetShowCollected(),
				ShowDonated:   fo.GetShowDonated(),
				Sorted:        sorted,
				Output:        oo.Format,
				Out:           cmd.OutOrStdout(),
				Now:           now,
			}
			err = l.Do(ctx)
			return oo.HandleError(err)
		},
	}

	options.AddKindArgs(cmd, ko)
	options.AddFilterArgs(cmd, fo)
	options.AddAtArgs(cmd, ao)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVar(&sorted, "sort", false, "Sort by catalog number.")

	topLevel.AddCommand(cmd)
}
