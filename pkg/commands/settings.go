package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/critterdex/pkg/commands/options"
	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/profile"
	"tableflip.dev/critterdex/pkg/runner/settings"
)

func addSettings(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "settings [kind]",
		Short: "Show or change how each kind is listed",
		Example: `
critterdex settings
critterdex settings fish --filter month --show-caught=false
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: options.KindCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := oo.Validate(); err != nil {
				return err
			}
			var kind creature.Kind
			if len(args) == 1 {
				var err error
				if kind, err = creature.ParseKind(args[0]); err != nil {
					return err
				}
			}
			mode, err := fo.GetMode()
			if err != nil {
				return err
			}

			return withSession(func(ctx context.Context, s *session) error {
				r := settings.Settings{
					Store: s.Store,
					Kind:  kind,
					Patch: profile.SettingsPatch{
						FilterType:    mode,
						ShowCollected: fo.GetShowCollected(),
						ShowDonated:   fo.GetShowDonated(),
					},
					Output: oo.Format,
					Out:    cmd.OutOrStdout(),
				}
				return oo.HandleError(r.Do(ctx))
			})
		},
	}

	options.AddFilterArgs(cmd, fo)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
