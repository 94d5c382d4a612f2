package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/critterdex/pkg/commands/options"
	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/runner/track"
)

func addTrack(topLevel *cobra.Command) {
	to := &options.TrackOptions{}
	var (
		kind  creature.Kind
		query string
	)

	cmd := &cobra.Command{
		Use:   "track <kind> <number|name>",
		Short: "Mark a creature caught or donated",
		Example: `
critterdex track fish 12 --caught
critterdex track bug "common butterfly" --caught --donated
critterdex track sea octopus --toggle donated
critterdex track fish bitterling
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("requires a kind and a creature number or name")
			}
			var err error
			if kind, err = creature.ParseKind(args[0]); err != nil {
				return err
			}
			query = strings.Join(args[1:], " ")
			return nil
		},
		ValidArgsFunction: creatureCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			toggle, err := to.GetToggle()
			if err != nil {
				return err
			}

			ctx := context.Background()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			t := track.Track{
				Store:   s.Store,
				Catalog: s.Catalog,
				Kind:    kind,
				Query:   query,
				Caught:  to.GetCaught(),
				Donated: to.GetDonated(),
				Toggle:  toggle,
				Out:     cmd.OutOrStdout(),
			}
			return t.Do(ctx)
		},
	}

	options.AddTrackArgs(cmd, to)

	topLevel.AddCommand(cmd)
}
