package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/critterdex/pkg/commands/options"
	"tableflip.dev/critterdex/pkg/creature"
	catalogrun "tableflip.dev/critterdex/pkg/runner/catalog"
)

func addCatalog(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect or refresh the creature catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addCatalogRefresh(cmd)
	addCatalogShow(cmd)

	topLevel.AddCommand(cmd)
}

func addCatalogRefresh(parent *cobra.Command) {
	dropOnly := false

	cmd := &cobra.Command{
		Use:   "refresh [kind...]",
		Short: "Download the catalog again, replacing the cached copy",
		Example: `
critterdex catalog refresh
critterdex catalog refresh fish --clear
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ko := options.KindOptions{Kinds: args}
			kinds, err := ko.Parse()
			if err != nil {
				return err
			}
			return withSession(func(ctx context.Context, s *session) error {
				r := catalogrun.Refresh{
					Cache: s.Catalog,
					Kinds: kinds,
					Clear: dropOnly,
					Out:   cmd.OutOrStdout(),
				}
				return r.Do(ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&dropOnly, "clear", false, "Only drop the cached copy.")

	parent.AddCommand(cmd)
}

func addCatalogShow(parent *cobra.Command) {
	oo := &options.OutputOptions{}
	ao := &options.AtOptions{}
	var (
		kind  creature.Kind
		query string
	)

	cmd := &cobra.Command{
		Use:   "show <kind> <number|name>",
		Short: "Show when and where a creature can be found",
		Example: `
critterdex catalog show fish coelacanth
critterdex catalog show bug 12 --at 2025-07-01
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
			if err := oo.Validate(); err != nil {
				return err
			}
			now, err := ao.GetNow()
			if err != nil {
				return err
			}
			return withSession(func(ctx context.Context, s *session) error {
				r := catalogrun.Show{
					Store:   s.Store,
					Catalog: s.Catalog,
					Kind:    kind,
					Query:   query,
					Output:  oo.Format,
					Out:     cmd.OutOrStdout(),
					Now:     now,
				}
				return oo.HandleError(r.Do(ctx))
			})
		},
	}
	options.AddOutputArg(cmd, oo)
	options.AddAtArgs(cmd, ao)

	parent.AddCommand(cmd)
}
