package commands

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/critterdex/pkg/creature"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(critterdex completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(critterdex completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func profileCompletions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	_ = withSession(func(ctx context.Context, s *session) error {
		lower := strings.ToLower(toComplete)
		for _, p := range s.Store.Profiles() {
			if strings.HasPrefix(strings.ToLower(p.Name), lower) {
				out = append(out, strconv.Quote(p.Name))
			}
		}
		return nil
	})
	return out, cobra.ShellCompDirectiveNoFileComp
}

// creatureCompletions completes a kind, then names from that kind's catalog.
func creatureCompletions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		out := make([]string, 0, 3)
		for _, k := range creature.AllKinds() {
			out = append(out, string(k))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	case 1:
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	kind, err := creature.ParseKind(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	_ = withSession(func(ctx context.Context, s *session) error {
		items, err := s.Catalog.Fetch(ctx, kind)
		if err != nil {
			return err
		}
		lower := strings.ToLower(toComplete)
		for _, c := range items {
			if strings.HasPrefix(strings.ToLower(c.Name), lower) {
				out = append(out, strconv.Quote(c.Name))
			}
		}
		return nil
	})
	return out, cobra.ShellCompDirectiveNoFileComp
}
