package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/critterdex/pkg/creature"
)

// KindOptions selects which collections a command works on.
type KindOptions struct {
	Kinds []string
}

func AddKindArgs(cmd *cobra.Command, o *KindOptions) {
	cmd.Flags().StringSliceVarP(&o.Kinds, "kind", "k", nil,
		`Limit to these kinds: fish, bug, sea-creature. Repeat or comma separate.`)
}

// Parse returns the selected kinds, or nil for all of them.
func (o *KindOptions) Parse() ([]creature.Kind, error) {
	if len(o.Kinds) == 0 {
		return nil, nil
	}
	out := make([]creature.Kind, 0, len(o.Kinds))
	seen := make(map[creature.Kind]bool, len(o.Kinds))
	for _, raw := range o.Kinds {
		k, err := creature.ParseKind(raw)
		if err != nil {
			return nil, err
		}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out, nil
}

// KindCompletions completes the first positional kind argument.
func KindCompletions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	kinds := creature.AllKinds()
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, string(k))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
