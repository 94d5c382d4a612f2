package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/critterdex/pkg/commands/options"
	"tableflip.dev/critterdex/pkg/profile"
	profilerun "tableflip.dev/critterdex/pkg/runner/profile"
	"tableflip.dev/critterdex/pkg/snake"
)

func addProfile(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and manage profiles",
		Example: `
critterdex profile
critterdex profile ls
critterdex profile add Second island --switch
critterdex profile switch -i
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := oo.Validate(); err != nil {
				return err
			}
			return withSession(func(ctx context.Context, s *session) error {
				r := profilerun.Show{Store: s.Store, Output: oo.Format, Out: cmd.OutOrStdout()}
				return oo.HandleError(r.Do(ctx))
			})
		},
	}
	options.AddOutputArg(cmd, oo)

	addProfileList(cmd)
	addProfileAdd(cmd)
	addProfileRemove(cmd)
	addProfileSwitch(cmd)
	addProfileRename(cmd)
	addProfileRegion(cmd)
	addProfileTime(cmd)

	topLevel.AddCommand(cmd)
}

// withSession opens the state for the duration of fn.
func withSession(fn func(ctx context.Context, s *session) error) error {
	ctx := context.Background()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

func addProfileList(parent *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List profiles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := oo.Validate(); err != nil {
				return err
			}
			return withSession(func(ctx context.Context, s *session) error {
				r := profilerun.List{Store: s.Store, Output: oo.Format, Out: cmd.OutOrStdout()}
				return oo.HandleError(r.Do(ctx))
			})
		},
	}
	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addProfileAdd(parent *cobra.Command) {
	switchTo := false

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a profile",
		Example: `
critterdex profile add Second island
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(ctx context.Context, s *session) error {
				r := profilerun.Add{
					Store:  s.Store,
					Name:   strings.Join(args, " "),
					Switch: switchTo,
					Out:    cmd.OutOrStdout(),
				}
				return r.Do(ctx)
			})
		},
	}
	cmd.Flags().BoolVarP(&switchTo, "switch", "s", false, "Make the new profile active.")

	parent.AddCommand(cmd)
}

func addProfileRemove(parent *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "rm <index|id|name>",
		Aliases: []string{"remove"},
		Short:   "Remove a profile and its progress",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a profile")
			}
			return nil
		},
		ValidArgsFunction: profileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(ctx context.Context, s *session) error {
				r := profilerun.Remove{
					Store:   s.Store,
					Target:  strings.Join(args, " "),
					Yes:     co.Yes,
					Confirm: confirmer(cmd),
					Out:     cmd.OutOrStdout(),
				}
				return r.Do(ctx)
			})
		},
	}
	options.AddConfirmArgs(cmd, co)

	parent.AddCommand(cmd)
}

func addProfileSwitch(parent *cobra.Command) {
	pick := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "switch [index|id|name]",
		Short: "Change the active profile",
		Example: `
critterdex profile switch 1
critterdex profile switch -i
`,
		ValidArgsFunction: profileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !pick.Interactive {
				return errors.New("requires a profile, or -i to pick one")
			}
			return withSession(func(ctx context.Context, s *session) error {
				r := profilerun.Switch{
					Store:  s.Store,
					Target: strings.Join(args, " "),
					Out:    cmd.OutOrStdout(),
				}
				if pick.Interactive {
					r.Pick = func(list []profile.Profile, active int) (int, error) {
						return snake.SelectProfile(list, active, cmd.InOrStdin(), cmd.OutOrStdout())
					}
				}
				return r.Do(ctx)
			})
		},
	}
	options.InteractiveArgs(cmd, pick)

	parent.AddCommand(cmd)
}

func addProfileRename(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "rename <name>",
		Short: "Rename the active profile",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a name")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(ctx context.Context, s *session) error {
				r := profilerun.Rename{Store: s.Store, Name: strings.Join(args, " "), Out: cmd.OutOrStdout()}
				return r.Do(ctx)
			})
		},
	}

	parent.AddCommand(cmd)
}

func addProfileRegion(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:       "region <north|south>",
		Short:     "Set the hemisphere of the active profile",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"north", "south"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(ctx context.Context, s *session) error {
				r := profilerun.Region{Store: s.Store, Region: args[0], Out: cmd.OutOrStdout()}
				return r.Do(ctx)
			})
		},
	}

	parent.AddCommand(cmd)
}

func addProfileTime(parent *cobra.Command) {
	run := func(cmd *cobra.Command, c profilerun.Clock) error {
		return withSession(func(ctx context.Context, s *session) error {
			c.Store = s.Store
			c.Out = cmd.OutOrStdout()
			return c.Do(ctx)
		})
	}

	cmd := &cobra.Command{
		Use:   "time",
		Short: "Show or override the clock of the active profile",
		Example: `
critterdex profile time
critterdex profile time set 2025-06-15 21:00
critterdex profile time shift -2h
critterdex profile time clear
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, profilerun.Clock{})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <time>",
		Short: "Pin the clock to a date and time",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, profilerun.Clock{Set: strings.Join(args, " ")})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "shift <offset>",
		Short: "Move the clock by an offset like 3h, -1d or 2w",
		Args:  cobra.MinimumNArgs(1),
		// Negative offsets are not flags.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, profilerun.Clock{Shift: strings.Join(args, "")})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Follow the system clock again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, profilerun.Clock{Clear: true})
		},
	})

	parent.AddCommand(cmd)
}

// confirmer prompts on a terminal. Anywhere else it refuses, so scripts have
// to pass --yes.
func confirmer(cmd *cobra.Command) func(string) (bool, error) {
	return func(label string) (bool, error) {
		f, ok := cmd.InOrStdin().(*os.File)
		if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			return false, fmt.Errorf("%s: input is not a terminal, pass --yes", label)
		}
		return snake.Confirm(label, false, cmd.InOrStdin(), cmd.OutOrStdout())
	}
}
