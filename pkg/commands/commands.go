package commands

import (
	"os"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/critterdex/pkg/log"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "critterdex",
		Short: base.Wrap80("Track the fish, bugs and sea creatures of your island, one profile per play-through."),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetLevel(log.ParseLevel(os.Getenv("CRITTERDEX_LOG")))
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addList(topLevel)
	addLive(topLevel)
	addTrack(topLevel)
	addProfile(topLevel)
	addSettings(topLevel)
	addExport(topLevel)
	addImport(topLevel)
	addCatalog(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
