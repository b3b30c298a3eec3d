package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/skej/pkg/commands/options"
	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

var (
	output  = &options.OutputOptions{}
	verbose = false
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "skej",
		Short: base.Wrap80("AI assisted event scheduling on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log requests to the scheduling service.")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addLogin(topLevel)
	addSignup(topLevel)
	addLogout(topLevel)
	addGet(topLevel)
	addDelete(topLevel)
	addGenerate(topLevel)
	addSchedule(topLevel)
	addVersion(topLevel)
}
