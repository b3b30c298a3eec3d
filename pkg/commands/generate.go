package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/skej/pkg/commands/options"
	"tableflip.dev/skej/pkg/runner/generate"
)

func addGenerate(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "generate <id>",
		Aliases: []string{"gen"},
		Short:   "Generate a schedule for an event",
		Example: `
skej generate 42
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("an event id is required")
			}
			return io.ParseID(args[0])
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, _, err := newService()
			if err != nil {
				return err
			}
			s := generate.Generate{
				ID:      io.ID,
				Service: svc,
				Session: sess,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addSchedule(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "schedule <id>",
		Short: "Show the stored schedule for an event",
		Example: `
skej schedule 42
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("an event id is required")
			}
			return io.ParseID(args[0])
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, _, err := newService()
			if err != nil {
				return err
			}
			s := generate.Show{
				ID:      io.ID,
				Service: svc,
				Session: sess,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
