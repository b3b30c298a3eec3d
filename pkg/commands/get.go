package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/skej/pkg/commands/options"
	"tableflip.dev/skej/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "get [id]",
		Aliases: []string{"events", "list"},
		Short:   "List events, or show one event in full",
		Example: `
skej get
skej get 42
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return nil
			}
			if len(args) > 1 {
				return errors.New("at most one event id")
			}
			return io.ParseID(args[0])
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, _, err := newService()
			if err != nil {
				return err
			}
			s := get.Get{
				ShowID:  io.ShowID,
				ID:      io.ID,
				Service: svc,
				Session: sess,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
