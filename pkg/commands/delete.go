package commands

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/skej/pkg/commands/options"
	"tableflip.dev/skej/pkg/runner/del"
)

func addDelete(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"del", "rm"},
		Short:   "Delete an event",
		Example: `
skej delete 42
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
			s := del.Delete{
				ID:      io.ID,
				Service: svc,
				Session: sess,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	addDeleteEntity(cmd)
	addDeleteSession(cmd)
	topLevel.AddCommand(cmd)
}

func addDeleteEntity(topLevel *cobra.Command) {
	var eventID, entityID int64

	cmd := &cobra.Command{
		Use:   "entity <eventID> <entityID>",
		Short: "Remove a resource from an event",
		Example: `
skej delete entity 42 7
`,
		Args: func(cmd *cobra.Command, args []string) error {
			return parseIDPair(args, &eventID, &entityID)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, _, err := newService()
			if err != nil {
				return err
			}
			s := del.Entity{
				EventID: eventID,
				ID:      entityID,
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

func addDeleteSession(topLevel *cobra.Command) {
	var eventID, sessionID int64

	cmd := &cobra.Command{
		Use:     "session <eventID> <sessionID>",
		Aliases: []string{"cancel"},
		Short:   "Cancel a scheduled session on an event",
		Example: `
skej delete session 42 3
`,
		Args: func(cmd *cobra.Command, args []string) error {
			return parseIDPair(args, &eventID, &sessionID)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, _, err := newService()
			if err != nil {
				return err
			}
			s := del.Session{
				EventID: eventID,
				ID:      sessionID,
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

func parseIDPair(args []string, first, second *int64) error {
	if len(args) != 2 {
		return errors.New("an event id and a target id are required")
	}
	a, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return err
	}
	b, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return err
	}
	*first, *second = a, b
	return nil
}
