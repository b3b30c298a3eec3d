package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/skej/pkg/commands/options"
	"tableflip.dev/skej/pkg/runner/login"
)

func addLogin(topLevel *cobra.Command) {
	ao := &options.AuthOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the scheduling service",
		Example: `
skej login --email me@example.com --password hunter2
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if ao.Email == "" || ao.Password == "" {
				return errors.New("email and password are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, _, err := newService()
			if err != nil {
				return err
			}
			s := login.Login{
				Email:    ao.Email,
				Password: ao.Password,
				Service:  svc,
				Session:  sess,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddAuthArgs(cmd, ao)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addSignup(topLevel *cobra.Command) {
	ao := &options.AuthOptions{}

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new account and log in",
		Example: `
skej signup --email me@example.com --password hunter2 --username me
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if ao.Email == "" || ao.Password == "" {
				return errors.New("email and password are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, _, err := newService()
			if err != nil {
				return err
			}
			s := login.Signup{
				Email:    ao.Email,
				Password: ao.Password,
				Username: ao.Username,
				FullName: ao.FullName,
				Service:  svc,
				Session:  sess,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddAuthArgs(cmd, ao)
	options.AddSignupArgs(cmd, ao)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Example: `
skej logout
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, _, err := newService()
			if err != nil {
				return err
			}
			s := login.Logout{Session: sess}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
