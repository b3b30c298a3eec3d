// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// AuthOptions
type AuthOptions struct {
	Email    string
	Password string
	Username string
	FullName string
}

func AddAuthArgs(cmd *cobra.Command, o *AuthOptions) {
	cmd.Flags().StringVarP(&o.Email, "email", "e", "",
		"Email address for the account.")
	cmd.Flags().StringVarP(&o.Password, "password", "p", "",
		"Password for the account.")
}

func AddSignupArgs(cmd *cobra.Command, o *AuthOptions) {
	cmd.Flags().StringVarP(&o.Username, "username", "u", "",
		"Username for the new account.")
	cmd.Flags().StringVar(&o.FullName, "full-name", "",
		"Full name for the new account.")
}
