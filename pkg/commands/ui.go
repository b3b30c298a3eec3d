package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/skej/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
skej ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, p, err := newService()
			if err != nil {
				return err
			}
			i := ui.UI{Service: svc, Session: sess, Persistence: p}
			return i.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
