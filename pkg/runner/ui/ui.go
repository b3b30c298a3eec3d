package ui

import (
	"context"
	"errors"

	"tableflip.dev/skej/pkg/api"
	"tableflip.dev/skej/pkg/session"
	"tableflip.dev/skej/pkg/state"
	"tableflip.dev/skej/pkg/store"
	"tableflip.dev/skej/pkg/tui/app"
	"tableflip.dev/skej/pkg/wizard"
)

// UI launches the interactive terminal client.
type UI struct {
	Service     api.Service
	Session     *session.Store
	Persistence store.Persistence
}

func (n *UI) Do(ctx context.Context) error {
	if n.Service == nil || n.Session == nil {
		return errors.New("can not open ui, no service")
	}

	st := state.New("wizard")
	ctrl := wizard.New(n.Service, st)
	if n.Persistence != nil {
		ctrl.UseDrafts(n.Persistence)
	}

	return app.Run(n.Service, n.Session, st, ctrl)
}
