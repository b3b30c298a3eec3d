package get

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/skej/pkg/api"
	"tableflip.dev/skej/pkg/event/viewmodel"
	"tableflip.dev/skej/pkg/printers"
	"tableflip.dev/skej/pkg/session"
)

type Get struct {
	ShowID bool
	ID     int64

	Service api.Service
	Session *session.Store
}

func (n *Get) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no service")
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	fmt.Println("")

	if n.ID > 0 {
		return n.one(ctx, &pp)
	}

	events, err := n.Service.Events(ctx)
	if err != nil {
		return remoteErr(n.Session, err)
	}
	pp.TitleWithCount("Events", len(events))
	pp.Events(events...)
	return nil
}

func (n *Get) one(ctx context.Context, pp *printers.PrettyPrint) error {
	remote, err := n.Service.Event(ctx, n.ID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("event %d not found", n.ID)
		}
		return remoteErr(n.Session, err)
	}
	entities, err := n.Service.Entities(ctx, n.ID)
	if err != nil {
		return remoteErr(n.Session, err)
	}
	sessions, err := n.Service.Sessions(ctx, n.ID)
	if err != nil {
		return remoteErr(n.Session, err)
	}

	view := viewmodel.ToView(*remote, entities, sessions)
	pp.Title(view.Name)
	fmt.Printf("  type   %s\n", view.Type)
	fmt.Printf("  start  %s\n", view.Start.Format("2006-01-02 15:04"))
	fmt.Printf("  end    %s\n", view.End.Format("2006-01-02 15:04"))
	for _, group := range view.Entities {
		fmt.Printf("  %s (%d)\n", group.Type, len(group.Items))
		for _, item := range group.Items {
			if name, ok := item["name"].(string); ok {
				fmt.Printf("    %s\n", name)
			}
		}
	}
	if len(view.Sessions) > 0 {
		fmt.Printf("  sessions (%d)\n", len(view.Sessions))
		for _, s := range view.Sessions {
			fmt.Printf("    %s (%sm, priority %s)\n", s.Title, s.Duration, s.Priority)
		}
	}
	return nil
}

// remoteErr drops a rejected token so the next command starts signed out.
func remoteErr(sess *session.Store, err error) error {
	if api.IsUnauthorized(err) {
		if sess != nil {
			sess.Invalidate()
		}
		return errors.New("session expired, run skej login")
	}
	return err
}
