package del

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/skej/pkg/api"
	"tableflip.dev/skej/pkg/session"
)

type Delete struct {
	ID int64

	Service api.Service
	Session *session.Store
}

func (n *Delete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete, no service")
	}
	if n.ID <= 0 {
		return errors.New("an event id is required")
	}

	if err := n.Service.DeleteEvent(ctx, n.ID); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("event %d not found", n.ID)
		}
		return remoteErr(n.Session, err)
	}
	fmt.Printf("Deleted event %d\n", n.ID)
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

// Entity removes a single resource (team, room, venue) from an event.
type Entity struct {
	EventID int64
	ID      int64

	Service api.Service
	Session *session.Store
}

func (n *Entity) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete, no service")
	}
	if n.EventID <= 0 || n.ID <= 0 {
		return errors.New("an event id and an entity id are required")
	}

	if err := n.Service.DeleteEntity(ctx, n.EventID, n.ID); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("entity %d not found on event %d", n.ID, n.EventID)
		}
		return remoteErr(n.Session, err)
	}
	fmt.Printf("Deleted entity %d from event %d\n", n.ID, n.EventID)
	return nil
}

// Session cancels a scheduled session on an event.
type Session struct {
	EventID int64
	ID      int64

	Service api.Service
	Session *session.Store
}

func (n *Session) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not cancel, no service")
	}
	if n.EventID <= 0 || n.ID <= 0 {
		return errors.New("an event id and a session id are required")
	}

	if err := n.Service.DeleteSession(ctx, n.EventID, n.ID); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("session %d not found on event %d", n.ID, n.EventID)
		}
		return remoteErr(n.Session, err)
	}
	fmt.Printf("Cancelled session %d on event %d\n", n.ID, n.EventID)
	return nil
}
