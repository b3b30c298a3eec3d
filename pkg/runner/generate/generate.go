package generate

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/skej/pkg/api"
	"tableflip.dev/skej/pkg/printers"
	"tableflip.dev/skej/pkg/schedule"
	"tableflip.dev/skej/pkg/session"
)

// Generate asks the service to solve the schedule for an event and prints
// the result the same way the review step renders it.
type Generate struct {
	ID int64

	Service api.Service
	Session *session.Store
}

func (n *Generate) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not generate, no service")
	}
	if n.ID <= 0 {
		return errors.New("an event id is required")
	}

	result, err := n.Service.Generate(ctx, n.ID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("event %d not found", n.ID)
		}
		return remoteErr(n.Session, err)
	}

	pp := printers.PrettyPrint{}
	fmt.Println("")
	pp.Schedule(schedule.Derive(result.Schedule, result.Conflicts, result.Suggestions, false))
	pp.Explanations(result.Explanations...)
	return nil
}

// Show prints the stored schedule without rerunning the solver.
type Show struct {
	ID int64

	Service api.Service
	Session *session.Store
}

func (n *Show) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not show schedule, no service")
	}
	if n.ID <= 0 {
		return errors.New("an event id is required")
	}

	items, err := n.Service.Schedule(ctx, n.ID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("event %d not found", n.ID)
		}
		return remoteErr(n.Session, err)
	}

	pp := printers.PrettyPrint{}
	fmt.Println("")
	pp.Schedule(schedule.Derive(items, nil, nil, false))
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
