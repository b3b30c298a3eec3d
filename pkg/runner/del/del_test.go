package del

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"tableflip.dev/skej/pkg/api"
	"tableflip.dev/skej/pkg/event"
	"tableflip.dev/skej/pkg/session"
	"tableflip.dev/skej/pkg/store"
)

type fakeService struct {
	api.Service

	err            error
	deleted        []int64
	entityDeleted  [][2]int64
	sessionDeleted [][2]int64
}

func (f *fakeService) DeleteEvent(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeService) DeleteEntity(ctx context.Context, eventID, entityID int64) error {
	f.entityDeleted = append(f.entityDeleted, [2]int64{eventID, entityID})
	return f.err
}

func (f *fakeService) DeleteSession(ctx context.Context, eventID, sessionID int64) error {
	f.sessionDeleted = append(f.sessionDeleted, [2]int64{eventID, sessionID})
	return f.err
}

type memoryPersistence struct {
	creds *store.Credentials
}

func (m *memoryPersistence) Credentials() (*store.Credentials, error) {
	if m.creds == nil {
		return nil, store.ErrNotFound
	}
	c := *m.creds
	return &c, nil
}
func (m *memoryPersistence) StoreCredentials(c *store.Credentials) error {
	cp := *c
	m.creds = &cp
	return nil
}
func (m *memoryPersistence) ClearCredentials() error            { m.creds = nil; return nil }
func (m *memoryPersistence) CachedEvent() (*event.View, error)  { return nil, store.ErrNotFound }
func (m *memoryPersistence) StoreCachedEvent(*event.View) error { return nil }
func (m *memoryPersistence) ClearCachedEvent() error            { return nil }
func (m *memoryPersistence) Watch(ctx context.Context) (<-chan store.Event, error) {
	return make(chan store.Event), nil
}

func TestDeleteMapsUnauthorizedToLoginHint(t *testing.T) {
	p := &memoryPersistence{creds: &store.Credentials{Email: "grace@example.com", Token: "tok"}}
	sess := session.New(p)
	sess.CheckAuth()

	d := &Delete{
		ID:      9,
		Service: &fakeService{err: fmt.Errorf("DELETE /events/9: %w", api.ErrUnauthorized)},
		Session: sess,
	}
	err := d.Do(context.Background())
	if err == nil || !strings.Contains(err.Error(), "skej login") {
		t.Fatalf("expected login hint, got %v", err)
	}
	if p.creds != nil {
		t.Error("stored credentials not cleared")
	}
	if sess.Snapshot().Authenticated {
		t.Error("session still authenticated")
	}
}

func TestDeleteMapsNotFound(t *testing.T) {
	d := &Delete{
		ID:      9,
		Service: &fakeService{err: fmt.Errorf("DELETE /events/9: %w", api.ErrNotFound)},
	}
	err := d.Do(context.Background())
	if err == nil || !strings.Contains(err.Error(), "event 9 not found") {
		t.Fatalf("expected not-found message, got %v", err)
	}
}

func TestDeletePassesOtherErrorsThrough(t *testing.T) {
	want := errors.New("connection refused")
	d := &Delete{ID: 9, Service: &fakeService{err: want}}
	if err := d.Do(context.Background()); !errors.Is(err, want) {
		t.Fatalf("expected passthrough, got %v", err)
	}
}

func TestEntityDeleteAddressesEventAndEntity(t *testing.T) {
	svc := &fakeService{}
	e := &Entity{EventID: 42, ID: 7, Service: svc}
	if err := e.Do(context.Background()); err != nil {
		t.Fatalf("Do() = %v", err)
	}
	if len(svc.entityDeleted) != 1 || svc.entityDeleted[0] != [2]int64{42, 7} {
		t.Fatalf("entityDeleted = %v, want [[42 7]]", svc.entityDeleted)
	}
}

func TestSessionCancelMapsNotFound(t *testing.T) {
	svc := &fakeService{err: fmt.Errorf("DELETE: %w", api.ErrNotFound)}
	s := &Session{EventID: 42, ID: 3, Service: svc}
	err := s.Do(context.Background())
	if err == nil || !strings.Contains(err.Error(), "session 3 not found on event 42") {
		t.Fatalf("expected not-found message, got %v", err)
	}
}

func TestSessionCancelRequiresBothIDs(t *testing.T) {
	s := &Session{EventID: 42, Service: &fakeService{}}
	if err := s.Do(context.Background()); err == nil {
		t.Fatal("expected an error for a missing session id")
	}
}
