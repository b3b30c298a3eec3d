package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tableflip.dev/skej/pkg/event"
	"tableflip.dev/skej/pkg/store"
)

type memoryPersistence struct {
	mu    sync.Mutex
	creds *store.Credentials
}

func (m *memoryPersistence) Credentials() (*store.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.creds == nil {
		return nil, store.ErrNotFound
	}
	cp := *m.creds
	return &cp, nil
}

func (m *memoryPersistence) StoreCredentials(c *store.Credentials) error {
	if c == nil || c.Email == "" || c.Token == "" {
		return errors.New("store: incomplete credentials")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.creds = &cp
	return nil
}

func (m *memoryPersistence) ClearCredentials() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = nil
	return nil
}

func (m *memoryPersistence) CachedEvent() (*event.View, error)  { return nil, store.ErrNotFound }
func (m *memoryPersistence) StoreCachedEvent(*event.View) error { return nil }
func (m *memoryPersistence) ClearCachedEvent() error            { return nil }
func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return nil, errors.New("store: watch unsupported")
}

func TestLoginIgnoresIncompleteIdentity(t *testing.T) {
	mp := &memoryPersistence{}
	s := New(mp)

	s.Login("", "tok")
	s.Login("a@b.c", "")

	if snap := s.Snapshot(); snap.Authenticated {
		t.Fatalf("incomplete login must not authenticate: %+v", snap)
	}
	if mp.creds != nil {
		t.Fatal("incomplete login must not persist credentials")
	}
}

func TestLoginLogoutLifecycle(t *testing.T) {
	mp := &memoryPersistence{}
	s := New(mp)

	s.Login("organizer@example.com", "tok-1")
	snap := s.Snapshot()
	if !snap.Authenticated || snap.Email != "organizer@example.com" {
		t.Fatalf("login snapshot = %+v", snap)
	}
	if s.Token() != "tok-1" {
		t.Fatalf("token = %q", s.Token())
	}
	if mp.creds == nil {
		t.Fatal("login must persist credentials")
	}

	s.Logout()
	snap = s.Snapshot()
	if snap.Authenticated || snap.Email != "" || s.Token() != "" {
		t.Fatalf("logout snapshot = %+v token=%q", snap, s.Token())
	}
	if mp.creds != nil {
		t.Fatal("logout must clear persisted credentials")
	}
}

func TestCheckAuthRestoresAndSignalsReady(t *testing.T) {
	mp := &memoryPersistence{creds: &store.Credentials{Email: "a@b.c", Token: "tok"}}
	s := New(mp)

	select {
	case <-s.Ready():
		t.Fatal("ready must not close before first CheckAuth")
	default:
	}

	if snap := s.Snapshot(); snap.Restored {
		t.Fatal("store must start unrestored")
	}

	snap := s.CheckAuth()
	if !snap.Authenticated || !snap.Restored || snap.Email != "a@b.c" {
		t.Fatalf("restored snapshot = %+v", snap)
	}

	select {
	case <-s.Ready():
	case <-time.After(time.Second):
		t.Fatal("ready not closed after CheckAuth")
	}
}

func TestCheckAuthIsIdempotent(t *testing.T) {
	mp := &memoryPersistence{creds: &store.Credentials{Email: "a@b.c", Token: "tok"}}
	s := New(mp)

	first := s.CheckAuth()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := s.CheckAuth(); got != first {
				t.Errorf("snapshot diverged: %+v != %+v", got, first)
			}
		}()
	}
	wg.Wait()

	// Only the first transition emits; repeats must not flicker subscribers.
	changes := 0
	for {
		select {
		case <-s.Events():
			changes++
			continue
		default:
		}
		break
	}
	if changes != 1 {
		t.Fatalf("expected exactly 1 change event, got %d", changes)
	}
}

func TestCheckAuthWithoutCredentialsIsVerifiedUnauthenticated(t *testing.T) {
	s := New(&memoryPersistence{})
	snap := s.CheckAuth()
	if snap.Authenticated {
		t.Fatalf("no credentials must not authenticate: %+v", snap)
	}
	if !snap.Restored {
		t.Fatal("CheckAuth must mark the store restored even when signed out")
	}
}
