// Package session holds process-wide authentication state. The store is a
// singleton shared by the CLI and TUI; all mutation goes through Login,
// Logout, and CheckAuth so subscribers observe consistent snapshots.
package session

import (
	"context"
	"errors"
	"sync"

	"tableflip.dev/skej/pkg/store"
)

// Snapshot is a consistent read of the session state.
//
// Restored distinguishes "not yet verified" from "verified unauthenticated":
// protected surfaces must wait for Restored before redirecting to login,
// instead of trusting a settle delay.
type Snapshot struct {
	Authenticated bool
	Restored      bool
	Email         string
}

// Change is emitted on the store's event channel after every state
// transition.
type Change struct {
	Snapshot Snapshot
}

// Store is the authentication state holder.
type Store struct {
	mu sync.RWMutex

	persistence store.Persistence

	authenticated bool
	restored      bool
	email         string
	token         string

	ready     chan struct{}
	readyOnce sync.Once

	eventCh chan Change
}

// New creates a session store backed by the provided persistence.
func New(p store.Persistence) *Store {
	return &Store{
		persistence: p,
		ready:       make(chan struct{}),
		eventCh:     make(chan Change, 16),
	}
}

// Events exposes the change channel for subscribers.
func (s *Store) Events() <-chan Change {
	return s.eventCh
}

// Ready is closed once the first CheckAuth pass completes, authenticated or
// not. It is the explicit restoration-complete signal.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Login records the identity and persists the token. An incomplete identity
// is silently ignored; the store keeps its previous state.
func (s *Store) Login(email, token string) {
	if email == "" || token == "" {
		return
	}
	s.mu.Lock()
	s.authenticated = true
	s.restored = true
	s.email = email
	s.token = token
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.persistence != nil {
		// Persist errors do not roll back the in-memory login; the session is
		// still valid for this process, it just will not survive a restart.
		_ = s.persistence.StoreCredentials(&store.Credentials{Email: email, Token: token})
	}
	s.markReady()
	s.emit(snap)
}

// Logout clears the persisted token and authenticated flag unconditionally.
func (s *Store) Logout() {
	s.mu.Lock()
	s.authenticated = false
	s.restored = true
	s.email = ""
	s.token = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.persistence != nil {
		_ = s.persistence.ClearCredentials()
	}
	s.markReady()
	s.emit(snap)
}

// CheckAuth restores state from persisted storage. It is idempotent and safe
// to call from multiple mounting components: repeated calls converge on the
// same snapshot without flicker, and the first completed pass closes Ready.
func (s *Store) CheckAuth() Snapshot {
	var creds *store.Credentials
	if s.persistence != nil {
		if c, err := s.persistence.Credentials(); err == nil {
			creds = c
		} else if !errors.Is(err, store.ErrNotFound) {
			// Unreadable storage reads as signed out; the user can re-login.
			creds = nil
		}
	}

	s.mu.Lock()
	prev := s.snapshotLocked()
	if creds != nil {
		s.authenticated = true
		s.email = creds.Email
		s.token = creds.Token
	} else {
		s.authenticated = false
		s.email = ""
		s.token = ""
	}
	s.restored = true
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.markReady()
	if snap != prev {
		s.emit(snap)
	}
	return snap
}

// Invalidate destroys the session after the transport detected an expired or
// rejected token. Equivalent to Logout but named for the call sites that map
// 401-class responses.
func (s *Store) Invalidate() {
	s.Logout()
}

// Watch re-runs the restore path whenever another process mutates the
// persisted credentials, keeping long-lived TUIs in sync with CLI logins and
// logouts. Blocks until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	if s.persistence == nil {
		return errors.New("session: no persistence configured")
	}
	events, err := s.persistence.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			if evt.Type == store.EventCredentialsChanged {
				s.CheckAuth()
			}
		}
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Authenticated: s.authenticated,
		Restored:      s.restored,
		Email:         s.email,
	}
}

func (s *Store) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

func (s *Store) emit(snap Snapshot) {
	select {
	case s.eventCh <- Change{Snapshot: snap}:
	default:
	}
}
