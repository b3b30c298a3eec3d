// Package state holds the active event and everything derived from it. It is
// the single reactive state holder all views read from: mutation happens only
// through the named operations below, each of which emits a typed event so
// subscribers observe the new value with no interleaving of old and new.
package state

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/skej/pkg/event"
	"tableflip.dev/skej/pkg/tui/events"
	"tableflip.dev/skej/pkg/wire"
)

// Snapshot exposes one consistent read of the store. Slices are copies; the
// returned data should be treated as immutable by callers.
type Snapshot struct {
	Event        *event.View
	Schedule     []wire.ScheduleItem
	Conflicts    []wire.Conflict
	Suggestions  []string
	Explanations []wire.Explanation
	Loading      bool
}

// Store is the event view-model store. It mirrors an informer cache: state
// lives locally behind a mutex, watchers subscribe to emitted events, and
// consumers read consistent snapshots.
type Store struct {
	component events.ComponentID

	mu sync.RWMutex

	current      *event.View
	schedule     []wire.ScheduleItem
	conflicts    []wire.Conflict
	suggestions  []string
	explanations []wire.Explanation
	loading      bool

	eventCh chan tea.Msg
}

// New creates an empty store that will emit events using the provided
// ComponentID (falls back to "state" if empty).
func New(component events.ComponentID) *Store {
	if component == "" {
		component = events.ComponentID("state")
	}
	return &Store{
		component: component,
		eventCh:   make(chan tea.Msg, 64),
	}
}

// Events exposes the store event channel for Bubble Tea subscriptions.
func (s *Store) Events() <-chan tea.Msg {
	return s.eventCh
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Event:        s.current.Clone(),
		Schedule:     append([]wire.ScheduleItem(nil), s.schedule...),
		Conflicts:    append([]wire.Conflict(nil), s.conflicts...),
		Suggestions:  append([]string(nil), s.suggestions...),
		Explanations: append([]wire.Explanation(nil), s.explanations...),
		Loading:      s.loading,
	}
}

// SetCurrentEvent replaces the active event wholesale. Callers must supply a
// complete view; there is no partial merge.
func (s *Store) SetCurrentEvent(v *event.View) {
	s.mu.Lock()
	s.current = v.Clone()
	cp := s.current.Clone()
	s.mu.Unlock()
	s.emit(events.EventChangeMsg{Component: s.component, Event: cp})
}

// ClearEvent resets the event and every derived list together, atomically, so
// no subscriber can observe a previous event's schedule against a new
// event's identity.
func (s *Store) ClearEvent() {
	s.mu.Lock()
	s.current = nil
	s.schedule = nil
	s.conflicts = nil
	s.suggestions = nil
	s.explanations = nil
	s.mu.Unlock()
	s.emit(events.EventChangeMsg{Component: s.component})
	s.emit(events.ScheduleChangeMsg{Component: s.component})
}

// SetSchedule replaces the schedule list.
func (s *Store) SetSchedule(items []wire.ScheduleItem) {
	s.mu.Lock()
	s.schedule = append([]wire.ScheduleItem(nil), items...)
	s.mu.Unlock()
	s.emitScheduleChange()
}

// SetConflicts replaces the conflict list.
func (s *Store) SetConflicts(conflicts []wire.Conflict) {
	s.mu.Lock()
	s.conflicts = append([]wire.Conflict(nil), conflicts...)
	s.mu.Unlock()
	s.emitScheduleChange()
}

// SetSuggestions replaces the suggestion list.
func (s *Store) SetSuggestions(suggestions []string) {
	s.mu.Lock()
	s.suggestions = append([]string(nil), suggestions...)
	s.mu.Unlock()
	s.emitScheduleChange()
}

// SetExplanations replaces the explanation list.
func (s *Store) SetExplanations(explanations []wire.Explanation) {
	s.mu.Lock()
	s.explanations = append([]wire.Explanation(nil), explanations...)
	s.mu.Unlock()
	s.emitScheduleChange()
}

// SetGenerateResult replaces all four derived lists in one transition. Used
// by the write pipeline so subscribers never see a half-applied result.
func (s *Store) SetGenerateResult(result *wire.GenerateResult) {
	if result == nil {
		return
	}
	s.mu.Lock()
	s.schedule = append([]wire.ScheduleItem(nil), result.Schedule...)
	s.conflicts = append([]wire.Conflict(nil), result.Conflicts...)
	s.suggestions = append([]string(nil), result.Suggestions...)
	s.explanations = append([]wire.Explanation(nil), result.Explanations...)
	s.mu.Unlock()
	s.emitScheduleChange()
}

// SetLoading flips the single global loading flag shared by all async
// operations touching the event. A presentation hint, not a lock.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	changed := s.loading != loading
	s.loading = loading
	s.mu.Unlock()
	if changed {
		s.emit(events.LoadingMsg{Component: s.component, Loading: loading})
	}
}

// Loading reports the global loading flag.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// CurrentEvent returns a copy of the active event, nil when none is set.
func (s *Store) CurrentEvent() *event.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

func (s *Store) emitScheduleChange() {
	s.mu.RLock()
	msg := events.ScheduleChangeMsg{
		Component:    s.component,
		Schedule:     append([]wire.ScheduleItem(nil), s.schedule...),
		Conflicts:    append([]wire.Conflict(nil), s.conflicts...),
		Suggestions:  append([]string(nil), s.suggestions...),
		Explanations: append([]wire.Explanation(nil), s.explanations...),
	}
	s.mu.RUnlock()
	s.emit(msg)
}

func (s *Store) emit(msg tea.Msg) {
	select {
	case s.eventCh <- msg:
	default:
	}
}
