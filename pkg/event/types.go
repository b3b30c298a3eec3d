// Package event defines the client's canonical in-memory representation of a
// scheduled event, independent of the service wire format.
package event

import (
	"fmt"
	"strings"
	"time"
)

// Type identifies which configuration form an event uses.
type Type string

const (
	// TypeTournament is a round-robin style competition.
	TypeTournament Type = "tournament"
	// TypeConference is a multi-track speaker event.
	TypeConference Type = "conference"
	// TypeHackathon is a phased build event.
	TypeHackathon Type = "hackathon"
	// TypeWorkshop is an instructor-led training event.
	TypeWorkshop Type = "workshop"
	// TypeCustom is a free-form event.
	TypeCustom Type = "custom"
)

// AllTypes returns the closed set of supported event types.
func AllTypes() []Type {
	return []Type{
		TypeTournament,
		TypeConference,
		TypeHackathon,
		TypeWorkshop,
		TypeCustom,
	}
}

// ParseType converts a string to a Type or returns an error for unknown values.
func ParseType(raw string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(raw)))
	if t == "" {
		return TypeCustom, nil
	}
	for _, candidate := range AllTypes() {
		if candidate == t {
			return candidate, nil
		}
	}
	return TypeCustom, fmt.Errorf("event: unknown type %q", raw)
}

// Description returns a friendly blurb for the requested event type.
func Description(t Type) string {
	switch t {
	case TypeTournament:
		return "Teams, venues, round-robin matches"
	case TypeConference:
		return "Speaker sessions across rooms"
	case TypeHackathon:
		return "Phased: opening, coding, demos"
	case TypeWorkshop:
		return "Instructor-led training sessions"
	default:
		return "Free-form event"
	}
}

// EntityGroup is an ordered batch of resources sharing a type tag.
type EntityGroup struct {
	Type  string           `json:"type"`
	Items []map[string]any `json:"items"`
}

// SessionSpec describes one session as the UI edits it. Duration and priority
// are strings here because they back editable text fields; the viewmodel
// mapper owns the conversion to numeric wire semantics.
type SessionSpec struct {
	Title    string         `json:"title"`
	Duration string         `json:"duration"`
	Priority string         `json:"priority"`
	Room     string         `json:"room,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// View is the client's working copy of an event.
//
// ID is zero until the event is persisted and is set exactly once, at
// successful creation. Type never changes for the lifetime of a wizard run.
type View struct {
	ID          int64          `json:"id,omitempty"`
	Name        string         `json:"name"`
	Type        Type           `json:"type"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	Constraints map[string]any `json:"constraints,omitempty"`
	Entities    []EntityGroup  `json:"entities,omitempty"`
	Sessions    []SessionSpec  `json:"sessions,omitempty"`
}

// Persisted reports whether the event exists server-side.
func (v *View) Persisted() bool {
	return v != nil && v.ID != 0
}

// Blank returns a view carrying only the type tag, the state the wizard
// commits when a type is first selected.
func Blank(t Type) *View {
	return &View{Type: t, Constraints: map[string]any{}}
}

// Clone returns a deep copy so store snapshots stay isolated from callers.
func (v *View) Clone() *View {
	if v == nil {
		return nil
	}
	out := *v
	out.Constraints = cloneMap(v.Constraints)
	if len(v.Entities) > 0 {
		out.Entities = make([]EntityGroup, len(v.Entities))
		for i, g := range v.Entities {
			out.Entities[i] = EntityGroup{Type: g.Type, Items: cloneItems(g.Items)}
		}
	}
	if len(v.Sessions) > 0 {
		out.Sessions = make([]SessionSpec, len(v.Sessions))
		for i, s := range v.Sessions {
			out.Sessions[i] = s
			out.Sessions[i].Metadata = cloneMap(s.Metadata)
		}
	}
	return &out
}

func cloneItems(items []map[string]any) []map[string]any {
	if len(items) == 0 {
		return nil
	}
	out := make([]map[string]any, len(items))
	for i, item := range items {
		out[i] = cloneMap(item)
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
