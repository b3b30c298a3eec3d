// Package wire holds the JSON records exchanged with the remote scheduling
// service. These mirror the service payloads field for field; the client's
// own view of an event lives in pkg/event.
package wire

import (
	"encoding/json"
	"time"
)

// Event is the remote event record.
type Event struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Type        string         `json:"type,omitempty"`
	EventType   string         `json:"event_type,omitempty"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	Constraints map[string]any `json:"constraints,omitempty"`
}

// Kind returns the event type tag regardless of which field the service
// populated. Listing endpoints use `type`, detail endpoints use `event_type`.
func (e Event) Kind() string {
	if e.EventType != "" {
		return e.EventType
	}
	return e.Type
}

// Entity is a single scheduled resource (team, room, venue, ...).
type Entity struct {
	ID   int64          `json:"id,omitempty"`
	Type string         `json:"type"`
	Name string         `json:"name,omitempty"`
	Meta map[string]any `json:"meta,omitempty"`
}

// Session is a remote session record.
type Session struct {
	ID       int64          `json:"id,omitempty"`
	Title    string         `json:"title"`
	Duration int            `json:"duration"`
	Priority int            `json:"priority"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// ScheduleItem is one slot of a generated schedule. Every field except the
// start time is optional; the service has shipped both `time` and
// `start_time` for the same concept so both are retained.
type ScheduleItem struct {
	Time         string         `json:"time,omitempty"`
	StartTime    string         `json:"start_time,omitempty"`
	EndTime      string         `json:"end_time,omitempty"`
	Venue        string         `json:"venue,omitempty"`
	VenueName    string         `json:"venue_name,omitempty"`
	Entity       string         `json:"entity,omitempty"`
	SessionTitle string         `json:"session_title,omitempty"`
	Explanation  string         `json:"explanation,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

// Start returns the raw start timestamp, preferring `time` over `start_time`.
func (s ScheduleItem) Start() string {
	if s.Time != "" {
		return s.Time
	}
	return s.StartTime
}

// StartsAt parses the start timestamp. ok is false when the item carries no
// usable start time; such items must never reach an ordered rendering.
func (s ScheduleItem) StartsAt() (time.Time, bool) {
	return parseStamp(s.Start())
}

// EndsAt parses the optional end timestamp.
func (s ScheduleItem) EndsAt() (time.Time, bool) {
	return parseStamp(s.EndTime)
}

// Title returns the best human label for the item.
func (s ScheduleItem) Title() string {
	if s.SessionTitle != "" {
		return s.SessionTitle
	}
	if s.Details != nil {
		if t, ok := s.Details["session_title"].(string); ok && t != "" {
			return t
		}
	}
	if s.Entity != "" {
		return s.Entity
	}
	return "Scheduled Item"
}

// VenueLabel returns whichever venue field the service populated.
func (s ScheduleItem) VenueLabel() string {
	if s.Venue != "" {
		return s.Venue
	}
	return s.VenueName
}

func parseStamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Severity tags carried by Conflict.Type.
const (
	SeverityHard     = "hard"
	SeveritySoft     = "soft"
	SeverityFailSafe = "fail-safe"
)

// Conflict describes a constraint violation reported by the engine.
type Conflict struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	IsFatal    bool   `json:"is_fatal,omitempty"`
}

// Fatal reports whether this conflict suppresses the schedule timeline.
func (c Conflict) Fatal() bool {
	return c.IsFatal || c.Type == SeverityFailSafe
}

// Explanation is a free-text rationale with an optional confidence score.
type Explanation struct {
	Text  string          `json:"text"`
	Score json.RawMessage `json:"score,omitempty"`
}

// ScoreValue decodes the optional score. The service emits either a bare
// number or nothing; anything else reads as absent.
func (e Explanation) ScoreValue() (float64, bool) {
	if len(e.Score) == 0 {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(e.Score, &v); err != nil {
		return 0, false
	}
	return v, true
}

// GenerateResult is the display-ready response of POST /events/{id}/generate.
type GenerateResult struct {
	Schedule     []ScheduleItem `json:"schedule"`
	Conflicts    []Conflict     `json:"conflicts"`
	Suggestions  []string       `json:"suggestions"`
	Explanations []Explanation  `json:"explanations"`
}

// EventList is the body of GET /events.
type EventList struct {
	Events []Event `json:"events"`
}

// EntityList is the body of GET /events/{id}/entities.
type EntityList struct {
	Entities []Entity `json:"entities"`
}

// SessionList is the body of GET /events/{id}/sessions.
type SessionList struct {
	Sessions []Session `json:"sessions"`
}

// ScheduleList is the abbreviated body of GET /events/{id}/schedule.
type ScheduleList struct {
	Schedule []ScheduleItem `json:"schedule"`
}

// EventCreate is the body of POST /events.
type EventCreate struct {
	EventName   string         `json:"event_name"`
	EventType   string         `json:"event_type"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	Constraints map[string]any `json:"constraints"`
}

// EntityCreate is the body of POST /events/{id}/entities.
type EntityCreate struct {
	EntityType string           `json:"entity_type"`
	Entities   []map[string]any `json:"entities"`
}

// SessionCreate is the body of POST /events/{id}/sessions.
type SessionCreate struct {
	Sessions []SessionPayload `json:"sessions"`
}

// SessionPayload is the numeric-field session shape the write pipeline sends.
type SessionPayload struct {
	Title            string         `json:"title"`
	Duration         int            `json:"duration"`
	Priority         int            `json:"priority"`
	RequiredEntities []string       `json:"required_entities"`
	Metadata         map[string]any `json:"metadata"`
}

// Credentials is the body of POST /auth/login and /auth/signup.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// AuthResponse is the success body of the auth endpoints.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// User identifies the authenticated account.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
}
