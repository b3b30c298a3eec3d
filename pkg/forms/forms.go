// Package forms normalizes type-specific wizard input into the canonical
// event view the write pipeline consumes. Each event type gets its own input
// struct carrying only the fields it legitimately produces; there is no
// any-typed payload crossing the form boundary.
package forms

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/skej/pkg/event"
)

// Input is the closed set of per-type wizard inputs.
type Input interface {
	// Type reports which event type this input configures.
	Type() event.Type
	// Normalize validates the raw fields and produces a complete event view
	// ready for the write pipeline. The returned view has no ID yet.
	Normalize() (*event.View, error)
}

// ErrIncomplete is returned when required fields are missing or unusable.
var ErrIncomplete = errors.New("forms: incomplete input")

// Tournament configures a round-robin competition.
type Tournament struct {
	EventName        string
	StartDate        string
	EndDate          string
	Teams            string // one per line
	Venues           string // one per line
	MatchDuration    string // minutes
	RestTime         string // minutes
	MaxMatchesPerDay string
}

func (f Tournament) Type() event.Type { return event.TypeTournament }

func (f Tournament) Normalize() (*event.View, error) {
	v, err := baseView(event.TypeTournament, f.EventName, f.StartDate, f.EndDate)
	if err != nil {
		return nil, err
	}

	teams := splitLines(f.Teams)
	venues := splitLines(f.Venues)
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: a tournament needs at least two teams", ErrIncomplete)
	}

	v.Constraints["rest_time"] = atoiOr(f.RestTime, 30)
	v.Constraints["max_matches_per_day"] = atoiOr(f.MaxMatchesPerDay, 3)

	teamItems := make([]map[string]any, len(teams))
	for i, name := range teams {
		teamItems[i] = map[string]any{"name": name}
	}
	v.Entities = append(v.Entities, event.EntityGroup{Type: "team", Items: teamItems})
	if len(venues) > 0 {
		venueItems := make([]map[string]any, len(venues))
		for i, name := range venues {
			venueItems[i] = map[string]any{"name": name, "capacity": 100}
		}
		v.Entities = append(v.Entities, event.EntityGroup{Type: "venue", Items: venueItems})
	}

	duration := f.MatchDuration
	if strings.TrimSpace(duration) == "" {
		duration = "90"
	}
	// Round-robin: one match per team pair, insertion order i<j.
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			v.Sessions = append(v.Sessions, event.SessionSpec{
				Title:    fmt.Sprintf("%s vs %s", teams[i], teams[j]),
				Duration: duration,
				Priority: "1",
				Metadata: map[string]any{"teams": []string{teams[i], teams[j]}},
			})
		}
	}
	return v, nil
}

// Conference configures speaker sessions parsed from one line per session in
// the form "Title | Speaker | Duration | Priority | Room".
type Conference struct {
	EventName string
	StartDate string
	EndDate   string
	Sessions  string
}

func (f Conference) Type() event.Type { return event.TypeConference }

func (f Conference) Normalize() (*event.View, error) {
	v, err := baseView(event.TypeConference, f.EventName, f.StartDate, f.EndDate)
	if err != nil {
		return nil, err
	}

	lines := splitLines(f.Sessions)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: a conference needs at least one session", ErrIncomplete)
	}

	seen := map[string]bool{}
	var rooms []string
	for _, line := range lines {
		title, speaker, duration, priority, room := splitFields(line, 5)
		if title == "" {
			title = "Untitled Session"
		}
		if duration == "" {
			duration = "60"
		}
		if priority == "" {
			priority = "1"
		}
		v.Sessions = append(v.Sessions, event.SessionSpec{
			Title:    title,
			Duration: duration,
			Priority: priority,
			Room:     room,
			Metadata: map[string]any{"speaker": speaker, "equipment": []string{}},
		})
		if room != "" && !seen[room] {
			seen[room] = true
			rooms = append(rooms, room)
		}
	}

	if len(rooms) > 0 {
		items := make([]map[string]any, len(rooms))
		for i, name := range rooms {
			items[i] = map[string]any{
				"name":      name,
				"capacity":  100,
				"equipment": []string{"projector", "microphone"},
			}
		}
		v.Entities = append(v.Entities, event.EntityGroup{Type: "room", Items: items})
	}
	return v, nil
}

// Hackathon configures the five fixed phases with per-phase durations.
type Hackathon struct {
	EventName          string
	StartDate          string
	EndDate            string
	Venue              string
	OpeningDuration    string
	CodingDuration     string
	MentorshipDuration string
	SubmissionDuration string
	DemosDuration      string
}

func (f Hackathon) Type() event.Type { return event.TypeHackathon }

func (f Hackathon) Normalize() (*event.View, error) {
	v, err := baseView(event.TypeHackathon, f.EventName, f.StartDate, f.EndDate)
	if err != nil {
		return nil, err
	}

	phases := []struct {
		title    string
		phase    string
		duration string
		fallback string
	}{
		{"Opening Ceremony", "opening", f.OpeningDuration, "60"},
		{"Coding Phase", "coding", f.CodingDuration, "480"},
		{"Mentorship Sessions", "mentorship", f.MentorshipDuration, "120"},
		{"Submission Deadline", "submission", f.SubmissionDuration, "30"},
		{"Demo Presentations", "demos", f.DemosDuration, "180"},
	}
	for _, p := range phases {
		duration := strings.TrimSpace(p.duration)
		if duration == "" {
			duration = p.fallback
		}
		v.Sessions = append(v.Sessions, event.SessionSpec{
			Title:    p.title,
			Duration: duration,
			Priority: "1",
			Metadata: map[string]any{"phase": p.phase},
		})
	}

	if venue := strings.TrimSpace(f.Venue); venue != "" {
		v.Entities = append(v.Entities, event.EntityGroup{
			Type:  "venue",
			Items: []map[string]any{{"name": venue, "capacity": 200}},
		})
	}
	return v, nil
}

// Workshop configures instructor-led sessions parsed from one line per
// session in the form "Title | Instructor | Duration".
type Workshop struct {
	EventName string
	StartDate string
	EndDate   string
	Sessions  string
}

func (f Workshop) Type() event.Type { return event.TypeWorkshop }

func (f Workshop) Normalize() (*event.View, error) {
	v, err := baseView(event.TypeWorkshop, f.EventName, f.StartDate, f.EndDate)
	if err != nil {
		return nil, err
	}

	lines := splitLines(f.Sessions)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: a workshop needs at least one session", ErrIncomplete)
	}
	for _, line := range lines {
		title, instructor, duration := splitFields3(line)
		if title == "" {
			title = "Untitled Workshop"
		}
		if duration == "" {
			duration = "90"
		}
		v.Sessions = append(v.Sessions, event.SessionSpec{
			Title:    title,
			Duration: duration,
			Priority: "1",
			Metadata: map[string]any{"instructor": instructor},
		})
	}
	return v, nil
}

// Custom passes pre-built groups and sessions through untouched, for callers
// that assemble their own event shape.
type Custom struct {
	EventName   string
	StartDate   string
	EndDate     string
	Constraints map[string]any
	Entities    []event.EntityGroup
	Sessions    []event.SessionSpec
}

func (f Custom) Type() event.Type { return event.TypeCustom }

func (f Custom) Normalize() (*event.View, error) {
	v, err := baseView(event.TypeCustom, f.EventName, f.StartDate, f.EndDate)
	if err != nil {
		return nil, err
	}
	for k, val := range f.Constraints {
		v.Constraints[k] = val
	}
	v.Entities = append(v.Entities, f.Entities...)
	v.Sessions = append(v.Sessions, f.Sessions...)
	return v, nil
}

func baseView(t event.Type, name, start, end string) (*event.View, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: event name required", ErrIncomplete)
	}
	startAt, err := parseLocal(start)
	if err != nil {
		return nil, fmt.Errorf("%w: start date: %v", ErrIncomplete, err)
	}
	endAt, err := parseLocal(end)
	if err != nil {
		return nil, fmt.Errorf("%w: end date: %v", ErrIncomplete, err)
	}
	if !endAt.After(startAt) {
		return nil, fmt.Errorf("%w: end must be after start", ErrIncomplete)
	}
	v := event.Blank(t)
	v.Name = name
	v.Start = startAt
	v.End = endAt
	return v, nil
}

func parseLocal(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("required")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", raw)
}

func splitLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func splitFields(line string, n int) (string, string, string, string, string) {
	parts := make([]string, n)
	for i, field := range strings.SplitN(line, "|", n) {
		parts[i] = strings.TrimSpace(field)
	}
	return parts[0], parts[1], parts[2], parts[3], parts[4]
}

func splitFields3(line string) (string, string, string) {
	parts := make([]string, 3)
	for i, field := range strings.SplitN(line, "|", 3) {
		parts[i] = strings.TrimSpace(field)
	}
	return parts[0], parts[1], parts[2]
}

func atoiOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}
