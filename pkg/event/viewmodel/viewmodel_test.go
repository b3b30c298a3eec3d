package viewmodel

import (
	"testing"
	"time"

	"tableflip.dev/skej/pkg/event"
	"tableflip.dev/skej/pkg/wire"
)

func TestToViewGroupsEntitiesByType(t *testing.T) {
	remote := wire.Event{
		ID:        7,
		Name:      "Spring Cup",
		EventType: "tournament",
		StartDate: "2026-05-01T09:00:00Z",
		EndDate:   "2026-05-02T18:00:00Z",
	}
	entities := []wire.Entity{
		{Type: "team", Meta: map[string]any{"name": "Reds"}},
		{Type: "venue", Meta: map[string]any{"name": "Court 1"}},
		{Type: "team", Meta: map[string]any{"name": "Blues"}},
	}

	view := ToView(remote, entities, nil)
	if view.Type != event.TypeTournament {
		t.Fatalf("type = %q, want tournament", view.Type)
	}
	if len(view.Entities) != 2 {
		t.Fatalf("expected 2 entity groups, got %d", len(view.Entities))
	}
	if view.Entities[0].Type != "team" || len(view.Entities[0].Items) != 2 {
		t.Fatalf("team group wrong: %+v", view.Entities[0])
	}
	if view.Entities[1].Type != "venue" || len(view.Entities[1].Items) != 1 {
		t.Fatalf("venue group wrong: %+v", view.Entities[1])
	}
	if view.Start.IsZero() || view.End.IsZero() {
		t.Fatalf("timestamps did not parse: %v %v", view.Start, view.End)
	}
}

func TestToViewSessionsBecomeEditableStrings(t *testing.T) {
	sessions := []wire.Session{
		{Title: "AI Ethics", Duration: 45, Priority: 3, Meta: map[string]any{"room": "Hall A"}},
	}
	view := ToView(wire.Event{ID: 1, EventType: "conference"}, nil, sessions)
	if len(view.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(view.Sessions))
	}
	s := view.Sessions[0]
	if s.Duration != "45" || s.Priority != "3" || s.Room != "Hall A" {
		t.Fatalf("session mapping wrong: %+v", s)
	}
}

func TestToPayloadTimestampsAreTimezoneQualified(t *testing.T) {
	v := &event.View{
		Name:  "Tech Summit",
		Type:  event.TypeConference,
		Start: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC),
	}
	payload := ToPayload(v)
	if payload.StartDate != "2026-06-01T09:00:00Z" {
		t.Fatalf("start_date = %q", payload.StartDate)
	}
	if payload.Constraints == nil {
		t.Fatal("constraints must never be nil on the wire")
	}
}

func TestEntityPayloadsOmitEmptyGroups(t *testing.T) {
	v := &event.View{
		Entities: []event.EntityGroup{
			{Type: "team", Items: []map[string]any{{"name": "Reds"}}},
			{Type: "venue"},
		},
	}
	payloads := EntityPayloads(v)
	if len(payloads) != 1 {
		t.Fatalf("expected only non-empty groups, got %d", len(payloads))
	}
	if payloads[0].EntityType != "team" {
		t.Fatalf("unexpected group: %+v", payloads[0])
	}
}

func TestSessionPayloadConvertsStringsToNumbers(t *testing.T) {
	v := &event.View{
		Sessions: []event.SessionSpec{
			{Title: "Future of Web", Duration: "60", Priority: "2", Room: "Room 101"},
			{Title: "Broken", Duration: "soon", Priority: ""},
		},
	}
	body := SessionPayload(v)
	if body == nil || len(body.Sessions) != 2 {
		t.Fatalf("payload wrong: %+v", body)
	}
	if body.Sessions[0].Duration != 60 || body.Sessions[0].Priority != 2 {
		t.Fatalf("numeric conversion wrong: %+v", body.Sessions[0])
	}
	if body.Sessions[0].Metadata["room"] != "Room 101" {
		t.Fatalf("room not carried into metadata: %+v", body.Sessions[0].Metadata)
	}
	if body.Sessions[1].Duration != 60 || body.Sessions[1].Priority != 1 {
		t.Fatalf("defaults not applied: %+v", body.Sessions[1])
	}

	if SessionPayload(&event.View{}) != nil {
		t.Fatal("empty session list must produce no payload")
	}
}

func TestSessionPayloadLeavesDraftUntouched(t *testing.T) {
	v := &event.View{
		Sessions: []event.SessionSpec{
			{Title: "Keynote", Duration: "45", Room: "Main Hall",
				Metadata: map[string]any{"speaker": "Ada"}},
		},
	}
	body := SessionPayload(v)
	if body.Sessions[0].Metadata["room"] != "Main Hall" {
		t.Fatalf("room not carried into metadata: %+v", body.Sessions[0].Metadata)
	}
	if _, found := v.Sessions[0].Metadata["room"]; found {
		t.Fatalf("draft metadata mutated: %+v", v.Sessions[0].Metadata)
	}
	if len(v.Sessions[0].Metadata) != 1 || v.Sessions[0].Metadata["speaker"] != "Ada" {
		t.Fatalf("draft metadata changed: %+v", v.Sessions[0].Metadata)
	}
}

func TestMapScheduleDropsUnparsableStarts(t *testing.T) {
	items := []wire.ScheduleItem{
		{Time: "2026-06-01T10:00:00Z", SessionTitle: "Keynote"},
		{Time: "not-a-time", SessionTitle: "Ghost"},
		{SessionTitle: "No start at all"},
	}
	mapped := MapSchedule(items)
	if len(mapped) != 1 || mapped[0].SessionTitle != "Keynote" {
		t.Fatalf("mapped = %+v", mapped)
	}
}
