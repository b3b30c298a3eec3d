// Package viewmodel translates between remote wire records and the client's
// event view. Translation is pure: no side effects, no network access. This
// package is the single authority for which fields the UI edits as text and
// which the payload carries as numbers.
package viewmodel

import (
	"strconv"
	"strings"
	"time"

	"tableflip.dev/skej/pkg/event"
	"tableflip.dev/skej/pkg/wire"
)

// ToView assembles an event view from the remote event record plus its
// entities and sessions. Entities are grouped by their wire type tag in
// first-seen order; session duration/priority become editable strings.
func ToView(remote wire.Event, entities []wire.Entity, sessions []wire.Session) *event.View {
	t, _ := event.ParseType(remote.Kind())

	view := &event.View{
		ID:          remote.ID,
		Name:        remote.Name,
		Type:        t,
		Constraints: remote.Constraints,
	}
	if view.Constraints == nil {
		view.Constraints = map[string]any{}
	}
	if start, ok := parseWireTime(remote.StartDate); ok {
		view.Start = start
	}
	if end, ok := parseWireTime(remote.EndDate); ok {
		view.End = end
	}

	view.Entities = groupEntities(entities)
	view.Sessions = make([]event.SessionSpec, 0, len(sessions))
	for _, s := range sessions {
		view.Sessions = append(view.Sessions, event.SessionSpec{
			Title:    s.Title,
			Duration: strconv.Itoa(s.Duration),
			Priority: strconv.Itoa(s.Priority),
			Room:     metaString(s.Meta, "room"),
			Metadata: s.Meta,
		})
	}
	return view
}

// MapSchedule filters a raw wire schedule down to items whose start time
// parses. The raw list stays untouched in the store; renderers still guard
// independently because the mapper is not the only schedule update path.
func MapSchedule(items []wire.ScheduleItem) []wire.ScheduleItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]wire.ScheduleItem, 0, len(items))
	for _, item := range items {
		if _, ok := item.StartsAt(); !ok {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ToPayload produces the event creation body. Timestamps serialize as
// RFC 3339 so the transport always carries a timezone qualifier.
func ToPayload(v *event.View) wire.EventCreate {
	constraints := v.Constraints
	if constraints == nil {
		constraints = map[string]any{}
	}
	return wire.EventCreate{
		EventName:   v.Name,
		EventType:   string(v.Type),
		StartDate:   v.Start.Format(time.RFC3339),
		EndDate:     v.End.Format(time.RFC3339),
		Constraints: constraints,
	}
}

// EntityPayloads converts the view's entity groups into per-group write
// bodies. Empty groups are omitted rather than sent as empty arrays, which
// the service would read as a clear.
func EntityPayloads(v *event.View) []wire.EntityCreate {
	if v == nil {
		return nil
	}
	out := make([]wire.EntityCreate, 0, len(v.Entities))
	for _, group := range v.Entities {
		if len(group.Items) == 0 {
			continue
		}
		out = append(out, wire.EntityCreate{
			EntityType: group.Type,
			Entities:   group.Items,
		})
	}
	return out
}

// SessionPayload converts the view's sessions into the numeric write body.
// Returns nil when the view has no sessions, so callers skip the request
// entirely instead of posting an empty list.
func SessionPayload(v *event.View) *wire.SessionCreate {
	if v == nil || len(v.Sessions) == 0 {
		return nil
	}
	body := &wire.SessionCreate{Sessions: make([]wire.SessionPayload, 0, len(v.Sessions))}
	for _, s := range v.Sessions {
		// Copy the metadata so the caller's draft is never mutated.
		meta := make(map[string]any, len(s.Metadata)+1)
		for k, val := range s.Metadata {
			meta[k] = val
		}
		if s.Room != "" {
			if _, found := meta["room"]; !found {
				meta["room"] = s.Room
			}
		}
		body.Sessions = append(body.Sessions, wire.SessionPayload{
			Title:            s.Title,
			Duration:         atoiOr(s.Duration, 60),
			Priority:         atoiOr(s.Priority, 1),
			RequiredEntities: []string{},
			Metadata:         meta,
		})
	}
	return body
}

func groupEntities(entities []wire.Entity) []event.EntityGroup {
	if len(entities) == 0 {
		return nil
	}
	index := map[string]int{}
	groups := make([]event.EntityGroup, 0, 2)
	for _, e := range entities {
		tag := strings.TrimSpace(e.Type)
		if tag == "" {
			tag = "entity"
		}
		i, found := index[tag]
		if !found {
			i = len(groups)
			index[tag] = i
			groups = append(groups, event.EntityGroup{Type: tag})
		}
		item := e.Meta
		if item == nil {
			item = map[string]any{}
			if e.Name != "" {
				item["name"] = e.Name
			}
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

func parseWireTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	if s, ok := meta[key].(string); ok {
		return s
	}
	return ""
}

func atoiOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}
