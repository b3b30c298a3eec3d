// Package schedule derives presentation state from raw schedule data. The
// four render states are mutually exclusive and checked in a fixed priority
// order; views render whichever one Derive returns and nothing else.
package schedule

import (
	"sort"
	"time"

	"tableflip.dev/skej/pkg/wire"
)

// State enumerates the mutually exclusive render branches.
type State int

const (
	// StateLoading wins unconditionally while the global loading flag is set.
	StateLoading State = iota
	// StateFailure renders the fatal conflict plus the suggestion list. The
	// timeline is never rendered in this state regardless of its contents.
	StateFailure
	// StateEmpty renders the "no schedule yet" placeholder.
	StateEmpty
	// StateTimeline renders the sorted timeline, optionally with a non-fatal
	// conflict summary above it.
	StateTimeline
)

// Item is a schedule entry whose start time parsed. End is zero when the
// item carries no usable end time.
type Item struct {
	wire.ScheduleItem

	Start time.Time
	End   time.Time
}

// Rendering is the derived presentation state.
type Rendering struct {
	State State

	// Fatal is set only in StateFailure.
	Fatal       *wire.Conflict
	Suggestions []string

	// Items is set only in StateTimeline: unparsable starts filtered out,
	// remainder sorted ascending. Equal start times keep insertion order.
	Items []Item

	// Conflicts holds the non-fatal conflicts for the summary strip.
	Conflicts []wire.Conflict
}

// Derive computes the render state for the given store contents. It never
// fails: malformed items are excluded, not fatal.
func Derive(items []wire.ScheduleItem, conflicts []wire.Conflict, suggestions []string, loading bool) Rendering {
	if loading {
		return Rendering{State: StateLoading}
	}

	if fatal := FatalConflict(conflicts); fatal != nil {
		return Rendering{
			State:       StateFailure,
			Fatal:       fatal,
			Suggestions: append([]string(nil), suggestions...),
		}
	}

	timeline := Timeline(items)
	if len(timeline) == 0 {
		return Rendering{State: StateEmpty, Conflicts: append([]wire.Conflict(nil), conflicts...)}
	}

	return Rendering{
		State:     StateTimeline,
		Items:     timeline,
		Conflicts: append([]wire.Conflict(nil), conflicts...),
	}
}

// FatalConflict returns the first conflict that suppresses the timeline, or
// nil. At most one fatal condition is meaningful per generation result.
func FatalConflict(conflicts []wire.Conflict) *wire.Conflict {
	for i := range conflicts {
		if conflicts[i].Fatal() {
			return &conflicts[i]
		}
	}
	return nil
}

// Timeline filters out items whose start time fails to parse and sorts the
// remainder ascending by start time. The sort is stable: two items sharing a
// start time keep their insertion order, an explicit non-determinism for
// equal timestamps.
func Timeline(items []wire.ScheduleItem) []Item {
	out := make([]Item, 0, len(items))
	for _, raw := range items {
		start, ok := raw.StartsAt()
		if !ok {
			continue
		}
		item := Item{ScheduleItem: raw, Start: start}
		if end, ok := raw.EndsAt(); ok {
			item.End = end
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

// BySeverity buckets conflicts under their severity tag. Unknown tags fold
// into hard so they are never under-reported.
func BySeverity(conflicts []wire.Conflict) map[string][]wire.Conflict {
	if len(conflicts) == 0 {
		return nil
	}
	out := make(map[string][]wire.Conflict, 3)
	for _, c := range conflicts {
		tag := c.Type
		switch tag {
		case wire.SeverityHard, wire.SeveritySoft, wire.SeverityFailSafe:
		default:
			tag = wire.SeverityHard
		}
		out[tag] = append(out[tag], c)
	}
	return out
}

// NormalizeScore clamps an explanation score onto the 0-10 display scale.
func NormalizeScore(raw float64) float64 {
	switch {
	case raw < 0:
		return 0
	case raw > 10:
		return 10
	default:
		return raw
	}
}
