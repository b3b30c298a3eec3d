package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/skej/pkg/schedule"
	"tableflip.dev/skej/pkg/wire"
)

// PrettyPrint writes human-oriented listings to stdout.
type PrettyPrint struct {
	ShowID bool
}

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" event")
	default:
		_, _ = c.Println(" events")
	}
}

// Events prints the event list as a table.
func (pp *PrettyPrint) Events(events ...wire.Event) {
	if len(events) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" none\n\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	if pp.ShowID {
		tbl.AddRow("ID", "NAME", "TYPE", "START", "END")
	} else {
		tbl.AddRow("NAME", "TYPE", "START", "END")
	}
	for _, e := range events {
		if pp.ShowID {
			tbl.AddRow(e.ID, e.Name, e.Kind(), e.StartDate, e.EndDate)
		} else {
			tbl.AddRow(e.Name, e.Kind(), e.StartDate, e.EndDate)
		}
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// Schedule prints a derived rendering the same way the TUI branches: a fatal
// conflict suppresses the timeline, an empty schedule prints a notice, and a
// populated one prints the ordered slots with any non-fatal conflicts after.
func (pp *PrettyPrint) Schedule(r schedule.Rendering) {
	switch r.State {
	case schedule.StateLoading:
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Println("loading...")
		return
	case schedule.StateFailure:
		red := color.New(color.FgHiRed, color.Bold)
		_, _ = red.Println("Scheduling failed")
		if r.Fatal != nil && r.Fatal.Message != "" {
			fmt.Println(r.Fatal.Message)
		}
		pp.suggestions(r.Suggestions)
		return
	case schedule.StateEmpty:
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Println("No schedule generated yet")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("TIME", "SESSION", "VENUE")
	for _, item := range r.Items {
		venue := item.VenueLabel()
		if venue == "" {
			venue = "-"
		}
		tbl.AddRow(item.Start.Format("Mon 15:04"), item.Title(), venue)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)

	groups := schedule.BySeverity(r.Conflicts)
	pp.conflicts("Conflicts", color.New(color.FgHiRed), groups[wire.SeverityHard])
	pp.conflicts("Warnings", color.New(color.FgHiYellow), groups[wire.SeveritySoft])
	pp.suggestions(r.Suggestions)
}

// Explanations prints slot score notes when the service returned any.
func (pp *PrettyPrint) Explanations(explanations ...wire.Explanation) {
	if len(explanations) == 0 {
		return
	}
	pp.Title("Explanations")
	f := color.New(color.Faint)
	for _, ex := range explanations {
		line := ex.Text
		if score, ok := ex.ScoreValue(); ok {
			line = fmt.Sprintf("%s (score %.1f)", line, schedule.NormalizeScore(score))
		}
		_, _ = f.Printf("  %s\n", strings.TrimSpace(line))
	}
}

func (pp *PrettyPrint) conflicts(title string, c *color.Color, conflicts []wire.Conflict) {
	if len(conflicts) == 0 {
		return
	}
	_, _ = c.Println(title)
	for _, conflict := range conflicts {
		fmt.Printf("  %s\n", conflict.Message)
		if conflict.Suggestion != "" {
			color.New(color.Faint).Printf("    %s\n", conflict.Suggestion)
		}
	}
}

func (pp *PrettyPrint) suggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	y := color.New(color.FgHiYellow, color.Italic)
	_, _ = y.Println("Suggestions")
	for _, s := range suggestions {
		fmt.Printf("  %s\n", s)
	}
}
