package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textarea"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/skej/pkg/event"
	"tableflip.dev/skej/pkg/forms"
	"tableflip.dev/skej/pkg/tui/events"
	"tableflip.dev/skej/pkg/wizard"
)

const dateLayout = "2006-01-02T15:04"

// formField is one labelled input of the configure step.
type formField struct {
	key       string
	label     string
	multiline bool

	input textinput.Model
	area  textarea.Model
}

func (f *formField) value() string {
	if f.multiline {
		return f.area.Value()
	}
	return f.input.Value()
}

func (f *formField) setValue(v string) {
	if f.multiline {
		f.area.SetValue(v)
		return
	}
	f.input.SetValue(v)
}

func (f *formField) focus() tea.Cmd {
	if f.multiline {
		return f.area.Focus()
	}
	return f.input.Focus()
}

func (f *formField) blur() {
	if f.multiline {
		f.area.Blur()
		return
	}
	f.input.Blur()
}

func (f *formField) view() string {
	if f.multiline {
		return f.area.View()
	}
	return f.input.View()
}

// wizardState holds the interactive state of the wizard surface.
type wizardState struct {
	width  int
	height int

	typeIndex int
	eventType event.Type
	fields    []formField
	focus     int
}

func newWizardState() wizardState {
	return wizardState{}
}

func (w *wizardState) setSize(width, height int) {
	w.width = width
	w.height = height
	for i := range w.fields {
		if w.fields[i].multiline {
			w.fields[i].area.SetWidth(min(width-8, 72))
		}
	}
}

func (w *wizardState) update(msg tea.Msg) tea.Cmd {
	if len(w.fields) == 0 || w.focus >= len(w.fields) {
		return nil
	}
	f := &w.fields[w.focus]
	var cmd tea.Cmd
	if f.multiline {
		f.area, cmd = f.area.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}
	return cmd
}

func (w *wizardState) focusField(i int, cmds *[]tea.Cmd) {
	if len(w.fields) == 0 {
		return
	}
	w.fields[w.focus].blur()
	w.focus = (i + len(w.fields)) % len(w.fields)
	if cmd := w.fields[w.focus].focus(); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
	*cmds = append(*cmds, textinput.Blink)
}

func textField(key, label, placeholder string) formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	return formField{key: key, label: label, input: ti}
}

func areaField(key, label, placeholder string) formField {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.SetHeight(6)
	return formField{key: key, label: label, multiline: true, area: ta}
}

// fieldsFor returns the configure-step fields for an event type.
func fieldsFor(t event.Type) []formField {
	base := []formField{
		textField("name", "Event name", "Spring Cup"),
		textField("start", "Start", dateLayout),
		textField("end", "End", dateLayout),
	}
	switch t {
	case event.TypeTournament:
		return append(base,
			areaField("teams", "Teams (one per line)", "Alpha\nBeta"),
			areaField("venues", "Venues (one per line)", "Court 1"),
			textField("match_duration", "Match duration (minutes)", "90"),
			textField("rest_time", "Rest time (minutes)", "30"),
			textField("max_matches", "Max matches per day", "3"),
		)
	case event.TypeConference:
		return append(base,
			areaField("sessions", "Sessions (Title | Speaker | Duration | Priority | Room)",
				"Keynote | Ada | 60 | 5 | Main Hall"),
		)
	case event.TypeHackathon:
		return append(base,
			textField("venue", "Venue", "Garage"),
			textField("opening", "Opening ceremony (minutes)", "60"),
			textField("coding", "Coding phase (minutes)", "480"),
			textField("mentorship", "Mentorship (minutes)", "120"),
			textField("submission", "Submission window (minutes)", "30"),
			textField("demos", "Demos (minutes)", "180"),
		)
	case event.TypeWorkshop:
		return append(base,
			areaField("sessions", "Sessions (Title | Instructor | Duration)",
				"Basics | Kim | 90"),
		)
	default:
		return base
	}
}

func (w *wizardState) fieldValue(key string) string {
	for i := range w.fields {
		if w.fields[i].key == key {
			return w.fields[i].value()
		}
	}
	return ""
}

// buildInput assembles the type-specific form input from the field values.
func (w *wizardState) buildInput() forms.Input {
	name := w.fieldValue("name")
	start := w.fieldValue("start")
	end := w.fieldValue("end")

	switch w.eventType {
	case event.TypeTournament:
		return forms.Tournament{
			EventName:        name,
			StartDate:        start,
			EndDate:          end,
			Teams:            w.fieldValue("teams"),
			Venues:           w.fieldValue("venues"),
			MatchDuration:    w.fieldValue("match_duration"),
			RestTime:         w.fieldValue("rest_time"),
			MaxMatchesPerDay: w.fieldValue("max_matches"),
		}
	case event.TypeConference:
		return forms.Conference{
			EventName: name,
			StartDate: start,
			EndDate:   end,
			Sessions:  w.fieldValue("sessions"),
		}
	case event.TypeHackathon:
		return forms.Hackathon{
			EventName:          name,
			StartDate:          start,
			EndDate:            end,
			Venue:              w.fieldValue("venue"),
			OpeningDuration:    w.fieldValue("opening"),
			CodingDuration:     w.fieldValue("coding"),
			MentorshipDuration: w.fieldValue("mentorship"),
			SubmissionDuration: w.fieldValue("submission"),
			DemosDuration:      w.fieldValue("demos"),
		}
	case event.TypeWorkshop:
		return forms.Workshop{
			EventName: name,
			StartDate: start,
			EndDate:   end,
			Sessions:  w.fieldValue("sessions"),
		}
	default:
		return forms.Custom{EventName: name, StartDate: start, EndDate: end}
	}
}

// prefill seeds the configure fields from a loaded event view so resuming an
// event shows its saved configuration.
func (w *wizardState) prefill(v *event.View) {
	if v == nil {
		return
	}
	set := func(key, value string) {
		for i := range w.fields {
			if w.fields[i].key == key {
				w.fields[i].setValue(value)
				return
			}
		}
	}
	set("name", v.Name)
	if !v.Start.IsZero() {
		set("start", v.Start.Format(dateLayout))
	}
	if !v.End.IsZero() {
		set("end", v.End.Format(dateLayout))
	}

	for _, group := range v.Entities {
		names := make([]string, 0, len(group.Items))
		for _, item := range group.Items {
			if name, ok := item["name"].(string); ok && name != "" {
				names = append(names, name)
			}
		}
		switch group.Type {
		case "team":
			set("teams", strings.Join(names, "\n"))
		case "venue":
			if w.eventType == event.TypeHackathon && len(names) > 0 {
				set("venue", names[0])
			} else {
				set("venues", strings.Join(names, "\n"))
			}
		}
	}

	switch w.eventType {
	case event.TypeConference:
		lines := make([]string, 0, len(v.Sessions))
		for _, s := range v.Sessions {
			speaker, _ := s.Metadata["speaker"].(string)
			lines = append(lines, fmt.Sprintf("%s | %s | %s | %s | %s",
				s.Title, speaker, s.Duration, s.Priority, s.Room))
		}
		set("sessions", strings.Join(lines, "\n"))
	case event.TypeWorkshop:
		lines := make([]string, 0, len(v.Sessions))
		for _, s := range v.Sessions {
			instructor, _ := s.Metadata["instructor"].(string)
			lines = append(lines, fmt.Sprintf("%s | %s | %s", s.Title, instructor, s.Duration))
		}
		set("sessions", strings.Join(lines, "\n"))
	}
}

// syncWizard rebuilds the wizard surface after a controller step change.
func (m *Model) syncWizard(cmds *[]tea.Cmd) {
	m.mode = modeWizard
	switch m.ctrl.Step() {
	case wizard.StepSelectType:
		m.wiz.fields = nil
	case wizard.StepConfigure:
		view := m.store.CurrentEvent()
		t := event.TypeCustom
		if view != nil {
			t = view.Type
		}
		m.wiz.eventType = t
		m.wiz.fields = fieldsFor(t)
		m.wiz.focus = 0
		m.wiz.prefill(view)
		m.wiz.setSize(m.termWidth, m.termHeight)
		if cmd := m.wiz.fields[0].focus(); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
		*cmds = append(*cmds, textinput.Blink)
	case wizard.StepReview:
		m.wiz.fields = nil
	}
}

func (m *Model) handleWizardKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	key := msg.String()

	if key == "ctrl+c" {
		m.quit(cmds)
		return true
	}
	if key == "esc" {
		m.ctrl.Reset()
		m.mode = modeEvents
		*cmds = append(*cmds, m.loadEvents())
		return true
	}

	switch m.ctrl.Step() {
	case wizard.StepSelectType:
		types := event.AllTypes()
		switch key {
		case "down", "j", "tab":
			m.wiz.typeIndex = (m.wiz.typeIndex + 1) % len(types)
			return true
		case "up", "k", "shift+tab":
			m.wiz.typeIndex = (m.wiz.typeIndex - 1 + len(types)) % len(types)
			return true
		case "enter":
			m.ctrl.SelectType(types[m.wiz.typeIndex])
			m.syncWizard(cmds)
			return true
		}

	case wizard.StepConfigure:
		switch key {
		case "tab":
			m.wiz.focusField(m.wiz.focus+1, cmds)
			return true
		case "shift+tab":
			m.wiz.focusField(m.wiz.focus-1, cmds)
			return true
		case "enter":
			// Enter advances between single-line fields; inside a textarea it
			// inserts a newline and falls through to the component.
			if len(m.wiz.fields) > 0 && !m.wiz.fields[m.wiz.focus].multiline {
				m.wiz.focusField(m.wiz.focus+1, cmds)
				return true
			}
			return false
		case "ctrl+s":
			in := m.wiz.buildInput()
			name := strings.TrimSpace(m.wiz.fieldValue("name"))
			*cmds = append(*cmds, func() tea.Msg {
				if _, err := m.ctrl.Submit(m.ctx, in); err != nil {
					return submitDoneMsg{name: name, err: err}
				}
				return submitDoneMsg{name: name}
			})
			return true
		case "ctrl+b":
			m.ctrl.Reset()
			m.syncWizard(cmds)
			return true
		}

	case wizard.StepReview:
		switch key {
		case "g":
			*cmds = append(*cmds, func() tea.Msg {
				if err := m.ctrl.Regenerate(m.ctx); err != nil {
					return errMsg{err}
				}
				return nil
			})
			*cmds = append(*cmds, events.ToastCmd(componentID, events.SeverityInfo, "Regenerating schedule"))
			return true
		case "q":
			m.ctrl.Reset()
			m.mode = modeEvents
			*cmds = append(*cmds, m.loadEvents())
			return true
		}
	}
	return false
}
