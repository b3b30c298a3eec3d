package app

import (
	"fmt"
	"strings"

	"tableflip.dev/skej/pkg/event"
	"tableflip.dev/skej/pkg/schedule"
	"tableflip.dev/skej/pkg/wizard"
)

func (m *Model) View() string {
	var sections []string

	switch m.mode {
	case modeRestoring:
		sections = append(sections, m.theme.Footer.Status.Render("Loading..."))
	case modeLogin:
		sections = append(sections, m.loginView())
	case modeEvents:
		sections = append(sections, m.eventsView())
	case modeWizard:
		sections = append(sections, m.wizardView())
	}

	if m.status != "" {
		sections = append(sections, m.theme.Footer.Status.Render(m.status))
	}
	if toasts := m.toasts.View(); toasts != "" {
		sections = append(sections, toasts)
	}
	if m.confirm.Active() {
		sections = append(sections, m.confirm.View())
	}
	if footer := m.footerView(); footer != "" {
		sections = append(sections, footer)
	}

	return strings.Join(sections, "\n\n")
}

func (m *Model) loginView() string {
	title := "Log in"
	action := "Enter log in · Ctrl+S switch to sign up"
	if m.signupMode {
		title = "Sign up"
		action = "Enter create account · Ctrl+S switch to log in"
	}

	var b strings.Builder
	b.WriteString(m.theme.Panel.Title.Render(title))
	b.WriteString("\n\n")
	b.WriteString("Email\n")
	b.WriteString(m.loginEmail.View())
	b.WriteString("\n\nPassword\n")
	b.WriteString(m.loginPassword.View())
	b.WriteString("\n\n")
	b.WriteString(m.theme.Footer.Help.Render(action))
	return m.theme.Panel.Frame.Render(b.String())
}

func (m *Model) eventsView() string {
	var b strings.Builder
	b.WriteString(m.theme.Panel.Title.Render("Events"))
	b.WriteString("\n")
	if len(m.evList.Items()) == 0 {
		b.WriteString(m.theme.Schedule.Empty.Render("No events yet. Press n to create one."))
	} else {
		b.WriteString(m.evList.View())
	}
	return b.String()
}

func (m *Model) wizardView() string {
	switch m.ctrl.Step() {
	case wizard.StepSelectType:
		return m.selectTypeView()
	case wizard.StepConfigure:
		return m.configureView()
	case wizard.StepReview:
		return m.reviewView()
	}
	return ""
}

func (m *Model) selectTypeView() string {
	var b strings.Builder
	b.WriteString(m.theme.Panel.Title.Render("What kind of event?"))
	b.WriteString("\n\n")
	for i, t := range event.AllTypes() {
		cursor := "  "
		line := fmt.Sprintf("%-12s %s", t, event.Description(t))
		if i == m.wiz.typeIndex {
			cursor = "> "
			line = m.theme.Footer.Step.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}
	return m.theme.Panel.Frame.Render(b.String())
}

func (m *Model) configureView() string {
	var b strings.Builder
	title := fmt.Sprintf("Configure %s", m.wiz.eventType)
	b.WriteString(m.theme.Panel.Title.Render(title))
	b.WriteString("\n\n")
	for i := range m.wiz.fields {
		f := &m.wiz.fields[i]
		label := f.label
		if i == m.wiz.focus {
			label = m.theme.Footer.Step.Render(label)
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(f.view())
		b.WriteString("\n")
	}
	return m.theme.Panel.Frame.Render(b.String())
}

// reviewView renders exactly one of the four schedule states.
func (m *Model) reviewView() string {
	snap := m.store.Snapshot()
	r := schedule.Derive(snap.Schedule, snap.Conflicts, snap.Suggestions, snap.Loading)

	var b strings.Builder
	name := "Schedule"
	if snap.Event != nil {
		name = snap.Event.Name
	}
	b.WriteString(m.theme.Panel.Title.Render(name))
	b.WriteString("\n\n")

	switch r.State {
	case schedule.StateLoading:
		b.WriteString(m.theme.Footer.Status.Render("Generating schedule..."))

	case schedule.StateFailure:
		b.WriteString(m.theme.Schedule.Fatal.Render("Scheduling failed"))
		if r.Fatal != nil && r.Fatal.Message != "" {
			b.WriteString("\n")
			b.WriteString(r.Fatal.Message)
		}
		for _, s := range r.Suggestions {
			b.WriteString("\n")
			b.WriteString(m.theme.Schedule.Suggestion.Render("  " + s))
		}

	case schedule.StateEmpty:
		b.WriteString(m.theme.Schedule.Empty.Render("No schedule generated yet. Press g to generate."))

	case schedule.StateTimeline:
		// Conflicts read first so the timeline below them is already framed.
		b.WriteString(m.conflictSummary(r))
		for _, item := range r.Items {
			when := m.theme.Schedule.Time.Render(item.Start.Format("Mon 15:04"))
			line := fmt.Sprintf("%s  %s", when, item.Title())
			if venue := item.VenueLabel(); venue != "" {
				line += "  " + m.theme.Schedule.Venue.Render(venue)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return m.theme.Panel.Frame.Render(b.String())
}

func (m *Model) conflictSummary(r schedule.Rendering) string {
	if len(r.Conflicts) == 0 {
		return ""
	}
	var b strings.Builder
	for _, c := range r.Conflicts {
		style := m.theme.Schedule.ConflictSf
		if c.Type == "hard" {
			style = m.theme.Schedule.ConflictHd
		}
		b.WriteString(style.Render("! " + c.Message))
		if c.Suggestion != "" {
			b.WriteString("\n")
			b.WriteString(m.theme.Schedule.Suggestion.Render("  " + c.Suggestion))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) footerView() string {
	var help string
	switch m.mode {
	case modeEvents:
		help = "enter open · n new · d delete · r refresh · o logout · q quit"
	case modeWizard:
		switch m.ctrl.Step() {
		case wizard.StepSelectType:
			help = "↑/↓ choose · enter next · esc back"
		case wizard.StepConfigure:
			help = "tab next field · ctrl+s create & schedule · esc cancel"
		case wizard.StepReview:
			help = "g regenerate · q back to events · esc cancel"
		}
	case modeLogin:
		help = "tab switch field · ctrl+c quit"
	}
	if help == "" {
		return ""
	}
	return m.theme.Footer.Help.Render(help)
}

