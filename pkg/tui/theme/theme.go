package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer   FooterTheme
	Panel    PanelTheme
	Modal    ModalTheme
	Toast    ToastTheme
	Schedule ScheduleTheme
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Step   lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// ModalTheme styles centered modal overlays (confirmation prompts).
type ModalTheme struct {
	Frame         lipgloss.Style
	Title         lipgloss.Style
	Body          lipgloss.Style
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonDanger  lipgloss.Style
}

// ToastTheme styles transient notifications by severity.
type ToastTheme struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
}

// ScheduleTheme styles the generated schedule view.
type ScheduleTheme struct {
	Slot       lipgloss.Style
	Time       lipgloss.Style
	Venue      lipgloss.Style
	ConflictHd lipgloss.Style
	ConflictSf lipgloss.Style
	Fatal      lipgloss.Style
	Suggestion lipgloss.Style
	Empty      lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	button := lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("250"))

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Step:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title:         lipgloss.NewStyle().Bold(true),
			Body:          lipgloss.NewStyle(),
			Button:        button,
			ButtonFocused: button.Reverse(true),
			ButtonDanger:  button.Foreground(lipgloss.Color("203")).Bold(true),
		},
		Toast: ToastTheme{
			Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
			Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
		},
		Schedule: ScheduleTheme{
			Slot:       lipgloss.NewStyle(),
			Time:       lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Venue:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			ConflictHd: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			ConflictSf: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Fatal:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
			Suggestion: lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
			Empty:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		},
	}
}
