// Package notify renders the notification surfaces of the TUI: a stack of
// transient toasts and a centered confirmation modal that blocks only the
// flow that asked for it.
package notify

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/skej/pkg/tui/events"
	"tableflip.dev/skej/pkg/tui/theme"
)

// DefaultToastLifetime is how long a toast stays visible.
const DefaultToastLifetime = 4 * time.Second

type toast struct {
	id       int
	severity events.Severity
	message  string
}

// toastExpiredMsg removes one toast by id.
type toastExpiredMsg struct{ id int }

// Toasts is the toast stack. Toasts append in arrival order and expire
// independently; duplicates are allowed.
type Toasts struct {
	theme    theme.ToastTheme
	lifetime time.Duration
	width    int

	nextID int
	active []toast
}

// NewToasts creates an empty stack rendered with th.
func NewToasts(th theme.ToastTheme) *Toasts {
	return &Toasts{theme: th, lifetime: DefaultToastLifetime, width: 60}
}

// SetWidth updates the wrap width for toast messages.
func (t *Toasts) SetWidth(width int) {
	if width > 0 {
		t.width = width
	}
}

// SetLifetime overrides the auto-dismiss delay. Zero keeps the default.
func (t *Toasts) SetLifetime(d time.Duration) {
	if d > 0 {
		t.lifetime = d
	}
}

// Len reports how many toasts are visible.
func (t *Toasts) Len() int { return len(t.active) }

// Update consumes toast messages and expiry ticks.
func (t *Toasts) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case events.ToastMsg:
		t.nextID++
		id := t.nextID
		t.active = append(t.active, toast{id: id, severity: msg.Severity, message: msg.Message})
		return tea.Tick(t.lifetime, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		})
	case toastExpiredMsg:
		for i, tt := range t.active {
			if tt.id == msg.id {
				t.active = append(t.active[:i], t.active[i+1:]...)
				break
			}
		}
	}
	return nil
}

// View renders the stack, newest last.
func (t *Toasts) View() string {
	if len(t.active) == 0 {
		return ""
	}
	lines := make([]string, 0, len(t.active))
	for _, tt := range t.active {
		style := t.theme.Info
		marker := "•"
		switch tt.severity {
		case events.SeveritySuccess:
			style = t.theme.Success
			marker = "✓"
		case events.SeverityError:
			style = t.theme.Error
			marker = "✗"
		}
		wrapped := wordwrap.String(fmt.Sprintf("%s %s", marker, tt.message), t.width)
		lines = append(lines, style.Render(wrapped))
	}
	return strings.Join(lines, "\n")
}
