package notify

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/skej/pkg/tui/events"
	"tableflip.dev/skej/pkg/tui/theme"
)

// Confirm is the centered confirmation modal. While active it swallows key
// input so nothing behind it reacts; everything else in the program keeps
// updating.
type Confirm struct {
	theme theme.ModalTheme
	width int

	request *events.ConfirmRequestMsg
	focused int // 0 confirm, 1 cancel
}

// NewConfirm creates an inactive modal rendered with th.
func NewConfirm(th theme.ModalTheme) *Confirm {
	return &Confirm{theme: th, width: 48}
}

// SetWidth bounds the modal body width.
func (c *Confirm) SetWidth(width int) {
	if width > 0 {
		c.width = width
	}
}

// Active reports whether a request is pending.
func (c *Confirm) Active() bool { return c.request != nil }

// Update consumes confirmation requests and, while active, key presses.
// The returned command is the requester's OnConfirm or OnCancel; a second
// request arriving while one is open cancels the first.
func (c *Confirm) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case events.ConfirmRequestMsg:
		var cmd tea.Cmd
		if c.request != nil {
			cmd = c.request.OnCancel
		}
		req := msg
		c.request = &req
		// Destructive prompts default focus to the safe choice.
		if req.Destructive {
			c.focused = 1
		} else {
			c.focused = 0
		}
		return cmd, true
	case tea.KeyPressMsg:
		if c.request == nil {
			return nil, false
		}
		switch msg.String() {
		case "enter":
			if c.focused == 0 {
				return c.resolve(true), true
			}
			return c.resolve(false), true
		case "y":
			return c.resolve(true), true
		case "n", "esc", "q":
			return c.resolve(false), true
		case "tab", "left", "right", "h", "l":
			c.focused = 1 - c.focused
			return nil, true
		default:
			// Swallow everything else so the view behind stays inert.
			return nil, true
		}
	}
	return nil, false
}

func (c *Confirm) resolve(confirmed bool) tea.Cmd {
	req := c.request
	c.request = nil
	if req == nil {
		return nil
	}
	if confirmed {
		return req.OnConfirm
	}
	return req.OnCancel
}

// View renders the modal, or empty when inactive.
func (c *Confirm) View() string {
	if c.request == nil {
		return ""
	}
	req := c.request

	confirmLabel := req.ConfirmText
	if confirmLabel == "" {
		confirmLabel = "Confirm"
	}
	cancelLabel := req.CancelText
	if cancelLabel == "" {
		cancelLabel = "Cancel"
	}

	confirmStyle := c.theme.Button
	if req.Destructive {
		confirmStyle = c.theme.ButtonDanger
	}
	cancelStyle := c.theme.Button
	if c.focused == 0 {
		confirmStyle = confirmStyle.Reverse(true)
	} else {
		cancelStyle = c.theme.ButtonFocused
	}

	var b strings.Builder
	if req.Title != "" {
		b.WriteString(c.theme.Title.Render(req.Title))
		b.WriteString("\n\n")
	}
	if req.Message != "" {
		b.WriteString(c.theme.Body.Render(wordwrap.String(req.Message, c.width)))
		b.WriteString("\n\n")
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		confirmStyle.Render(confirmLabel), "  ", cancelStyle.Render(cancelLabel))
	b.WriteString(buttons)

	return c.theme.Frame.Render(b.String())
}
