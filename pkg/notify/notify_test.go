package notify

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/skej/pkg/tui/events"
	"tableflip.dev/skej/pkg/tui/theme"
)

func TestToastsAppendAndExpire(t *testing.T) {
	toasts := NewToasts(theme.Default().Toast)

	cmd := toasts.Update(events.ToastMsg{Severity: events.SeveritySuccess, Message: "event created"})
	if cmd == nil {
		t.Fatal("toast did not schedule expiry")
	}
	toasts.Update(events.ToastMsg{Severity: events.SeverityError, Message: "generation failed"})
	if toasts.Len() != 2 {
		t.Fatalf("len = %d, want 2", toasts.Len())
	}

	view := toasts.View()
	if !strings.Contains(view, "event created") || !strings.Contains(view, "generation failed") {
		t.Errorf("view missing messages:\n%s", view)
	}

	// Expire the first toast only.
	toasts.Update(toastExpiredMsg{id: 1})
	if toasts.Len() != 1 {
		t.Fatalf("len after expiry = %d, want 1", toasts.Len())
	}
	if strings.Contains(toasts.View(), "event created") {
		t.Error("expired toast still rendered")
	}
}

func TestToastsAllowDuplicates(t *testing.T) {
	toasts := NewToasts(theme.Default().Toast)
	toasts.Update(events.ToastMsg{Severity: events.SeverityInfo, Message: "saved"})
	toasts.Update(events.ToastMsg{Severity: events.SeverityInfo, Message: "saved"})
	if toasts.Len() != 2 {
		t.Fatalf("len = %d, want 2", toasts.Len())
	}
}

func TestConfirmResolvesOnConfirm(t *testing.T) {
	confirm := NewConfirm(theme.Default().Modal)

	confirmed := false
	_, handled := confirm.Update(events.ConfirmRequestMsg{
		Title:     "Delete event",
		Message:   "This cannot be undone.",
		OnConfirm: func() tea.Msg { confirmed = true; return nil },
	})
	if !handled || !confirm.Active() {
		t.Fatal("request did not activate modal")
	}

	cmd, handled := confirm.Update(tea.KeyPressMsg{Text: "y", Code: 'y'})
	if !handled || cmd == nil {
		t.Fatal("y did not resolve")
	}
	cmd()
	if !confirmed {
		t.Error("OnConfirm not invoked")
	}
	if confirm.Active() {
		t.Error("modal still active after resolution")
	}
}

func TestConfirmDestructiveDefaultsToCancel(t *testing.T) {
	confirm := NewConfirm(theme.Default().Modal)

	cancelled := false
	confirm.Update(events.ConfirmRequestMsg{
		Title:       "Delete event",
		Destructive: true,
		OnCancel:    func() tea.Msg { cancelled = true; return nil },
	})

	// Enter without moving focus lands on the safe choice.
	cmd, _ := confirm.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter did not resolve")
	}
	cmd()
	if !cancelled {
		t.Error("destructive prompt confirmed by default")
	}
}

func TestConfirmSwallowsUnrelatedKeys(t *testing.T) {
	confirm := NewConfirm(theme.Default().Modal)
	confirm.Update(events.ConfirmRequestMsg{Title: "Sure?"})

	cmd, handled := confirm.Update(tea.KeyPressMsg{Text: "x", Code: 'x'})
	if !handled || cmd != nil {
		t.Errorf("handled=%v cmd=%v, want swallowed with no effect", handled, cmd)
	}
	if !confirm.Active() {
		t.Error("modal dismissed by unrelated key")
	}
}

func TestConfirmSecondRequestCancelsFirst(t *testing.T) {
	confirm := NewConfirm(theme.Default().Modal)

	firstCancelled := false
	confirm.Update(events.ConfirmRequestMsg{
		Title:    "First",
		OnCancel: func() tea.Msg { firstCancelled = true; return nil },
	})
	cmd, _ := confirm.Update(events.ConfirmRequestMsg{Title: "Second"})
	if cmd == nil {
		t.Fatal("replacing request returned no cancel command")
	}
	cmd()
	if !firstCancelled {
		t.Error("first request not cancelled")
	}
	if !strings.Contains(confirm.View(), "Second") {
		t.Error("second request not rendered")
	}
}

func TestConfirmTabTogglesFocus(t *testing.T) {
	confirm := NewConfirm(theme.Default().Modal)

	confirmed := false
	confirm.Update(events.ConfirmRequestMsg{
		Title:       "Delete event",
		Destructive: true,
		OnConfirm:   func() tea.Msg { confirmed = true; return nil },
	})
	confirm.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	cmd, _ := confirm.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter did not resolve")
	}
	cmd()
	if !confirmed {
		t.Error("tab did not move focus to confirm")
	}
}
