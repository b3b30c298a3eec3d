// Package events defines the typed messages exchanged between components.
// Every cross-component notification is one of these structs so transitions
// stay auditable in logs and tests.
package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/skej/pkg/event"
	"tableflip.dev/skej/pkg/wire"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// Severity classifies toast notifications.
type Severity string

const (
	// SeveritySuccess marks a completed operation.
	SeveritySuccess Severity = "success"
	// SeverityError marks a failed operation.
	SeverityError Severity = "error"
	// SeverityInfo marks a neutral notice.
	SeverityInfo Severity = "info"
)

// ToastMsg requests a transient notification.
type ToastMsg struct {
	Component ComponentID
	Severity  Severity
	Message   string
}

// Describe renders the toast in a human-friendly format for logs.
func (m ToastMsg) Describe() string {
	return fmt.Sprintf(`severity:%q message:%q`, m.Severity, m.Message)
}

// ToastCmd wraps ToastMsg in a tea.Cmd.
func ToastCmd(component ComponentID, severity Severity, message string) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Component: component, Severity: severity, Message: message}
	}
}

// ConfirmRequestMsg asks the root model to open the blocking confirmation
// overlay. Only the initiating flow blocks; the event loop stays live.
type ConfirmRequestMsg struct {
	Component   ComponentID
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
	Destructive bool
	OnConfirm   tea.Cmd
	OnCancel    tea.Cmd
}

// Describe renders the request for logs.
func (m ConfirmRequestMsg) Describe() string {
	return fmt.Sprintf(`title:%q destructive:%v`, m.Title, m.Destructive)
}

// ConfirmRequestCmd wraps ConfirmRequestMsg in a tea.Cmd.
func ConfirmRequestCmd(msg ConfirmRequestMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// EventChangeMsg announces that the active event was replaced or cleared.
type EventChangeMsg struct {
	Component ComponentID
	Event     *event.View
}

// Describe renders the change for logs.
func (m EventChangeMsg) Describe() string {
	if m.Event == nil {
		return `event:"<none>"`
	}
	return fmt.Sprintf(`event:%q id:%d type:%q`, m.Event.Name, m.Event.ID, m.Event.Type)
}

// ScheduleChangeMsg announces that schedule-derived lists were replaced.
type ScheduleChangeMsg struct {
	Component    ComponentID
	Schedule     []wire.ScheduleItem
	Conflicts    []wire.Conflict
	Suggestions  []string
	Explanations []wire.Explanation
}

// Describe renders the change for logs.
func (m ScheduleChangeMsg) Describe() string {
	return fmt.Sprintf(`schedule:%d conflicts:%d suggestions:%d explanations:%d`,
		len(m.Schedule), len(m.Conflicts), len(m.Suggestions), len(m.Explanations))
}

// LoadingMsg carries the single global loading flag.
type LoadingMsg struct {
	Component ComponentID
	Loading   bool
}

// Describe renders the flag for logs.
func (m LoadingMsg) Describe() string {
	return fmt.Sprintf(`loading:%v`, m.Loading)
}

// SessionChangeMsg announces an authentication state transition.
type SessionChangeMsg struct {
	Component     ComponentID
	Authenticated bool
	Restored      bool
	Email         string
}

// Describe renders the session transition for logs.
func (m SessionChangeMsg) Describe() string {
	return fmt.Sprintf(`authenticated:%v restored:%v email:%q`, m.Authenticated, m.Restored, m.Email)
}

// SessionExpiredMsg signals that the transport rejected the bearer token and
// the session was invalidated. Views must route to login, not show a toast.
type SessionExpiredMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m SessionExpiredMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"expired"`, m.Component)
}

// SessionExpiredCmd wraps SessionExpiredMsg in a tea.Cmd.
func SessionExpiredCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg { return SessionExpiredMsg{Component: component} }
}
