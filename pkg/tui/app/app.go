// Package app hosts the Bubble Tea program for the skej TUI.
package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/skej/pkg/api"
	"tableflip.dev/skej/pkg/event"
	"tableflip.dev/skej/pkg/forms"
	"tableflip.dev/skej/pkg/notify"
	"tableflip.dev/skej/pkg/session"
	"tableflip.dev/skej/pkg/state"
	"tableflip.dev/skej/pkg/tui/events"
	"tableflip.dev/skej/pkg/tui/theme"
	"tableflip.dev/skej/pkg/wire"
	"tableflip.dev/skej/pkg/wizard"
)

const componentID events.ComponentID = "app"

// Controller is the wizard surface the app drives.
type Controller interface {
	Step() wizard.Step
	SelectType(t event.Type)
	Reset()
	RestoreDraft() bool
	Resume(ctx context.Context, id int64) error
	Submit(ctx context.Context, in forms.Input) (*event.View, error)
	Regenerate(ctx context.Context) error
}

type mode int

const (
	modeRestoring mode = iota
	modeLogin
	modeEvents
	modeWizard
)

// eventItem adapts a remote event for the list component.
type eventItem struct{ e wire.Event }

func (it eventItem) Title() string { return it.e.Name }
func (it eventItem) Description() string {
	return fmt.Sprintf("%s  %s", it.e.Kind(), it.e.StartDate)
}
func (it eventItem) FilterValue() string { return it.e.Name }

// Model contains UI state.
type Model struct {
	svc     api.Service
	session *session.Store
	store   *state.Store
	ctrl    Controller
	ctx     context.Context
	cancel  context.CancelFunc

	mode       mode
	termWidth  int
	termHeight int
	status     string

	evList list.Model

	loginEmail    textinput.Model
	loginPassword textinput.Model
	loginFocus    int
	signupMode    bool

	wiz wizardState

	toasts  *notify.Toasts
	confirm *notify.Confirm
	theme   theme.Theme
}

// New creates the root model.
func New(svc api.Service, sess *session.Store, store *state.Store, ctrl Controller) *Model {
	d := list.NewDefaultDelegate()
	d.SetSpacing(0)
	l := list.New([]list.Item{}, d, 60, 20)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	th := theme.Default()
	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		svc:           svc,
		session:       sess,
		store:         store,
		ctrl:          ctrl,
		ctx:           ctx,
		cancel:        cancel,
		mode:          modeRestoring,
		evList:        l,
		loginEmail:    email,
		loginPassword: password,
		toasts:        notify.NewToasts(th.Toast),
		confirm:       notify.NewConfirm(th.Modal),
		theme:         th,
	}
	m.wiz = newWizardState()
	return m
}

// Init restores the session and starts the event pumps.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.restoreSession(),
		m.waitForSession(),
		m.waitForStore(),
		m.watchCredentials(),
	)
}

// internal messages
type errMsg struct{ err error }
type eventsLoadedMsg struct{ events []wire.Event }
type authDoneMsg struct{ email string }
type resumeDoneMsg struct{ err error }
type submitDoneMsg struct {
	name string
	err  error
}
type deleteDoneMsg struct {
	id  int64
	err error
}
type sessionRestoredMsg struct{ snap session.Snapshot }
type sessionChangedMsg struct{ change session.Change }
type storeMsg struct{ inner tea.Msg }
type watchStoppedMsg struct{}

func (m *Model) restoreSession() tea.Cmd {
	return func() tea.Msg {
		snap := m.session.CheckAuth()
		return sessionRestoredMsg{snap: snap}
	}
}

func (m *Model) waitForSession() tea.Cmd {
	ch := m.session.Events()
	return func() tea.Msg {
		select {
		case change, ok := <-ch:
			if !ok {
				return watchStoppedMsg{}
			}
			return sessionChangedMsg{change: change}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) waitForStore() tea.Cmd {
	ch := m.store.Events()
	return func() tea.Msg {
		select {
		case msg, ok := <-ch:
			if !ok {
				return watchStoppedMsg{}
			}
			return storeMsg{inner: msg}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) watchCredentials() tea.Cmd {
	return func() tea.Msg {
		_ = m.session.Watch(m.ctx)
		return nil
	}
}

func (m *Model) loadEvents() tea.Cmd {
	return func() tea.Msg {
		evs, err := m.svc.Events(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		sort.SliceStable(evs, func(i, j int) bool { return evs[i].ID > evs[j].ID })
		return eventsLoadedMsg{events: evs}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The confirmation modal has first claim on input while open.
	if cmd, handled := m.confirm.Update(msg); handled {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}
	if cmd := m.toasts.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()

	case errMsg:
		if m.mode == modeLogin {
			text := msg.err.Error()
			if api.IsUnauthorized(msg.err) {
				text = "Invalid email or password"
			}
			cmds = append(cmds, events.ToastCmd(componentID, events.SeverityError, text))
		} else {
			cmds = append(cmds, m.toastForOpErr(msg.err))
		}

	case sessionRestoredMsg:
		m.routeSession(msg.snap, &cmds)

	case sessionChangedMsg:
		m.routeSession(msg.change.Snapshot, &cmds)
		cmds = append(cmds, m.waitForSession())

	case storeMsg:
		cmds = append(cmds, m.waitForStore())
		if msg.inner != nil {
			_, cmd := m.Update(msg.inner)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case events.SessionExpiredMsg:
		m.mode = modeLogin
		m.status = "Session expired, log in again"
		cmds = append(cmds, m.focusLogin())

	case events.EventChangeMsg, events.ScheduleChangeMsg, events.LoadingMsg:
		// Store snapshots are re-read at render time.

	case eventsLoadedMsg:
		items := make([]list.Item, 0, len(msg.events))
		for _, e := range msg.events {
			items = append(items, eventItem{e: e})
		}
		m.evList.SetItems(items)

	case authDoneMsg:
		m.mode = modeEvents
		m.loginPassword.Reset()
		cmds = append(cmds,
			events.ToastCmd(componentID, events.SeveritySuccess, "Logged in as "+msg.email),
			m.loadEvents())

	case resumeDoneMsg:
		if msg.err != nil {
			m.mode = modeEvents
			if api.IsUnauthorized(msg.err) {
				cmds = append(cmds, m.toastForOpErr(msg.err))
			} else {
				cmds = append(cmds, events.ToastCmd(componentID, events.SeverityError, "Could not open event"))
			}
			break
		}
		m.mode = modeWizard
		m.syncWizard(&cmds)

	case submitDoneMsg:
		if msg.err != nil {
			cmds = append(cmds, m.toastForOpErr(msg.err))
			break
		}
		m.syncWizard(&cmds)
		cmds = append(cmds, events.ToastCmd(componentID, events.SeveritySuccess, msg.name+" scheduled"))

	case deleteDoneMsg:
		if msg.err != nil {
			cmds = append(cmds, m.toastForOpErr(msg.err))
			break
		}
		cmds = append(cmds,
			events.ToastCmd(componentID, events.SeveritySuccess, fmt.Sprintf("Deleted event %d", msg.id)),
			m.loadEvents())

	case tea.KeyPressMsg:
		if m.handleKey(msg, &cmds) {
			return m, tea.Batch(cmds...)
		}
	}

	// Route remaining input to the focused component.
	switch m.mode {
	case modeLogin:
		var cmd tea.Cmd
		if m.loginFocus == 0 {
			m.loginEmail, cmd = m.loginEmail.Update(msg)
		} else {
			m.loginPassword, cmd = m.loginPassword.Update(msg)
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	case modeEvents:
		var cmd tea.Cmd
		m.evList, cmd = m.evList.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	case modeWizard:
		if cmd := m.wiz.update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) toastForOpErr(err error) tea.Cmd {
	if api.IsUnauthorized(err) {
		m.session.Invalidate()
		return events.SessionExpiredCmd(componentID)
	}
	return events.ToastCmd(componentID, events.SeverityError, err.Error())
}

func (m *Model) routeSession(snap session.Snapshot, cmds *[]tea.Cmd) {
	if !snap.Restored {
		return
	}
	if !snap.Authenticated {
		if m.mode != modeLogin {
			m.mode = modeLogin
			*cmds = append(*cmds, m.focusLogin())
		}
		return
	}
	if m.mode == modeRestoring || m.mode == modeLogin {
		m.mode = modeEvents
		*cmds = append(*cmds, m.loadEvents())
	}
}

func (m *Model) focusLogin() tea.Cmd {
	m.loginFocus = 0
	m.loginPassword.Blur()
	cmd := m.loginEmail.Focus()
	return tea.Batch(cmd, textinput.Blink)
}

func (m *Model) handleKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch m.mode {
	case modeLogin:
		return m.handleLoginKey(msg, cmds)
	case modeEvents:
		return m.handleEventsKey(msg, cmds)
	case modeWizard:
		return m.handleWizardKey(msg, cmds)
	}
	return false
}

func (m *Model) handleLoginKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "tab", "shift+tab", "down", "up":
		if m.loginFocus == 0 {
			m.loginFocus = 1
			m.loginEmail.Blur()
			*cmds = append(*cmds, m.loginPassword.Focus(), textinput.Blink)
		} else {
			m.loginFocus = 0
			m.loginPassword.Blur()
			*cmds = append(*cmds, m.loginEmail.Focus(), textinput.Blink)
		}
		return true
	case "ctrl+s":
		m.signupMode = !m.signupMode
		return true
	case "enter":
		email := m.loginEmail.Value()
		password := m.loginPassword.Value()
		if email == "" || password == "" {
			m.status = "Email and password are required"
			return true
		}
		signup := m.signupMode
		*cmds = append(*cmds, func() tea.Msg {
			var (
				resp *wire.AuthResponse
				err  error
			)
			creds := wire.Credentials{Email: email, Password: password}
			if signup {
				resp, err = m.svc.Signup(m.ctx, creds)
			} else {
				resp, err = m.svc.Login(m.ctx, creds)
			}
			if err != nil {
				return errMsg{err}
			}
			m.session.Login(email, resp.AccessToken)
			return authDoneMsg{email: email}
		})
		return true
	case "ctrl+c":
		m.quit(cmds)
		return true
	}
	return false
}

func (m *Model) handleEventsKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quit(cmds)
		return true
	case "r":
		*cmds = append(*cmds, m.loadEvents())
		return true
	case "n":
		// An interrupted draft takes priority over a fresh flow.
		if !m.ctrl.RestoreDraft() {
			m.ctrl.Reset()
		}
		m.mode = modeWizard
		m.syncWizard(cmds)
		return true
	case "enter":
		if it, ok := m.evList.SelectedItem().(eventItem); ok {
			id := it.e.ID
			m.mode = modeRestoring
			*cmds = append(*cmds, func() tea.Msg {
				if err := m.ctrl.Resume(m.ctx, id); err != nil {
					return resumeDoneMsg{err: err}
				}
				return resumeDoneMsg{}
			})
		}
		return true
	case "d":
		if it, ok := m.evList.SelectedItem().(eventItem); ok {
			id := it.e.ID
			name := it.e.Name
			*cmds = append(*cmds, events.ConfirmRequestCmd(events.ConfirmRequestMsg{
				Component:   componentID,
				Title:       "Delete event",
				Message:     fmt.Sprintf("Delete %q and its schedule? This cannot be undone.", name),
				ConfirmText: "Delete",
				Destructive: true,
				OnConfirm: func() tea.Msg {
					if err := m.svc.DeleteEvent(m.ctx, id); err != nil {
						return deleteDoneMsg{id: id, err: err}
					}
					return deleteDoneMsg{id: id}
				},
			}))
		}
		return true
	case "o":
		m.session.Logout()
		return true
	}
	return false
}

func (m *Model) quit(cmds *[]tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	*cmds = append(*cmds, tea.Quit)
}

func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	m.evList.SetSize(m.termWidth-4, m.termHeight-6)
	m.toasts.SetWidth(m.termWidth - 4)
	m.confirm.SetWidth(min(m.termWidth-8, 56))
	m.wiz.setSize(m.termWidth, m.termHeight)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Run launches the interactive TUI program.
func Run(svc api.Service, sess *session.Store, store *state.Store, ctrl Controller) error {
	p := tea.NewProgram(New(svc, sess, store, ctrl), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
