package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/skej/pkg/api"
	"tableflip.dev/skej/pkg/event"
	"tableflip.dev/skej/pkg/forms"
	"tableflip.dev/skej/pkg/session"
	"tableflip.dev/skej/pkg/state"
	"tableflip.dev/skej/pkg/store"
	"tableflip.dev/skej/pkg/tui/events"
	"tableflip.dev/skej/pkg/wire"
	"tableflip.dev/skej/pkg/wizard"
)

// fakeController drives the wizard surface without remote calls.
type fakeController struct {
	step     wizard.Step
	selected []event.Type
	resumed  []int64
	draft    bool
	resets   int
}

func (f *fakeController) Step() wizard.Step { return f.step }
func (f *fakeController) SelectType(t event.Type) {
	f.selected = append(f.selected, t)
	f.step = wizard.StepConfigure
}
func (f *fakeController) Reset() {
	f.resets++
	f.step = wizard.StepSelectType
}
func (f *fakeController) RestoreDraft() bool {
	if f.draft {
		f.step = wizard.StepConfigure
		return true
	}
	return false
}
func (f *fakeController) Resume(ctx context.Context, id int64) error {
	f.resumed = append(f.resumed, id)
	return nil
}
func (f *fakeController) Submit(ctx context.Context, in forms.Input) (*event.View, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeController) Regenerate(ctx context.Context) error { return nil }

// fakeAPI serves canned list and delete responses.
type fakeAPI struct {
	api.Service

	events    []wire.Event
	deleted   []int64
	deleteErr error
}

func (f *fakeAPI) Events(ctx context.Context) ([]wire.Event, error) { return f.events, nil }
func (f *fakeAPI) DeleteEvent(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

// memoryPersistence keeps credentials in process.
type memoryPersistence struct {
	creds *store.Credentials
}

func (m *memoryPersistence) Credentials() (*store.Credentials, error) {
	if m.creds == nil {
		return nil, store.ErrNotFound
	}
	c := *m.creds
	return &c, nil
}
func (m *memoryPersistence) StoreCredentials(c *store.Credentials) error {
	if c == nil || c.Email == "" || c.Token == "" {
		return errors.New("incomplete")
	}
	cp := *c
	m.creds = &cp
	return nil
}
func (m *memoryPersistence) ClearCredentials() error            { m.creds = nil; return nil }
func (m *memoryPersistence) CachedEvent() (*event.View, error)  { return nil, store.ErrNotFound }
func (m *memoryPersistence) StoreCachedEvent(*event.View) error { return nil }
func (m *memoryPersistence) ClearCachedEvent() error            { return nil }
func (m *memoryPersistence) Watch(ctx context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event)
	return ch, nil
}

func newTestModel(svc api.Service, p *memoryPersistence) (*Model, *fakeController) {
	ctrl := &fakeController{}
	sess := session.New(p)
	st := state.New("test")
	m := New(svc, sess, st, ctrl)
	m.termWidth = 80
	m.termHeight = 24
	return m, ctrl
}

func drain(m *Model, cmd tea.Cmd) {
	// Execute a bounded number of command layers so async messages land.
	for depth := 0; cmd != nil && depth < 8; depth++ {
		msg := cmd()
		if msg == nil {
			return
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				drain(m, c)
			}
			return
		}
		_, cmd = m.Update(msg)
	}
}

func TestRestoredUnauthenticatedShowsLogin(t *testing.T) {
	m, _ := newTestModel(&fakeAPI{}, &memoryPersistence{})

	snap := m.session.CheckAuth()
	var cmds []tea.Cmd
	m.routeSession(snap, &cmds)

	if m.mode != modeLogin {
		t.Fatalf("mode = %v, want login", m.mode)
	}
	if !strings.Contains(m.View(), "Email") {
		t.Error("login form not rendered")
	}
}

func TestRestoredAuthenticatedShowsEvents(t *testing.T) {
	p := &memoryPersistence{creds: &store.Credentials{Email: "a@b.c", Token: "tok"}}
	m, _ := newTestModel(&fakeAPI{events: []wire.Event{{ID: 1, Name: "Cup", Type: "tournament"}}}, p)

	snap := m.session.CheckAuth()
	var cmds []tea.Cmd
	m.routeSession(snap, &cmds)

	if m.mode != modeEvents {
		t.Fatalf("mode = %v, want events", m.mode)
	}
	for _, cmd := range cmds {
		drain(m, cmd)
	}
	if !strings.Contains(m.View(), "Cup") {
		t.Errorf("event list missing loaded event:\n%s", m.View())
	}
}

func TestSessionExpiredRoutesToLogin(t *testing.T) {
	p := &memoryPersistence{creds: &store.Credentials{Email: "a@b.c", Token: "tok"}}
	m, _ := newTestModel(&fakeAPI{}, p)
	m.mode = modeEvents

	_, _ = m.Update(events.SessionExpiredMsg{Component: "test"})

	if m.mode != modeLogin {
		t.Fatalf("mode = %v, want login", m.mode)
	}
	if !strings.Contains(m.View(), "Session expired") {
		t.Error("expiry notice not shown")
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	svc := &fakeAPI{events: []wire.Event{{ID: 9, Name: "Doomed"}}}
	m, _ := newTestModel(svc, &memoryPersistence{})
	m.mode = modeEvents
	drain(m, m.loadEvents())

	_, cmd := m.Update(tea.KeyPressMsg{Text: "d", Code: 'd'})
	drain(m, cmd)

	if !m.confirm.Active() {
		t.Fatal("delete did not open confirmation")
	}
	if len(svc.deleted) != 0 {
		t.Fatal("delete ran before confirmation")
	}

	// Move focus to the confirm button, then accept.
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	drain(m, cmd)
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	drain(m, cmd)

	if len(svc.deleted) != 1 || svc.deleted[0] != 9 {
		t.Errorf("deleted = %v, want [9]", svc.deleted)
	}
}

func TestDeleteFailureKeepsListAndNotifies(t *testing.T) {
	svc := &fakeAPI{
		events:    []wire.Event{{ID: 9, Name: "Doomed"}},
		deleteErr: errors.New("event 9 not found"),
	}
	m, _ := newTestModel(svc, &memoryPersistence{})
	m.mode = modeEvents
	drain(m, m.loadEvents())

	_, cmd := m.Update(tea.KeyPressMsg{Text: "d", Code: 'd'})
	drain(m, cmd)
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	drain(m, cmd)
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	// Run the confirmed delete by hand so the completion can be inspected.
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		msg = batch[0]()
	}
	done, ok := msg.(deleteDoneMsg)
	if !ok || done.err == nil {
		t.Fatalf("expected failed delete completion, got %#v", msg)
	}

	_, cmd = m.Update(done)
	msg = cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		msg = batch[0]()
	}
	toast, ok := msg.(events.ToastMsg)
	if !ok || toast.Severity != events.SeverityError {
		t.Fatalf("expected error toast, got %#v", msg)
	}
	if !strings.Contains(toast.Message, "not found") {
		t.Errorf("toast = %q, want the remote error surfaced", toast.Message)
	}
	if got := len(m.evList.Items()); got != 1 {
		t.Errorf("list has %d items after failed delete, want 1", got)
	}
}

func TestWizardTypeSelectionAdvances(t *testing.T) {
	m, ctrl := newTestModel(&fakeAPI{}, &memoryPersistence{})
	m.mode = modeWizard
	ctrl.step = wizard.StepSelectType

	// Move down once and commit.
	_, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	want := event.AllTypes()[1]
	if len(ctrl.selected) != 1 || ctrl.selected[0] != want {
		t.Fatalf("selected = %v, want [%v]", ctrl.selected, want)
	}
	if ctrl.step != wizard.StepConfigure {
		t.Errorf("step = %v, want configure", ctrl.step)
	}
}

func TestReviewRendersExactlyOneState(t *testing.T) {
	m, ctrl := newTestModel(&fakeAPI{}, &memoryPersistence{})
	m.mode = modeWizard
	ctrl.step = wizard.StepReview
	m.store.SetCurrentEvent(&event.View{ID: 1, Name: "Ops Summit", Type: event.TypeConference})

	// Fatal conflict suppresses the timeline even when items exist.
	m.store.SetGenerateResult(&wire.GenerateResult{
		Schedule:  []wire.ScheduleItem{{Time: "2026-04-01T09:00:00", SessionTitle: "Keynote"}},
		Conflicts: []wire.Conflict{{Type: wire.SeverityFailSafe, Message: "no feasible assignment"}},
	})
	view := m.View()
	if !strings.Contains(view, "Scheduling failed") {
		t.Errorf("failure state not rendered:\n%s", view)
	}
	if strings.Contains(view, "Keynote") {
		t.Error("timeline rendered alongside fatal conflict")
	}

	// The explicit fatal flag wins regardless of the type tag.
	m.store.SetGenerateResult(&wire.GenerateResult{
		Schedule:  []wire.ScheduleItem{{Time: "2026-04-01T09:00:00", SessionTitle: "Keynote"}},
		Conflicts: []wire.Conflict{{Type: "soft", Message: "no rooms left", IsFatal: true}},
	})
	view = m.View()
	if !strings.Contains(view, "Scheduling failed") || strings.Contains(view, "Keynote") {
		t.Errorf("is_fatal conflict did not win:\n%s", view)
	}

	// Non-fatal conflicts render with the timeline.
	m.store.SetGenerateResult(&wire.GenerateResult{
		Schedule:  []wire.ScheduleItem{{Time: "2026-04-01T09:00:00", SessionTitle: "Keynote"}},
		Conflicts: []wire.Conflict{{Type: "hard", Message: "room double-booked"}},
	})
	view = m.View()
	if !strings.Contains(view, "Keynote") || !strings.Contains(view, "room double-booked") {
		t.Errorf("timeline with conflict summary not rendered:\n%s", view)
	}
	if strings.Index(view, "room double-booked") > strings.Index(view, "Keynote") {
		t.Error("conflict summary must render above the timeline")
	}

	// Empty schedule.
	m.store.SetGenerateResult(&wire.GenerateResult{})
	if view = m.View(); !strings.Contains(view, "No schedule generated yet") {
		t.Errorf("empty state not rendered:\n%s", view)
	}

	// Loading wins over everything.
	m.store.SetLoading(true)
	if view = m.View(); !strings.Contains(view, "Generating schedule") {
		t.Errorf("loading state not rendered:\n%s", view)
	}
}

func TestResumeFromEventList(t *testing.T) {
	svc := &fakeAPI{events: []wire.Event{{ID: 5, Name: "Summit"}}}
	m, ctrl := newTestModel(svc, &memoryPersistence{})
	m.mode = modeEvents
	drain(m, m.loadEvents())

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	drain(m, cmd)

	if len(ctrl.resumed) != 1 || ctrl.resumed[0] != 5 {
		t.Fatalf("resumed = %v, want [5]", ctrl.resumed)
	}
	if m.mode != modeWizard {
		t.Errorf("mode = %v, want wizard", m.mode)
	}
}

func TestNewEventResumesSavedDraft(t *testing.T) {
	m, ctrl := newTestModel(&fakeAPI{}, &memoryPersistence{})
	m.mode = modeEvents
	ctrl.draft = true
	m.store.SetCurrentEvent(&event.View{Name: "Autumn Cup", Type: event.TypeTournament})

	_, _ = m.Update(tea.KeyPressMsg{Text: "n", Code: 'n'})

	if m.mode != modeWizard {
		t.Fatalf("mode = %v, want wizard", m.mode)
	}
	if ctrl.resets != 0 {
		t.Error("restored draft must not be reset")
	}
	if ctrl.step != wizard.StepConfigure {
		t.Errorf("step = %v, want configure", ctrl.step)
	}
}

func TestResumeUnauthorizedExpiresSession(t *testing.T) {
	p := &memoryPersistence{creds: &store.Credentials{Email: "grace@example.com", Token: "tok"}}
	m, _ := newTestModel(&fakeAPI{}, p)
	m.session.CheckAuth()
	m.mode = modeEvents

	_, cmd := m.Update(resumeDoneMsg{err: fmt.Errorf("GET /events/5: %w", api.ErrUnauthorized)})
	drain(m, cmd)

	if m.mode != modeLogin {
		t.Fatalf("mode = %v, want login", m.mode)
	}
	if p.creds != nil {
		t.Error("stored credentials not cleared")
	}
	if m.session.Snapshot().Authenticated {
		t.Error("session still authenticated")
	}
}
