// Package wizard drives the three step event flow: pick a type, configure it,
// review the generated schedule. The controller owns step transitions and the
// remote reads and writes behind them; the view model store is the only place
// it publishes results.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tableflip.dev/skej/pkg/api"
	"tableflip.dev/skej/pkg/event"
	"tableflip.dev/skej/pkg/event/viewmodel"
	"tableflip.dev/skej/pkg/forms"
	"tableflip.dev/skej/pkg/state"
	"tableflip.dev/skej/pkg/wire"
)

// Step identifies where the user is in the flow.
type Step int

const (
	StepSelectType Step = iota
	StepConfigure
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepSelectType:
		return "select-type"
	case StepConfigure:
		return "configure"
	case StepReview:
		return "review"
	}
	return "unknown"
}

// DraftStore persists an in-progress draft across process restarts.
type DraftStore interface {
	CachedEvent() (*event.View, error)
	StoreCachedEvent(v *event.View) error
	ClearCachedEvent() error
}

// Controller sequences the wizard. Safe for concurrent use; stale loads are
// discarded by generation so a slow Resume can never clobber a newer one.
type Controller struct {
	svc    api.Service
	store  *state.Store
	drafts DraftStore

	mu         sync.Mutex
	step       Step
	generation uint64
}

func New(svc api.Service, store *state.Store) *Controller {
	return &Controller{svc: svc, store: store}
}

// UseDrafts enables local draft persistence for the configure step.
func (c *Controller) UseDrafts(d DraftStore) {
	c.drafts = d
}

// Step reports the current wizard step.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// SelectType commits a type choice and advances to configuration with a
// blank draft of that type in the store.
func (c *Controller) SelectType(t event.Type) {
	c.mu.Lock()
	c.generation++
	c.step = StepConfigure
	c.mu.Unlock()
	c.store.SetCurrentEvent(event.Blank(t))
}

// Reset abandons the flow, clears the store atomically and returns to type
// selection. Any in-flight Resume becomes stale.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.generation++
	c.step = StepSelectType
	c.mu.Unlock()
	c.store.ClearEvent()
	c.clearDraft()
}

// RestoreDraft reloads a locally saved draft, landing on the configure step
// with the saved form. Reports whether a draft was found.
func (c *Controller) RestoreDraft() bool {
	if c.drafts == nil {
		return false
	}
	saved, err := c.drafts.CachedEvent()
	if err != nil || saved == nil {
		return false
	}
	c.mu.Lock()
	c.generation++
	c.step = StepConfigure
	c.mu.Unlock()
	c.store.SetCurrentEvent(saved.Clone())
	return true
}

// Resume loads a persisted event and drops the user into the right step:
// review when a schedule was already generated, configuration otherwise.
// On any fetch failure the store is cleared and the flow restarts; the
// returned error carries the single message to surface.
func (c *Controller) Resume(ctx context.Context, id int64) error {
	gen := c.begin()
	c.store.SetLoading(true)
	defer c.store.SetLoading(false)

	loaded, err := c.fetch(ctx, id)
	if err != nil {
		if c.current(gen) {
			c.abort()
		}
		return fmt.Errorf("wizard: resume event %d: %w", id, err)
	}

	view := viewmodel.ToView(*loaded.event, loaded.entities, loaded.sessions)

	if len(loaded.schedule) == 0 {
		if !c.current(gen) {
			return nil
		}
		c.store.SetCurrentEvent(view)
		c.store.SetSchedule(nil)
		c.setStep(gen, StepConfigure)
		return nil
	}

	// A stored schedule means generation already ran; run it again so the
	// review step has fresh conflicts and suggestions, not just the items.
	result, err := c.svc.Generate(ctx, id)
	if err != nil {
		if c.current(gen) {
			c.abort()
		}
		return fmt.Errorf("wizard: regenerate event %d: %w", id, err)
	}
	if !c.current(gen) {
		return nil
	}
	c.store.SetCurrentEvent(view)
	c.store.SetGenerateResult(result)
	c.setStep(gen, StepReview)
	return nil
}

// Submit runs the write pipeline for a configured draft: create the event,
// attach its entity groups and sessions, then generate the schedule. If any
// step after creation fails the created event is deleted so the server is
// not left holding a half-built event.
func (c *Controller) Submit(ctx context.Context, in forms.Input) (*event.View, error) {
	draft, err := in.Normalize()
	if err != nil {
		return nil, err
	}
	// Save before the remote writes so a transport failure keeps the form.
	c.saveDraft(draft)

	gen := c.begin()
	c.store.SetLoading(true)
	defer c.store.SetLoading(false)

	created, err := c.svc.CreateEvent(ctx, viewmodel.ToPayload(draft))
	if err != nil {
		return nil, fmt.Errorf("wizard: create event: %w", err)
	}
	draft.ID = created.ID

	result, err := c.populate(ctx, draft)
	if err != nil {
		if delErr := c.svc.DeleteEvent(ctx, created.ID); delErr != nil {
			err = errors.Join(err, fmt.Errorf("rolling back event %d: %w", created.ID, delErr))
		}
		return nil, fmt.Errorf("wizard: %w", err)
	}

	c.clearDraft()
	if c.current(gen) {
		c.store.SetCurrentEvent(draft)
		c.store.SetGenerateResult(result)
		c.setStep(gen, StepReview)
	}
	return draft, nil
}

// Regenerate reruns scheduling for the event currently under review.
func (c *Controller) Regenerate(ctx context.Context) error {
	view := c.store.CurrentEvent()
	if view == nil || !view.Persisted() {
		return errors.New("wizard: no persisted event to schedule")
	}

	gen := c.begin()
	c.store.SetLoading(true)
	defer c.store.SetLoading(false)

	result, err := c.svc.Generate(ctx, view.ID)
	if err != nil {
		return fmt.Errorf("wizard: generate event %d: %w", view.ID, err)
	}
	if c.current(gen) {
		c.store.SetGenerateResult(result)
		c.setStep(gen, StepReview)
	}
	return nil
}

type remoteEvent struct {
	event    *wire.Event
	entities []wire.Entity
	sessions []wire.Session
	schedule []wire.ScheduleItem
}

// fetch loads the event and its collections concurrently. The first failure
// cancels the rest.
func (c *Controller) fetch(ctx context.Context, id int64) (*remoteEvent, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		loaded remoteEvent
		wg     sync.WaitGroup
		errs   [4]error
	)
	run := func(i int, f func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(); err != nil {
				errs[i] = err
				cancel()
			}
		}()
	}
	run(0, func() (err error) {
		loaded.event, err = c.svc.Event(ctx, id)
		return
	})
	run(1, func() (err error) {
		loaded.entities, err = c.svc.Entities(ctx, id)
		return
	})
	run(2, func() (err error) {
		loaded.sessions, err = c.svc.Sessions(ctx, id)
		return
	})
	run(3, func() (err error) {
		loaded.schedule, err = c.svc.Schedule(ctx, id)
		return
	})
	wg.Wait()

	for _, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			return nil, err
		}
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return &loaded, nil
}

// populate pushes the draft's entity groups and sessions, then generates.
func (c *Controller) populate(ctx context.Context, draft *event.View) (*wire.GenerateResult, error) {
	for _, body := range viewmodel.EntityPayloads(draft) {
		if err := c.svc.CreateEntities(ctx, draft.ID, body); err != nil {
			return nil, fmt.Errorf("create %s entities: %w", body.EntityType, err)
		}
	}
	if body := viewmodel.SessionPayload(draft); body != nil {
		if err := c.svc.CreateSessions(ctx, draft.ID, *body); err != nil {
			return nil, fmt.Errorf("create sessions: %w", err)
		}
	}
	result, err := c.svc.Generate(ctx, draft.ID)
	if err != nil {
		return nil, fmt.Errorf("generate schedule: %w", err)
	}
	return result, nil
}

// Draft persistence is best effort; its failures never block the flow.
func (c *Controller) saveDraft(v *event.View) {
	if c.drafts != nil && v != nil {
		_ = c.drafts.StoreCachedEvent(v)
	}
}

func (c *Controller) clearDraft() {
	if c.drafts != nil {
		_ = c.drafts.ClearCachedEvent()
	}
}

func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	return c.generation
}

func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.generation
}

func (c *Controller) setStep(gen uint64, step Step) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.generation {
		c.step = step
	}
}

func (c *Controller) abort() {
	c.mu.Lock()
	c.step = StepSelectType
	c.mu.Unlock()
	c.store.ClearEvent()
}
