package ui

import (
	"context"
	"fmt"
	"log/slog"

	"deposits/internal/core"
)

// DeletePrompt is the question asked before an event is deleted.
const DeletePrompt = "Delete this event and all its deposits?"

// EventStore is the subset of the event store the controller mutates.
type EventStore interface {
	Events() []core.Event
	FindByID(id string) (core.Event, bool)
	Add(ctx context.Context, e core.Event) error
	ReplaceByID(ctx context.Context, id string, e core.Event) (bool, error)
	RemoveByID(ctx context.Context, id string) (bool, error)
}

// IDSource generates fresh event ids.
type IDSource interface {
	NewID() string
}

// Confirmer answers a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Answer is a Confirmer with a fixed answer, used when the reply has
// already been collected (e.g. posted from the prompt).
type Answer bool

func (a Answer) Confirm(string) bool { return bool(a) }

// Controller drives one interaction with the page: it owns the screen state
// and both forms, and mutates the shared event store.
type Controller struct {
	store      EventStore
	ids        IDSource
	renderList func([]core.Event) ListView

	Screens    *Screens
	CreateForm *EventForm
	ViewForm   *EventForm
	List       ListView
}

// Option configures a Controller.
type Option func(*Controller)

// WithListRenderer replaces RenderList, e.g. with a cached variant.
func WithListRenderer(fn func([]core.Event) ListView) Option {
	return func(c *Controller) {
		if fn != nil {
			c.renderList = fn
		}
	}
}

func NewController(store EventStore, ids IDSource, opts ...Option) *Controller {
	c := &Controller{
		store:      store,
		ids:        ids,
		renderList: RenderList,
		Screens:    NewScreens(),
		CreateForm: NewEventForm(),
		ViewForm:   NewEventForm(),
	}
	c.CreateForm.Reset()
	for _, opt := range opts {
		opt(c)
	}
	c.RefreshList()
	return c
}

// RefreshList re-renders the list from the store.
func (c *Controller) RefreshList() {
	c.List = c.renderList(c.store.Events())
}

// ShowHome navigates to the home screen.
func (c *Controller) ShowHome() {
	c.Screens.Show(ScreenHome)
}

// ShowList re-renders the list and navigates to it.
func (c *Controller) ShowList() {
	c.RefreshList()
	c.Screens.Show(ScreenExisting)
}

// BeginCreate resets the create form to a single blank row and shows it.
func (c *Controller) BeginCreate() {
	c.CreateForm.Reset()
	c.Screens.Show(ScreenCreate)
}

// SubmitCreate stores a new event built from the create form, then shows
// the list.
func (c *Controller) SubmitCreate(ctx context.Context) (core.Event, error) {
	ev := c.CreateForm.Event(c.ids.NewID())
	if err := c.store.Add(ctx, ev); err != nil {
		return core.Event{}, fmt.Errorf("create event: %w", err)
	}
	c.ShowList()
	return ev, nil
}

// Open loads the event into the view form and shows it. When the id is
// unknown nothing changes and false is returned.
func (c *Controller) Open(id string) bool {
	ev, ok := c.store.FindByID(id)
	if !ok {
		slog.Debug("Open skipped", "event_id", id, "error", core.ErrEventNotFound)
		return false
	}
	c.ViewForm.Populate(ev)
	c.Screens.Show(ScreenView)
	return true
}

// SubmitEdit replaces the stored event with the view form's content. An id
// that vanished in the meantime drops the edit silently. The list is shown
// either way; the returned bool reports whether the update happened.
func (c *Controller) SubmitEdit(ctx context.Context) (bool, error) {
	id := c.ViewForm.ID
	updated, err := c.store.ReplaceByID(ctx, id, c.ViewForm.Event(id))
	if err != nil {
		return false, fmt.Errorf("update event %s: %w", id, err)
	}
	c.ShowList()
	return updated, nil
}

// Delete removes the open event after confirmation. It does nothing when no
// event is open or the confirmer declines; the returned bool reports whether
// the delete went ahead.
func (c *Controller) Delete(ctx context.Context, confirm Confirmer) (bool, error) {
	id := c.ViewForm.ID
	if id == "" {
		return false, nil
	}
	if confirm == nil || !confirm.Confirm(DeletePrompt) {
		c.ViewForm.ConfirmingDelete = false
		return false, nil
	}
	if _, err := c.store.RemoveByID(ctx, id); err != nil {
		return false, fmt.Errorf("delete event %s: %w", id, err)
	}
	c.ViewForm.ConfirmingDelete = false
	c.ShowList()
	return true, nil
}

// RequestDelete shows the confirmation prompt on the view screen.
func (c *Controller) RequestDelete() {
	if c.ViewForm.ID == "" {
		return
	}
	c.ViewForm.ConfirmingDelete = true
	c.Screens.Show(ScreenView)
}
