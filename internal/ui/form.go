package ui

import (
	"strings"

	"deposits/internal/core"
)

// EventForm binds the fields of the create or view screen.
type EventForm struct {
	ID    string
	Name  string
	Date  string
	Table *EntryTable

	// ConfirmingDelete is set while the delete prompt is pending.
	ConfirmingDelete bool
}

func NewEventForm() *EventForm {
	return &EventForm{Table: NewEntryTable()}
}

// Reset clears the fields and leaves one blank row.
func (f *EventForm) Reset() {
	f.ID, f.Name, f.Date = "", "", ""
	f.ConfirmingDelete = false
	f.Table.Reset()
}

// Populate fills the form from a stored event.
func (f *EventForm) Populate(e core.Event) {
	f.ID = e.ID
	f.Name = e.Name
	f.Date = e.Date
	f.ConfirmingDelete = false
	f.Table.Load(e.Entries)
}

// Event reads the form into an event with the given id. The name is trimmed,
// the date kept verbatim.
func (f *EventForm) Event(id string) core.Event {
	return core.Event{
		ID:      id,
		Name:    strings.TrimSpace(f.Name),
		Date:    f.Date,
		Entries: f.Table.Entries(),
	}
}

// Total is the sum of the amounts currently in the table.
func (f *EventForm) Total() string {
	return FormatAmount(core.Total(f.Table.Entries()))
}
