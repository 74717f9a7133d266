// Package http serves the deposits page and its form actions.
//
// This file binds posted event forms into ui.EventForm values.
package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"deposits/internal/ui"
)

// FormAction is the value of the submit button that posted an event form.
type FormAction string

const (
	ActionSave          FormAction = "save"
	ActionAddRow        FormAction = "add-row"
	ActionRemoveRow     FormAction = "remove-row"
	ActionDelete        FormAction = "delete"
	ActionDeleteConfirm FormAction = "delete-confirm"
	ActionDeleteCancel  FormAction = "delete-cancel"
)

// Form field names.
const (
	fieldAction        = "action"
	fieldRow           = "row"
	fieldID            = "id"
	fieldName          = "name"
	fieldDate          = "date"
	fieldEntryName     = "entry_name"
	fieldEntryAmount   = "entry_amount"
	fieldEntryComments = "entry_comments"
)

// ErrUnknownAction is returned for an action value no handler understands.
var ErrUnknownAction = errors.New("unknown form action")

// EventFormInput is a decoded event form submission.
type EventFormInput struct {
	Action FormAction
	// Row is the index targeted by remove-row, -1 when absent or invalid.
	Row  int
	ID   string
	Name string
	Date string
	Rows []ui.EntryRow
}

// ParseEventForm decodes an event form from r. An empty action means save,
// which is what pressing Enter in a field submits.
func ParseEventForm(r *http.Request) (EventFormInput, error) {
	if err := r.ParseForm(); err != nil {
		return EventFormInput{}, err
	}
	return parseEventValues(r.PostForm)
}

func parseEventValues(form url.Values) (EventFormInput, error) {
	in := EventFormInput{
		Row:  -1,
		ID:   strings.TrimSpace(form.Get(fieldID)),
		Name: form.Get(fieldName),
		Date: form.Get(fieldDate),
		Rows: parseRows(form),
	}

	action, row, err := parseAction(form.Get(fieldAction), form.Get(fieldRow))
	if err != nil {
		return EventFormInput{}, err
	}
	in.Action, in.Row = action, row
	return in, nil
}

// parseAction accepts "remove-row" with a separate row field and the
// combined "remove-row:<i>" value carried by the per-row buttons.
func parseAction(raw, rowField string) (FormAction, int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ActionSave, -1, nil
	}

	name, idx, combined := strings.Cut(raw, ":")
	if !combined {
		idx = rowField
	}

	action := FormAction(name)
	switch action {
	case ActionRemoveRow:
		return action, parseRowIndex(idx), nil
	case ActionSave, ActionAddRow, ActionDelete, ActionDeleteConfirm, ActionDeleteCancel:
		if combined {
			return "", -1, ErrUnknownAction
		}
		return action, -1, nil
	default:
		return "", -1, ErrUnknownAction
	}
}

func parseRowIndex(s string) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || i < 0 {
		return -1
	}
	return i
}

// parseRows zips the repeated entry fields into rows. Lists of unequal
// length are padded with empty strings.
func parseRows(form url.Values) []ui.EntryRow {
	names := form[fieldEntryName]
	amounts := form[fieldEntryAmount]
	comments := form[fieldEntryComments]

	n := max(len(names), len(amounts), len(comments))
	rows := make([]ui.EntryRow, n)
	for i := range rows {
		rows[i] = ui.EntryRow{
			Name:     at(names, i),
			Amount:   at(amounts, i),
			Comments: at(comments, i),
		}
	}
	return rows
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// Bind copies the submitted fields into f. The id is left to the caller,
// which takes it from the URL.
func (in EventFormInput) Bind(f *ui.EventForm) {
	f.Name = in.Name
	f.Date = in.Date
	f.Table = ui.NewEntryTable(in.Rows...)
}

// ApplyTableAction replays add-row and remove-row on f. It reports whether
// the action was a table edit.
func (in EventFormInput) ApplyTableAction(f *ui.EventForm) bool {
	switch in.Action {
	case ActionAddRow:
		f.Table.AddRow()
		return true
	case ActionRemoveRow:
		f.Table.RemoveRow(in.Row)
		return true
	default:
		return false
	}
}
