package ui

import (
	"strings"

	"deposits/internal/core"
)

// EntryRow holds the raw input of one table row.
type EntryRow struct {
	Name     string
	Amount   string
	Comments string
}

// EntryTable is the edit buffer behind a form's deposits table. The HTML
// table is rendered from Rows and posted back as parallel field lists.
type EntryTable struct {
	rows []EntryRow
}

// NewEntryTable returns a table holding rows.
func NewEntryTable(rows ...EntryRow) *EntryTable {
	t := &EntryTable{}
	t.rows = append(t.rows, rows...)
	return t
}

// Reset leaves exactly one blank row.
func (t *EntryTable) Reset() {
	t.rows = []EntryRow{{}}
}

// Load rebuilds the table from stored entries, one row each.
func (t *EntryTable) Load(entries []core.Entry) {
	t.rows = make([]EntryRow, 0, len(entries))
	for _, e := range entries {
		t.rows = append(t.rows, EntryRow{
			Name:     e.Name,
			Amount:   e.Amount.String(),
			Comments: e.Comments,
		})
	}
}

// AddRow appends a blank row.
func (t *EntryTable) AddRow() {
	t.rows = append(t.rows, EntryRow{})
}

// RemoveRow deletes the row at index i. Out of range indexes are ignored.
func (t *EntryTable) RemoveRow(i int) {
	if i < 0 || i >= len(t.rows) {
		return
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
}

// Rows returns a copy of the current rows.
func (t *EntryTable) Rows() []EntryRow {
	out := make([]EntryRow, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *EntryTable) Len() int {
	return len(t.rows)
}

// Entries converts the rows to entries: names and comments are trimmed,
// amounts parsed, and rows left entirely blank are dropped.
func (t *EntryTable) Entries() []core.Entry {
	entries := make([]core.Entry, 0, len(t.rows))
	for _, r := range t.rows {
		e := core.Entry{
			Name:     strings.TrimSpace(r.Name),
			Amount:   core.ParseAmount(r.Amount),
			Comments: strings.TrimSpace(r.Comments),
		}
		if e.IsBlank() {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}
