package ui

import (
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"

	"deposits/internal/core"
)

const (
	UntitledEventLabel = "Untitled Event"
	NoDateLabel        = "No date"
	NoDepositsLabel    = "No deposits yet"
)

// ListItem is one clickable row of the events list.
type ListItem struct {
	ID           string
	Name         string
	Date         string
	DepositLabel string
	Total        string
}

// ListView is the rendered events list. When Empty is true a placeholder is
// shown instead of Items.
type ListView struct {
	Empty bool
	Items []ListItem
}

// RenderList sorts events by date with plain string comparison, so an empty
// date comes first, and applies the display fallbacks. Events with equal
// dates keep their stored order.
func RenderList(events []core.Event) ListView {
	if len(events) == 0 {
		return ListView{Empty: true}
	}

	sorted := make([]core.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	view := ListView{Items: make([]ListItem, 0, len(sorted))}
	for _, e := range sorted {
		view.Items = append(view.Items, ListItem{
			ID:           e.ID,
			Name:         orDefault(e.Name, UntitledEventLabel),
			Date:         orDefault(e.Date, NoDateLabel),
			DepositLabel: DepositLabel(e.DepositCount()),
			Total:        FormatAmount(core.Total(e.Entries)),
		})
	}
	return view
}

// DepositLabel returns "No deposits yet" or "{n} deposit(s)".
func DepositLabel(n int) string {
	if n == 0 {
		return NoDepositsLabel
	}
	return strconv.Itoa(n) + " deposit(s)"
}

// FormatAmount renders a total with thousands separators and two decimals.
func FormatAmount(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
