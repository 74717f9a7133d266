package core

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestEntryIsBlank(t *testing.T) {
	cases := []struct {
		e     Entry
		blank bool
	}{
		{Entry{}, true},
		{Entry{Name: "  ", Comments: "\t"}, true},
		{Entry{Name: "Lunch"}, false},
		{Entry{Amount: AmountOf(0)}, false},
		{Entry{Comments: "paid cash"}, false},
	}
	for i, tc := range cases {
		if got := tc.e.IsBlank(); got != tc.blank {
			t.Fatalf("case %d: IsBlank()=%v, want %v", i, got, tc.blank)
		}
	}
}

func TestEventJSONLayout(t *testing.T) {
	ev := Event{
		ID:   "evt_1_1",
		Name: "Trip A",
		Date: "2024-01-01",
		Entries: []Entry{
			{Name: "Lunch", Amount: AmountOf(12.5)},
			{Name: "Tip", Comments: "later"},
		},
	}
	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"evt_1_1","name":"Trip A","date":"2024-01-01","entries":[{"name":"Lunch","amount":12.5,"comments":""},{"name":"Tip","amount":"","comments":"later"}]}`
	if string(b) != want {
		t.Fatalf("unexpected layout:\n got %s\nwant %s", b, want)
	}
}

func TestEventNormalize(t *testing.T) {
	var ev Event
	if err := json.Unmarshal([]byte(`{"id":"x","name":"n","date":""}`), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	n := ev.Normalize()
	if n.Entries == nil || len(n.Entries) != 0 {
		t.Fatalf("expected empty non-nil entries, got %#v", n.Entries)
	}

	src := Event{ID: "a", Entries: []Entry{{Name: "x"}}}
	cp := src.Normalize()
	cp.Entries[0].Name = "changed"
	if src.Entries[0].Name != "x" {
		t.Fatalf("Normalize must copy entries")
	}
}

func TestEventValidate(t *testing.T) {
	if err := (Event{ID: "evt_1_2"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Event{ID: "  "}).Validate(); err != ErrEmptyID {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
}

func TestCloneEvents(t *testing.T) {
	in := []Event{{ID: "a", Entries: []Entry{{Name: "x"}}}, {ID: "b"}}
	out := CloneEvents(in)
	out[0].Entries[0].Name = "y"
	if in[0].Entries[0].Name != "x" {
		t.Fatalf("CloneEvents must deep copy")
	}
	if !reflect.DeepEqual(out[1], Event{ID: "b", Entries: []Entry{}}) {
		t.Fatalf("unexpected clone: %#v", out[1])
	}
}

func TestTotal(t *testing.T) {
	got := Total([]Entry{{Amount: AmountOf(12.5)}, {Name: "no amount"}, {Amount: AmountOf(7.25)}})
	if got != 19.75 {
		t.Fatalf("Total=%v, want 19.75", got)
	}
	if Total(nil) != 0 {
		t.Fatalf("Total(nil) should be 0")
	}
}
