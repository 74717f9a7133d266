package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		out   float64
		valid bool
	}{
		{"12.5", 12.5, true},
		{"12,50", 0, false},
		{"1,234", 0, false},
		{" 3 ", 3, true},
		{"0", 0, true},
		{"-4.2", -4.2, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tc := range cases {
		got := ParseAmount(tc.in)
		if got.Valid != tc.valid || (tc.valid && got.Value != tc.out) {
			t.Fatalf("%q: got %+v, want {%v %v}", tc.in, got, tc.out, tc.valid)
		}
	}
}

func TestAmountString(t *testing.T) {
	if s := AmountOf(12.5).String(); s != "12.5" {
		t.Fatalf("got %q", s)
	}
	if s := (Amount{}).String(); s != "" {
		t.Fatalf("absent amount should render empty, got %q", s)
	}
}

func TestAmountUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
	}{
		{`12.5`, AmountOf(12.5)},
		{`""`, Amount{}},
		{`null`, Amount{}},
		{`"7.25"`, AmountOf(7.25)},
		{`0`, AmountOf(0)},
	}
	for _, tc := range cases {
		var a Amount
		if err := json.Unmarshal([]byte(tc.in), &a); err != nil {
			t.Fatalf("%s: unexpected error %v", tc.in, err)
		}
		if a != tc.want {
			t.Fatalf("%s: got %+v, want %+v", tc.in, a, tc.want)
		}
	}

	var a Amount
	if err := json.Unmarshal([]byte(`true`), &a); err == nil {
		t.Fatalf("expected error for boolean amount")
	}
}
