// Package core provides the deposit tracker domain types.
//
// This file contains the optional monetary amount carried by an Entry and
// the helpers that parse it from form input.
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a monetary value that may be absent. Absent amounts are
// persisted as the empty string, present ones as a JSON number.
type Amount struct {
	Value float64
	Valid bool
}

// AmountOf returns a present amount.
func AmountOf(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

// ParseAmount converts user input to an Amount.
//
// Blank input yields an absent amount. Only the dot is a decimal separator,
// matching what a number input posts. Input that is not a finite number,
// including "1,234", is treated as absent.
//
// Examples:
//   ParseAmount("12.5")  -> {12.5, true}
//   ParseAmount("1,234") -> {0, false}
//   ParseAmount("")      -> {0, false}
//   ParseAmount("abc")   -> {0, false}
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Amount{}
	}
	return AmountOf(v)
}

// String renders the amount the way a number input expects it, or "" when absent.
func (a Amount) String() string {
	if !a.Valid {
		return ""
	}
	return strconv.FormatFloat(a.Value, 'f', -1, 64)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte(`""`), nil
	}
	if math.IsNaN(a.Value) || math.IsInf(a.Value, 0) {
		return nil, fmt.Errorf("amount %v is not a finite number", a.Value)
	}
	return []byte(strconv.FormatFloat(a.Value, 'f', -1, 64)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = ParseAmount(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = AmountOf(v)
	return nil
}
