package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2025-03-09 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year() != 2025 || d.Month() != 3 || d.Day() != 9 {
		t.Fatalf("unexpected date %v", d)
	}
	if _, err := ParseDate("09/03/2025"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}

	def := NewDate(2024, 1, 1)
	if got := ParseDateOr("", def); !got.SameDay(def) {
		t.Fatalf("expected default, got %v", got)
	}
}

func TestDateSameDayIgnoresClock(t *testing.T) {
	a := DateOf(time.Date(2025, 5, 4, 23, 59, 0, 0, time.UTC))
	b := NewDate(2025, 5, 4)
	if !a.SameDay(b) {
		t.Fatalf("expected same day: %v vs %v", a, b)
	}
	if a.MonthKey() != "2025-05" {
		t.Fatalf("unexpected month key %q", a.MonthKey())
	}
}

func TestDateJSON(t *testing.T) {
	var v struct {
		Date Date `json:"date"`
	}
	if err := json.Unmarshal([]byte(`{"date":"2025-02-10"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"date":"2025-02-10"}` {
		t.Fatalf("unexpected json %s", out)
	}
	if err := json.Unmarshal([]byte(`{"date":"10-02-2025"}`), &v); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}
