package core

import (
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in    string
		year  int
		month time.Month
		ok    bool
	}{
		{"2000-01", 2000, time.January, true},
		{"1999-12", 1999, time.December, true},
		{"2024-06", 2024, time.June, true},
		{"2024-13", 0, 0, false},
		{"2024-00", 0, 0, false},
		{"2024-6", 0, 0, false},
		{"2024-06-01", 0, 0, false},
		{"", 0, 0, false},
		{"junk", 0, 0, false},
	}
	for _, tc := range cases {
		m, err := ParseMonth(tc.in)
		if !tc.ok {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q unexpected error: %v", tc.in, err)
		}
		if m.Year() != tc.year || m.Month() != tc.month {
			t.Fatalf("%q parsed as %v", tc.in, m)
		}
		if m.String() != tc.in {
			t.Fatalf("%q round-trip gave %q", tc.in, m.String())
		}
	}
}

func TestMonthEquality(t *testing.T) {
	a, _ := ParseMonth("2000-01")
	b, _ := ParseMonth("2000-01")
	c, _ := ParseMonth("2000-02")
	if a != b {
		t.Fatal("equal months should compare equal")
	}
	if a == c {
		t.Fatal("distinct months should not compare equal")
	}
	if a.IsZero() {
		t.Fatal("parsed month should not be zero")
	}
	if !(Month{}).IsZero() {
		t.Fatal("zero value should report IsZero")
	}
}
