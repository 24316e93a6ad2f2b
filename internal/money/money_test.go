package money

import (
	"errors"
	"testing"
)

func TestParseMinor(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{"0", 0},
		{"1", 100},
		{"123.45", 12345},
		{"0.05", 5},
		{"-5.00", -500},
		{"1000000", 100000000},
		{"7.5", 750},
	}
	for _, tc := range cases {
		got, err := ParseMinor(tc.raw)
		if err != nil {
			t.Fatalf("ParseMinor(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMinor(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestParseMinorRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "abc", "12,34", "1.2.3"} {
		if _, err := ParseMinor(raw); err == nil {
			t.Fatalf("ParseMinor(%q) should fail", raw)
		}
	}
}

func TestParseMinorRejectsSubCentPrecision(t *testing.T) {
	_, err := ParseMinor("1.234")
	if !errors.Is(err, ErrTooManyDecimals) {
		t.Fatalf("expected ErrTooManyDecimals, got %v", err)
	}
}

func TestFormatMinor(t *testing.T) {
	cases := []struct {
		value int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{12345, "123.45"},
		{-500, "-5.00"},
		{100000000, "1000000.00"},
	}
	for _, tc := range cases {
		if got := FormatMinor(tc.value); got != tc.want {
			t.Fatalf("FormatMinor(%d) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, raw := range []string{"0.00", "19.99", "-3.10", "250.00"} {
		minor, err := ParseMinor(raw)
		if err != nil {
			t.Fatalf("ParseMinor(%q): %v", raw, err)
		}
		if got := FormatMinor(minor); got != raw {
			t.Fatalf("round trip %q -> %q", raw, got)
		}
	}
}
