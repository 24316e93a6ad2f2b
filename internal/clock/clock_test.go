package clock

import (
	"testing"
	"time"
)

func TestNewRejectsUnknownTimezone(t *testing.T) {
	if _, err := New("Mars/Olympus_Mons"); err == nil {
		t.Fatal("expected an error for an unknown timezone")
	}
}

func TestDayBounds(t *testing.T) {
	c, err := New("UTC")
	if err != nil {
		t.Fatalf("failed to build clock: %v", err)
	}
	from, to, err := c.DayBounds("2024-03-01")
	if err != nil {
		t.Fatalf("DayBounds: %v", err)
	}
	if !from.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %v", from)
	}
	if to.Sub(from) != 24*time.Hour {
		t.Fatalf("expected a 24h window, got %v", to.Sub(from))
	}
}

func TestDayBoundsLocalMidnight(t *testing.T) {
	c, err := New("Africa/Kampala")
	if err != nil {
		t.Fatalf("failed to build clock: %v", err)
	}
	from, _, err := c.DayBounds("2024-03-01")
	if err != nil {
		t.Fatalf("DayBounds: %v", err)
	}
	if from.UTC().Hour() != 21 {
		t.Fatalf("UTC+3 midnight should be 21:00 UTC the day before, got %v", from.UTC())
	}
}

func TestDayBoundsRejectsBadDate(t *testing.T) {
	c, _ := New("UTC")
	if _, _, err := c.DayBounds("March 1"); err == nil {
		t.Fatal("expected an error for a malformed date")
	}
}
