package analytics

import (
	"testing"
	"time"
)

func TestDayOf(t *testing.T) {
	loc := time.FixedZone("AEST", 10*3600)
	now := time.Date(2026, 8, 28, 14, 37, 12, 0, loc)

	r := DayOf(now)
	wantStart := time.Date(2026, 8, 28, 0, 0, 0, 0, loc)
	if !r.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", r.Start, wantStart)
	}
	wantEnd := time.Date(2026, 8, 28, 23, 59, 59, int(999*time.Millisecond), loc)
	if !r.End.Equal(wantEnd) {
		t.Errorf("End = %v, want %v", r.End, wantEnd)
	}
	if !r.Start.Before(r.End) {
		t.Error("range must be non-empty")
	}
}

func TestPrevious(t *testing.T) {
	r := DayOf(time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC))
	p := r.Previous()

	// an order stamped exactly at the previous day's midnight must fall
	// inside the comparison window
	midnight := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	if !p.Start.Equal(midnight) {
		t.Errorf("previous start = %v, want %v", p.Start, midnight)
	}
	wantEnd := time.Date(2026, 8, 27, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	if !p.End.Equal(wantEnd) {
		t.Errorf("previous end = %v, want %v", p.End, wantEnd)
	}
	if got, want := p.End.Sub(p.Start), r.End.Sub(r.Start); got != want {
		t.Errorf("previous duration = %v, want %v", got, want)
	}
	if !p.End.Before(r.Start) {
		t.Errorf("previous period %v must end before current starts %v", p.End, r.Start)
	}
}
