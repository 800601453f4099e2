package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/trackthetime/internal/timecalc"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{90, "1m"},
		{3600, "1h 0m"},
		{3661, "1h 1m"},
		{5400, "1h 30m"},
		{-1800, "-30m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDuration(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		day  time.Time
		want time.Time
	}{
		// 2026-02-27 is a Friday (week 9).
		{time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC), time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)},
		// Sunday belongs to the week started the Monday before.
		{time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC), time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)},
		{time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got := timecalc.StartOfWeek(tt.day)
		if !got.Equal(tt.want) {
			t.Errorf("StartOfWeek(%v) = %v, want %v", tt.day, got, tt.want)
		}
	}
}

func TestISOWeekLabel(t *testing.T) {
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	got := timecalc.ISOWeekLabel(fri)
	if got != "2026-W09" {
		t.Errorf("ISOWeekLabel = %q, want %q", got, "2026-W09")
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		from time.Time
		n    int
		want time.Time
	}{
		{time.Date(2015, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2015, 2, 28, 0, 0, 0, 0, time.UTC)},
		{time.Date(2015, 3, 31, 0, 0, 0, 0, time.UTC), -1, time.Date(2015, 2, 28, 0, 0, 0, 0, time.UTC)},
		{time.Date(2015, 12, 15, 0, 0, 0, 0, time.UTC), 1, time.Date(2016, 1, 15, 0, 0, 0, 0, time.UTC)},
		{time.Date(2016, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2016, 2, 29, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got := timecalc.AddMonths(tt.from, tt.n)
		if !got.Equal(tt.want) {
			t.Errorf("AddMonths(%v, %d) = %v, want %v", tt.from, tt.n, got, tt.want)
		}
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}

func TestMidnight(t *testing.T) {
	got := timecalc.Midnight(time.Date(2015, 12, 31, 17, 0, 0, 0, time.UTC))
	want := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Midnight = %v, want %v", got, want)
	}
}
