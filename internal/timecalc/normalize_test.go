package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/trackthetime/internal/timecalc"
)

func TestNormalizeDate(t *testing.T) {
	now := time.Date(2015, 7, 17, 17, 0, 0, 0, time.Local)
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1.2", "2015-02-01", true},
		{"1.2.", "2015-02-01", true},
		{"01.02", "2015-02-01", true},
		{"31.13", "2016-01-31", true},
		{"29.2.19", "2019-03-01", true},
		{"29/2/2019", "2019-03-01", true},
		{"2-1", "2015-02-01", true},
		{"8-15", "2015-08-15", true},
		{"13-31", "2016-01-31", true},
		{"07-10", "2015-07-10", true},
		{"2019-02-29", "2019-03-01", true},
		{"15-06-01", "2015-06-01", true},
		{"1.1.000000", "", false},
		{"foobar", "", false},
		{"", "", false},
		{"10:30", "", false},
	}
	for _, tt := range tests {
		got, ok := timecalc.NormalizeDate(tt.in, now)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NormalizeDate(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNormalizeTimeOrDuration(t *testing.T) {
	tests := []struct {
		in    string
		clock string
		secs  int64
		ok    bool
	}{
		{"10", "00:10", 0, true},
		{"999", "16:39", 0, true},
		{"8:1", "08:01", 0, true},
		{"12:15", "12:15", 0, true},
		{"23:59", "23:59", 0, true},
		{"24:00", "23:59", 0, true},
		{"99:99", "23:59", 0, true},
		{"+90", "", 5400, true},
		{"+2:15", "", 8100, true},
		{"+99:00", "", 86400, true},
		{"foo", "", 0, false},
		{"+", "", 0, false},
		{"1000", "", 0, false},
		{"2015-06-01", "", 0, false},
	}
	for _, tt := range tests {
		clock, secs, ok := timecalc.NormalizeTimeOrDuration(tt.in)
		if clock != tt.clock || secs != tt.secs || ok != tt.ok {
			t.Errorf("NormalizeTimeOrDuration(%q) = %q, %d, %v; want %q, %d, %v",
				tt.in, clock, secs, ok, tt.clock, tt.secs, tt.ok)
		}
	}
}

func TestNormalizeDurationRequiresPlus(t *testing.T) {
	if _, ok := timecalc.NormalizeDuration("90"); ok {
		t.Error("NormalizeDuration(\"90\") accepted a token without a leading +")
	}
	if _, ok := timecalc.NormalizeTime("+90"); ok {
		t.Error("NormalizeTime(\"+90\") accepted a duration token")
	}
}
