package timecalc

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateLayout and ClockLayout are the canonical formats written to the log.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

const maxSeconds = 24 * 3600

var (
	// day.month[.year] with dots or slashes, e.g. 1.2, 1.2., 29/2/2019
	dmyRe = regexp.MustCompile(`^(\d{1,2})[./](\d{1,2})[./]?(\d{1,4}|)$`)
	// [year-]month-day, e.g. 8-15, 2019-02-29
	isoRe = regexp.MustCompile(`^(?:(\d{1,4})-|)(\d{1,2})-(\d{1,2})$`)

	durationRe = regexp.MustCompile(`^\+(?:(\d{1,2}):|)(\d{1,3})$`)
	clockRe    = regexp.MustCompile(`^(?:(\d{1,2}):|)(\d{1,3})$`)
)

// NormalizeDate converts a loosely written date into YYYY-MM-DD.
//
// Accepted are D.M, D.M., D.M.Y (dots or slashes) and M-D, Y-M-D. A missing
// year defaults to now's year; years below 100 are taken as 20YY. Values out
// of range roll over the way the calendar does, so "31.13" is January 31 of
// the following year and "29.2.19" is March 1, 2019.
func NormalizeDate(s string, now time.Time) (string, bool) {
	if m := dmyRe.FindStringSubmatch(s); m != nil {
		return isoDate(m[3], m[2], m[1], now), true
	}
	if m := isoRe.FindStringSubmatch(s); m != nil {
		return isoDate(m[1], m[2], m[3], now), true
	}
	return "", false
}

func isoDate(y, m, d string, now time.Time) string {
	year := now.Year()
	if y != "" {
		year = atoi(y)
		if year < 100 {
			year += 2000
		}
	}
	t := time.Date(year, time.Month(atoi(m)), atoi(d), 0, 0, 0, 0, time.UTC)
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), t.Month(), t.Day())
}

// NormalizeDuration parses "+M", "+MMM" or "+H:MM" into seconds. The leading
// plus is required; the result is capped at 24 hours.
func NormalizeDuration(s string) (int64, bool) {
	m := durationRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return clampSeconds(m[1], m[2]), true
}

// NormalizeTime parses "M", "MMM" or "H:MM" as a clock time and renders it as
// HH:mm. A bare number counts minutes after midnight, so "999" is 16:39.
// Times past the end of the day are clamped to 23:59.
func NormalizeTime(s string) (string, bool) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	secs := min(clampSeconds(m[1], m[2]), maxSeconds-60)
	return fmt.Sprintf("%02d:%02d", secs/3600, secs%3600/60), true
}

// NormalizeTimeOrDuration classifies a token as either a duration (leading
// "+") or a clock time. Exactly one of clock and secs is set when ok.
func NormalizeTimeOrDuration(s string) (clock string, secs int64, ok bool) {
	if secs, ok = NormalizeDuration(s); ok {
		return "", secs, true
	}
	clock, ok = NormalizeTime(s)
	return clock, 0, ok
}

func clampSeconds(hours, minutes string) int64 {
	secs := int64(atoi(hours)*60+atoi(minutes)) * 60
	return min(secs, maxSeconds)
}

// atoi returns 0 for the empty string; callers only pass digit runs.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
