package timecalc

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// relativeRe matches offsets like "1d", "2w", "-3m" or "2weeks".
var relativeRe = regexp.MustCompile(`^-?(\d+)([dwm])[a-z]*$`)

// Range is a half-open interval [From, To) of calendar days.
type Range struct {
	From time.Time
	To   time.Time
}

// Resolve turns the --from/--to expressions into a concrete range.
//
// Both expressions accept loose dates (see NormalizeDate) and relative
// offsets N[dwm]: "1d" is today, "2d" yesterday, "1w" the current week
// starting Monday, "1m" the current month starting on the 1st. The result
// always starts at midnight and ends at the midnight after the last day.
//
//   - neither set: today
//   - only from: from until today
//   - only to, relative: the single period N units back, so "1w" is last week
//     and "0w" the current one
//   - only to, absolute: that day
//   - both: from until to, swapped if given in reverse order
func Resolve(from, to string, now time.Time) (Range, error) {
	switch {
	case from == "" && to == "":
		return Range{From: StartOfDay(now), To: Midnight(now)}, nil

	case to == "":
		f, err := resolvePoint(from, now, now)
		if err != nil {
			return Range{}, err
		}
		return Range{From: f, To: Midnight(now)}, nil

	case from == "":
		t, err := resolvePoint(to, now, now)
		if err != nil {
			return Range{}, err
		}
		if m := relativeRe.FindStringSubmatch(to); m != nil {
			return Range{From: relative(2, m[2], t), To: t}, nil
		}
		return Range{From: t, To: Midnight(t)}, nil
	}

	f, err := resolvePoint(from, now, now)
	if err != nil {
		return Range{}, err
	}
	t, err := resolvePoint(to, now, now)
	if err != nil {
		return Range{}, err
	}
	if f.After(t) {
		f, t = t, f
	}
	return Range{From: StartOfDay(f), To: Midnight(t)}, nil
}

// resolvePoint resolves a single expression to a midnight instant. Relative
// offsets count back from ref.
func resolvePoint(s string, ref, now time.Time) (time.Time, error) {
	if iso, ok := NormalizeDate(s, now); ok {
		t, err := time.ParseInLocation(DateLayout, iso, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
		}
		return t, nil
	}
	if m := relativeRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid offset %q: %w", s, err)
		}
		return relative(n, m[2], ref), nil
	}
	return time.Time{}, fmt.Errorf("invalid date or offset %q: use a date (2015-07-10, 10.7.) or an offset (1d, 2w, 1m)", s)
}

// relative returns the start of the period n-1 units before ref.
func relative(n int, unit string, ref time.Time) time.Time {
	back := n - 1
	switch unit {
	case "m":
		return StartOfMonth(AddMonths(ref, -back))
	case "w":
		return StartOfWeek(ref.AddDate(0, 0, -7*back))
	default:
		return StartOfDay(ref.AddDate(0, 0, -back))
	}
}
