package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/trackthetime/internal/timecalc"
)

// Reserved project names.
const (
	// ProjectStart marks the beginning of a work period.
	ProjectStart = "start"
	// ProjectPause is tracked but does not count as work time.
	ProjectPause = "pause"
	// ProjectEnd closes a work period; its own duration is always zero.
	ProjectEnd = "end"
	// ProjectContinue resumes the most recent real task when appending.
	ProjectContinue = "c"
	// ProjectUnknown is used for synthesized entries without a known project.
	ProjectUnknown = "?"
	// ProjectVacation and ProjectSick default to a full day starting 09:00.
	ProjectVacation = "vacation"
	ProjectSick     = "sick"
)

// DefaultDayStart is the start time of vacation and sick days.
const DefaultDayStart = "09:00"

var (
	dateRe = regexp.MustCompile(`^(\d{2,4})-(\d{1,2})-(\d{1,2})$`)
	timeRe = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})$`)

	shortcuts = map[string]string{
		"s": ProjectStart,
		"p": ProjectPause,
		"e": ProjectEnd,
	}
)

// Task is a single line of the time log.
type Task struct {
	Date        string // YYYY-MM-DD
	Time        string // HH:mm
	Project     string
	Description string
	// Duration is the requested duration in seconds when appending, and the
	// time until the next task once CalcDuration ran.
	Duration int64
	// FullDay requests a full working day instead of Duration.
	FullDay bool
	// Deleted marks a task superseded by a colliding insert.
	Deleted bool
	// Valid reports whether Date and Time form a real calendar instant.
	Valid bool

	at time.Time
}

// Options configures New.
type Options struct {
	// Now stamps date and time from the given instant, truncated to the minute.
	Now time.Time
	// At sets a pre-resolved instant and takes precedence over Date and Time.
	At          time.Time
	Date        string
	Time        string
	Duration    int64
	FullDay     bool
	Project     string
	Description string
}

// New creates a task from opts. Project shortcuts are expanded; vacation
// and sick days start at 09:00 unless a time is given and last a full day
// unless a duration is given.
func New(opts Options) *Task {
	t := &Task{Duration: opts.Duration, FullDay: opts.FullDay}
	if !opts.Now.IsZero() {
		n := opts.Now
		t.SetInstant(time.Date(n.Year(), n.Month(), n.Day(), n.Hour(), n.Minute(), 0, 0, n.Location()))
	}
	t.SetProject(opts.Project, opts.Description)

	clock := opts.Time
	if t.Project == ProjectVacation || t.Project == ProjectSick {
		if t.Duration == 0 && !t.FullDay {
			t.FullDay = true
		}
		if clock == "" {
			clock = DefaultDayStart
		}
	}

	switch {
	case !opts.At.IsZero():
		t.SetInstant(opts.At)
	case opts.Date != "" || clock != "":
		t.Update(opts.Date, clock)
	}
	return t
}

// SetProject sets project and description, expanding the shortcuts s, p and e.
func (t *Task) SetProject(project, description string) {
	if full, ok := shortcuts[project]; ok {
		project = full
	}
	t.Project = project
	t.Description = description
}

// Update sets date and time. Empty arguments keep the current value; a
// missing time defaults to 00:00. If the result is not a real calendar
// instant the task keeps its date and time, becomes invalid, and Update
// returns false.
func (t *Task) Update(date, clock string) bool {
	t.Valid = false
	if date == "" {
		date = t.Date
	}
	if clock == "" {
		clock = t.Time
	}
	if clock == "" {
		clock = "00:00"
	}
	at, ok := parseInstant(date, clock)
	if !ok {
		return false
	}
	t.SetInstant(at)
	return true
}

// SetInstant sets the task to the given instant and derives date and time.
func (t *Task) SetInstant(at time.Time) {
	t.at = at
	t.Date = at.Format(timecalc.DateLayout)
	t.Time = at.Format(timecalc.ClockLayout)
	t.Valid = true
}

// AddSeconds shifts a valid task by n seconds.
func (t *Task) AddSeconds(n int64) {
	if !t.Valid {
		return
	}
	t.SetInstant(t.at.Add(time.Duration(n) * time.Second))
}

// CalcDuration stores and returns the seconds until next. An end marker
// always lasts zero seconds. The result is negative if next lies before t.
func (t *Task) CalcDuration(next *Task) int64 {
	if t.IsEnd() {
		t.Duration = 0
	} else {
		t.Duration = int64(next.at.Sub(t.at) / time.Second)
	}
	return t.Duration
}

// At returns the instant of the task.
func (t *Task) At() time.Time { return t.at }

// UTC returns the instant in milliseconds since the Unix epoch.
func (t *Task) UTC() int64 { return t.at.UnixMilli() }

// Week returns the ISO week number.
func (t *Task) Week() int {
	_, w := t.at.ISOWeek()
	return w
}

// WeekKey returns the ISO year and week, e.g. "2015-W23".
func (t *Task) WeekKey() string { return timecalc.ISOWeekLabel(t.at) }

// Month returns YYYY-MM.
func (t *Task) Month() string {
	if len(t.Date) < 7 {
		return ""
	}
	return t.Date[:7]
}

// IsEnd reports whether the task closes a work period.
func (t *Task) IsEnd() bool { return t.Project == ProjectEnd }

// IsPause reports whether the task is a pause.
func (t *Task) IsPause() bool { return t.Project == ProjectPause }

// Clone returns a copy of t.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

// String renders the task as a log line. Deleted tasks are wrapped in a
// comment so they are skipped on the next read; an end marker is followed
// by an empty line.
func (t *Task) String() string {
	s := strings.Join([]string{t.Date, t.Time, t.Project, t.Description}, "\t")
	if t.Deleted {
		s = "#" + s + "#DELETED#"
	}
	if t.IsEnd() {
		s += "\n"
	}
	return s
}

func parseInstant(date, clock string) (time.Time, bool) {
	dm := dateRe.FindStringSubmatch(date)
	tm := timeRe.FindStringSubmatch(clock)
	if dm == nil || tm == nil {
		return time.Time{}, false
	}

	year, _ := strconv.Atoi(dm[1])
	if len(dm[1]) == 2 {
		if year > 68 {
			year += 1900
		} else {
			year += 2000
		}
	}
	month, _ := strconv.Atoi(dm[2])
	day, _ := strconv.Atoi(dm[3])
	hour, _ := strconv.Atoi(tm[1])
	minute, _ := strconv.Atoi(tm[2])

	if month < 1 || month > 12 || day < 1 || day > timecalc.DaysIn(year, time.Month(month)) {
		return time.Time{}, false
	}
	if hour > 23 || minute > 59 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local), true
}
