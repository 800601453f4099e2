// Package report aggregates worked time per day, week and month.
package report

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/Tiliavir/trackthetime/internal/model"
	"github.com/Tiliavir/trackthetime/internal/tasklog"
	"github.com/Tiliavir/trackthetime/internal/timecalc"
)

// Kind is the granularity of a report.
type Kind int

const (
	// Day reports per calendar day.
	Day Kind = iota
	// Week reports per ISO week.
	Week
	// Month reports per calendar month.
	Month
)

func (k Kind) String() string {
	switch k {
	case Week:
		return "week"
	case Month:
		return "month"
	default:
		return "day"
	}
}

var kinds = []Kind{Day, Week, Month}

var filterSplitRe = regexp.MustCompile(`[,\s]+`)

// Result is an aggregation in period order. Sum is zero when nothing was
// tracked in the range.
type Result struct {
	Entries []Entry
	Sum     float64
}

// Entry is one period of a Result. Per-project reports fill Projects and
// leave Value unset.
type Entry struct {
	Key      string
	Value    float64
	Projects []ProjectValue
}

// ProjectValue is the time spent on one project within a period.
type ProjectValue struct {
	Project string
	Value   float64
}

// bucket keeps per-project seconds in the order projects first appeared.
type bucket struct {
	order []string
	secs  map[string]int64
}

func (b *bucket) add(project string, secs int64) {
	if _, ok := b.secs[project]; !ok {
		b.order = append(b.order, project)
	}
	b.secs[project] += secs
}

// Report holds the aggregated durations of a task collection.
type Report struct {
	tasks    []model.Task
	last     *model.Task
	now      time.Time
	totals   map[Kind]map[string]int64
	projects map[Kind]map[string]*bucket
}

// New sorts tasks and aggregates copies of them as of now. If the last
// task is not an end marker and lies on today's date, a task at now
// continuing the task running at now is added so work in progress counts.
func New(tasks *tasklog.Tasks, now time.Time) *Report {
	r := &Report{
		now:      time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), 0, 0, now.Location()),
		totals:   make(map[Kind]map[string]int64),
		projects: make(map[Kind]map[string]*bucket),
	}
	for _, k := range kinds {
		r.totals[k] = make(map[string]int64)
		r.projects[k] = make(map[string]*bucket)
	}

	if tasks != nil {
		for _, tsk := range tasks.Sort().All() {
			r.tasks = append(r.tasks, *tsk)
		}
	}
	if n := len(r.tasks); n > 0 {
		last := r.tasks[n-1]
		r.last = &last
	}
	r.addNow()
	r.aggregate()
	return r
}

func (r *Report) addNow() {
	if r.last == nil || r.last.IsEnd() || !timecalc.SameDay(r.last.At(), r.now) {
		return
	}
	// The task at now continues whatever runs at now, which is the task
	// before it, not the last one when later tasks are already logged.
	i := len(r.tasks)
	for i > 0 && r.tasks[i-1].At().After(r.now) {
		i--
	}
	if i == 0 {
		return
	}
	r.tasks = slices.Insert(r.tasks, i, *model.New(model.Options{Now: r.now, Project: r.tasks[i-1].Project}))
}

func (r *Report) aggregate() {
	for i := 0; i+1 < len(r.tasks); i++ {
		tsk := &r.tasks[i]
		secs := tsk.CalcDuration(&r.tasks[i+1])

		for _, k := range kinds {
			key := periodKey(k, tsk)
			if !tsk.IsPause() {
				r.totals[k][key] += secs
			}
			b := r.projects[k][key]
			if b == nil {
				b = &bucket{secs: make(map[string]int64)}
				r.projects[k][key] = b
			}
			b.add(tsk.Project, secs)
		}
	}
}

func periodKey(k Kind, tsk *model.Task) string {
	switch k {
	case Week:
		return tsk.WeekKey()
	case Month:
		return tsk.Month()
	default:
		return tsk.Date
	}
}

// Option adjusts Time.
type Option func(*options)

type options struct {
	seconds bool
}

// WithSeconds reports raw seconds instead of hours.
func WithSeconds() Option {
	return func(o *options) { o.seconds = true }
}

// Time returns the worked time per period in [from, to). Pauses are not
// counted and periods without tracked time are left out.
func (r *Report) Time(kind Kind, from, to time.Time, opts ...Option) Result {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	value := hours
	if o.seconds {
		value = func(secs int64) float64 { return float64(secs) }
	}

	var (
		res Result
		sum int64
	)
	for _, p := range r.periods(kind, from, to) {
		secs := r.totals[kind][p.key]
		if secs == 0 {
			continue
		}
		res.Entries = append(res.Entries, Entry{Key: p.label, Value: value(secs)})
		sum += secs
	}
	res.Sum = value(sum)
	return res
}

// ProjectTime returns the time per project and period in [from, to),
// restricted by filter (see SelectProjects). Pause time is listed when
// selected but never added to the sum.
func (r *Report) ProjectTime(kind Kind, from, to time.Time, filter string) Result {
	filtered := strings.TrimSpace(filter) != ""
	sel := SelectProjects(filter)

	var (
		res Result
		sum int64
	)
	for _, p := range r.periods(kind, from, to) {
		b := r.projects[kind][p.key]
		if b == nil {
			continue
		}
		var values []ProjectValue
		for _, prj := range b.order {
			secs := b.secs[prj]
			if secs == 0 || !sel.includes(prj, filtered) {
				continue
			}
			values = append(values, ProjectValue{Project: prj, Value: hours(secs)})
			if prj != model.ProjectPause {
				sum += secs
			}
		}
		if len(values) > 0 {
			res.Entries = append(res.Entries, Entry{Key: p.label, Projects: values})
		}
	}
	res.Sum = hours(sum)
	return res
}

// Selection maps project names to selected (true) or deselected (false).
type Selection map[string]bool

// SelectProjects parses a comma or space separated project filter. A
// leading "-" deselects a project and "*" selects all of them. Pause is
// deselected unless named explicitly.
func SelectProjects(filter string) Selection {
	sel := Selection{model.ProjectPause: false}
	for _, name := range filterSplitRe.Split(strings.TrimSpace(filter), -1) {
		if name == "" {
			continue
		}
		selected := true
		if rest, ok := strings.CutPrefix(name, "-"); ok {
			name, selected = rest, false
		}
		sel[name] = selected
	}
	return sel
}

func (s Selection) includes(project string, filtered bool) bool {
	v, named := s[project]
	if filtered && !s["*"] && !(named && v) {
		return false
	}
	return !named || v
}

// TodayTimeLeft returns when today's target is reached. The remaining time
// is the daily target minus today's work, shortened to what is left of the
// weekly target. It counts from now, or from the last task if that lies in
// the future. It returns false if nothing was tracked or the last task
// closed the day.
func (r *Report) TodayTimeLeft(daily, weekly int64) (time.Time, bool) {
	if r.last == nil || r.last.IsEnd() {
		return time.Time{}, false
	}
	today := r.totals[Day][r.now.Format(timecalc.DateLayout)]
	week := r.totals[Week][timecalc.ISOWeekLabel(r.now)]
	left := min(daily-today, weekly-week)

	base := r.now
	if r.last.At().After(base) {
		base = r.last.At()
	}
	return base.Add(time.Duration(left) * time.Second), true
}

type period struct {
	key   string
	label string
}

// Periods lists the labels of all periods of kind in [from, to), whether or
// not time was tracked in them.
func (r *Report) Periods(kind Kind, from, to time.Time) []string {
	ps := r.periods(kind, from, to)
	labels := make([]string, len(ps))
	for i, p := range ps {
		labels[i] = p.label
	}
	return labels
}

func (r *Report) periods(kind Kind, from, to time.Time) []period {
	if to.Before(from) {
		from, to = to, from
	}
	var ps []period
	switch kind {
	case Week:
		for d := timecalc.StartOfWeek(from); d.Before(to); d = d.AddDate(0, 0, 7) {
			_, w := d.ISOWeek()
			ps = append(ps, period{key: timecalc.ISOWeekLabel(d), label: fmt.Sprintf("CW%d", w)})
		}
	case Month:
		for d := timecalc.StartOfMonth(from); d.Before(to); d = timecalc.AddMonths(d, 1) {
			key := d.Format("2006-01")
			ps = append(ps, period{key: key, label: key})
		}
	default:
		for d := timecalc.StartOfDay(from); d.Before(to); d = d.AddDate(0, 0, 1) {
			key := d.Format(timecalc.DateLayout)
			ps = append(ps, period{key: key, label: key})
		}
	}
	return ps
}

// hours converts seconds to hours rounded to one decimal.
func hours(secs int64) float64 {
	return math.Round(float64(secs)/3600*10) / 10
}
