package tasklog

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/Tiliavir/trackthetime/internal/model"
)

const (
	// DefaultDaily is the length of a full working day in seconds.
	DefaultDaily = 8 * 3600
	// DefaultLast is the number of entries kept by Slice for a negative count.
	DefaultLast = 10
)

var lineBreakRe = regexp.MustCompile(`[\n\r]`)

// Options configures a task collection.
type Options struct {
	// Daily is the length of a full day in seconds, used for vacation and
	// sick days. Zero means DefaultDaily.
	Daily int64
	// Clock returns the current time. Nil means time.Now.
	Clock func() time.Time
}

// Tasks is an ordered collection of log entries.
type Tasks struct {
	tasks []*model.Task
	daily int64
	clock func() time.Time
}

// AppendResult is the outcome of appending an entry.
type AppendResult struct {
	// Lines holds the rendered lines of all tasks created or changed by the
	// append, newline terminated, ready to be written to the log.
	Lines string
	// Collision is set when the append soft-deleted an overlapping task.
	Collision *Collision
}

// New returns an empty collection.
func New(opts Options) *Tasks {
	if opts.Daily <= 0 {
		opts.Daily = DefaultDaily
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Tasks{daily: opts.Daily, clock: opts.Clock}
}

// FromTasks returns a collection holding the given tasks in their order.
func FromTasks(tasks []*model.Task, opts Options) *Tasks {
	t := New(opts)
	t.tasks = slices.Clone(tasks)
	return t
}

// FromText parses text into a sorted collection. Malformed lines are
// reported in a *ParseError; the valid tasks are kept either way.
func FromText(text string, opts Options) (*Tasks, error) {
	t := New(opts)
	return t, t.Split(text)
}

// Split replaces the collection with the tasks parsed from text and sorts
// them. Comments and blank lines are skipped. Malformed lines do not stop
// parsing; they are returned as a *ParseError so the caller can decide
// whether to go on.
func (t *Tasks) Split(text string) error {
	var bad []LineError
	t.tasks = t.tasks[:0]

	for i, line := range lineBreakRe.Split(text, -1) {
		task, kind := ParseLine(line)
		switch kind {
		case KindTask:
			t.tasks = append(t.tasks, task)
		case KindInvalid:
			bad = append(bad, LineError{Line: i + 1, Text: strings.ReplaceAll(line, "\t", " ")})
		}
	}

	t.Sort()

	if len(bad) > 0 {
		return &ParseError{Lines: bad}
	}
	return nil
}

// Sort orders the tasks by time. Tasks with the same time keep their order.
func (t *Tasks) Sort() *Tasks {
	slices.SortStableFunc(t.tasks, func(a, b *model.Task) int {
		return cmp.Compare(a.UTC(), b.UTC())
	})
	return t
}

// Previous returns the latest task before now which is neither a pause nor
// an end marker, or nil.
func (t *Tasks) Previous() *model.Task {
	now := t.clock()
	t.Sort()
	for i := len(t.tasks) - 1; i >= 0; i-- {
		tsk := t.tasks[i]
		if tsk.IsPause() || tsk.IsEnd() || tsk.Deleted {
			continue
		}
		if tsk.At().Before(now) {
			return tsk
		}
	}
	return nil
}

// AppendArgs parses command line tokens into a task and appends it.
func (t *Tasks) AppendArgs(args []string) (AppendResult, error) {
	task := ParseNewLine(args, t.clock())
	if task == nil {
		return AppendResult{}, ErrNoEntry
	}
	return t.Append(task), nil
}

// Append adds task to the collection.
//
// The project "c" continues the previous task. A full-day task is followed
// by an end marker one working day later. A task with a duration is
// followed by an entry at its end which resumes the task it interrupted on
// the same day; if that end lies beyond the next task, the next task is
// marked deleted, its work is resumed instead and a Collision is reported.
func (t *Tasks) Append(task *model.Task) AppendResult {
	var (
		out []string
		res AppendResult
	)
	push := func(tsk *model.Task) {
		out = append(out, tsk.String())
		t.tasks = append(t.tasks, tsk)
	}

	if task.Project == model.ProjectContinue {
		task.Project, task.Description = model.ProjectUnknown, ""
		if prev := t.Previous(); prev != nil {
			task.Project, task.Description = prev.Project, prev.Description
		}
	}
	push(task)

	if task.FullDay || task.Duration != 0 {
		follow := task.Clone()
		follow.FullDay, follow.Duration, follow.Description = false, 0, ""

		if task.FullDay {
			follow.AddSeconds(t.daily)
			follow.Project = model.ProjectEnd
		} else {
			follow.AddSeconds(task.Duration)
			follow.Project = model.ProjectUnknown
			if next := t.resume(task, follow); next != nil {
				res.Collision = &Collision{Deleted: next}
				next.Deleted = true
				out = append(out, next.String())
			}
		}
		push(follow)
	}

	res.Lines = strings.Join(out, "\n") + "\n"
	return res
}

// resume lets follow continue the task preceding task on the same day. If
// the task after task starts before follow, that one is resumed instead and
// returned as the collision.
func (t *Tasks) resume(task, follow *model.Task) *model.Task {
	t.Sort()
	i := slices.Index(t.tasks, task)
	if i < 1 {
		return nil
	}
	prev := t.tasks[i-1]
	if prev.Date != task.Date {
		return nil
	}
	follow.Project, follow.Description = prev.Project, prev.Description

	if i+1 >= len(t.tasks) {
		return nil
	}
	next := t.tasks[i+1]
	if !next.At().Before(follow.At()) {
		return nil
	}
	follow.Project, follow.Description = next.Project, next.Description
	return next
}

// Slice keeps the last n tasks. A negative n keeps DefaultLast.
func (t *Tasks) Slice(n int) *Tasks {
	if n < 0 {
		n = DefaultLast
	}
	if n < len(t.tasks) {
		t.tasks = t.tasks[len(t.tasks)-n:]
	}
	return t
}

// Len returns the number of tasks.
func (t *Tasks) Len() int { return len(t.tasks) }

// All returns the tasks in their current order.
func (t *Tasks) All() []*model.Task { return slices.Clone(t.tasks) }

// Daily returns the configured length of a full day in seconds.
func (t *Tasks) Daily() int64 { return t.daily }

// Now returns the current time of the collection's clock.
func (t *Tasks) Now() time.Time { return t.clock() }

// String renders the log, starting every calendar week with a
// "# CW <n>" comment.
func (t *Tasks) String() string {
	if len(t.tasks) == 0 {
		return ""
	}
	var (
		lines []string
		week  string
	)
	for _, tsk := range t.tasks {
		if key := tsk.WeekKey(); key != week {
			week = key
			lines = append(lines, fmt.Sprintf("# CW %d\n", tsk.Week()))
		}
		lines = append(lines, tsk.String())
	}
	return strings.Join(lines, "\n") + "\n"
}
