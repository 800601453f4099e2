package tasklog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Tiliavir/trackthetime/internal/model"
)

// ErrNoEntry is returned when command line tokens do not form a task.
var ErrNoEntry = errors.New("no valid entry: expected [date] [time] [+duration] project [description]")

// LineError describes a malformed log line.
type LineError struct {
	Line int    // 1-based line number
	Text string // original content, tabs shown as spaces
}

func (e LineError) String() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Text)
}

// ParseError collects all malformed lines found by Split.
type ParseError struct {
	Lines []LineError
}

func (e *ParseError) Error() string {
	parts := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		parts[i] = l.String()
	}
	return fmt.Sprintf("%d malformed line(s): %s", len(e.Lines), strings.Join(parts, "; "))
}

// Collision reports that inserting a task with a duration overlapped the
// following task, which was marked deleted.
type Collision struct {
	Deleted *model.Task
}

// Message names the deleted line on a single line.
func (c *Collision) Message() string {
	line := *c.Deleted
	line.Deleted = false
	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(line.String(), " "))
	return fmt.Sprintf("%q deleted", text)
}
