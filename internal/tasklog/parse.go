// Package tasklog reads, edits and writes the flat time log.
package tasklog

import (
	"regexp"
	"strings"
	"time"

	"github.com/Tiliavir/trackthetime/internal/model"
	"github.com/Tiliavir/trackthetime/internal/timecalc"
)

// Kind classifies a raw log line.
type Kind int

const (
	// KindTask is a line holding a valid task.
	KindTask Kind = iota
	// KindComment is a blank line or a line starting with '#'.
	KindComment
	// KindInvalid is a line that is neither a task nor a comment.
	KindInvalid
)

// maxLeadingTokens bounds how many date, time and duration tokens may
// precede the project of a new entry.
const maxLeadingTokens = 5

var (
	commentRe    = regexp.MustCompile(`^#|^\s*$`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ParseLine parses one line of the log, e.g.
//
//	2015-08-04	12:23	prj	some description
//
// Fields are separated by any run of whitespace; the description is the
// remainder joined by single spaces.
func ParseLine(line string) (*model.Task, Kind) {
	if commentRe.MatchString(line) {
		return nil, KindComment
	}
	fields := whitespaceRe.Split(line, -1)
	if len(fields) < 3 {
		return nil, KindInvalid
	}
	task := model.New(model.Options{
		Date:        fields[0],
		Time:        fields[1],
		Project:     fields[2],
		Description: strings.Join(fields[3:], " "),
	})
	if !task.Valid {
		return nil, KindInvalid
	}
	return task, KindTask
}

// ParseNewLine composes a new task from command line tokens such as
//
//	[2015-06-01] [9:00] [+1:30] project some description
//
// Leading tokens are classified as date, time or duration; the first token
// that is none of these is the project and the rest is the description.
// Missing date and time are taken from now. It returns nil if no project
// is given or the result is not a valid task.
func ParseNewLine(tokens []string, now time.Time) *model.Task {
	opts := model.Options{Now: now}

	for i := 0; i < maxLeadingTokens && i < len(tokens); i++ {
		tok := tokens[i]
		if date, ok := timecalc.NormalizeDate(tok, now); ok {
			opts.Date = date
			continue
		}
		if clock, secs, ok := timecalc.NormalizeTimeOrDuration(tok); ok {
			if clock != "" {
				opts.Time = clock
			} else {
				opts.Duration = secs
			}
			continue
		}
		opts.Project = tok
		opts.Description = strings.TrimSpace(strings.Join(tokens[i+1:], " "))
		break
	}

	if opts.Project == "" {
		return nil
	}
	task := model.New(opts)
	if !task.Valid {
		return nil
	}
	return task
}
