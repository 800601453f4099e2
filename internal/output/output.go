// Package output prints reports, log excerpts and messages to the terminal.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/Tiliavir/trackthetime/internal/clierr"
	"github.com/Tiliavir/trackthetime/internal/timecalc"
)

var (
	ttlStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34"))
	overStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	commentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).TabWidth(lipgloss.NoTabConversion)
)

// DisableColor strips all styling from output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	ttlStyle = lipgloss.NewStyle()
	overStyle = lipgloss.NewStyle()
	warnStyle = lipgloss.NewStyle()
	errorStyle = lipgloss.NewStyle()
	commentStyle = lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
}

// ColorWanted reports whether f is a terminal and the environment does not
// ask for plain output (NO_COLOR).
func ColorWanted(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) && !termenv.EnvNoColor()
}

// Report prints a rendered report. Nothing is printed for an empty report.
func Report(w io.Writer, text string) {
	if text == "" {
		return
	}
	fmt.Fprintln(w, text)
}

// Log prints serialized log text, dimming comment lines.
func Log(w io.Writer, text string) {
	if text == "" {
		return
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			line = commentStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}

// TimeToLeave prints when today's target is reached, e.g. "17:30 is ttl".
// Past times are highlighted together with the overtime.
func TimeToLeave(w io.Writer, ttl, now time.Time) {
	line := ttl.Format(timecalc.ClockLayout) + " is ttl"
	if ttl.Before(now) {
		over := int64(now.Sub(ttl) / time.Second)
		fmt.Fprintln(w, overStyle.Render(line+" ("+timecalc.FormatDuration(over)+" over)"))
		return
	}
	fmt.Fprintln(w, ttlStyle.Render(line))
}

// Warn prints a warning line.
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warnStyle.Render("Warning: "+fmt.Sprintf(format, args...)))
}

// Error prints err. Details of a *clierr.Error follow on indented lines.
func Error(w io.Writer, err error) {
	for _, line := range strings.Split("Error: "+err.Error(), "\n") {
		fmt.Fprintln(w, errorStyle.Render(line))
	}
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		for _, d := range cliErr.Details {
			fmt.Fprintln(w, "  "+d)
		}
	}
}
