package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"zombiezen.com/go/log"

	"github.com/Tiliavir/trackthetime/internal/clierr"
	"github.com/Tiliavir/trackthetime/internal/config"
	"github.com/Tiliavir/trackthetime/internal/output"
	"github.com/Tiliavir/trackthetime/internal/report"
	"github.com/Tiliavir/trackthetime/internal/storage"
)

func init() {
	output.DisableColor()
}

type testApp struct {
	*app
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestApp(t *testing.T, text string, now time.Time) testApp {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ttt.log")
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}
	var out, errOut bytes.Buffer
	return testApp{
		app: &app{
			logPath: path,
			cfg:     config.NewDefault(),
			now:     func() time.Time { return now },
			out:     &out,
			errOut:  &errOut,
		},
		out:    &out,
		errOut: &errOut,
	}
}

func (ta testApp) logText(t *testing.T) string {
	t.Helper()
	text, err := storage.Read(ta.logPath)
	if err != nil {
		t.Fatal(err)
	}
	return text
}

func errorCode(err error) string {
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ""
}

var friday = time.Date(2015, 6, 5, 12, 0, 0, 0, time.Local)

func TestAppendEntry(t *testing.T) {
	tests := []struct {
		name    string
		log     string
		args    []string
		wantLog string
		wantOut string
	}{
		{
			name:    "empty log",
			args:    []string{"prj", "fixing", "the", "build"},
			wantLog: "2015-06-05\t12:00\tprj\tfixing the build\n",
			wantOut: "2015-06-05\t12:00\tprj\tfixing the build\n",
		},
		{
			name:    "missing trailing newline",
			log:     "2015-06-05\t08:00\tprj\t",
			args:    []string{"org", "meeting"},
			wantLog: "2015-06-05\t08:00\tprj\t\n2015-06-05\t12:00\torg\tmeeting\n",
			wantOut: "2015-06-05\t12:00\torg\tmeeting\n",
		},
		{
			name:    "continue",
			log:     "2015-06-05\t08:00\tprj\tbacklog\n2015-06-05\t10:00\tpause\t\n",
			args:    []string{"c"},
			wantLog: "2015-06-05\t08:00\tprj\tbacklog\n2015-06-05\t10:00\tpause\t\n2015-06-05\t12:00\tprj\tbacklog\n",
			wantOut: "2015-06-05\t12:00\tprj\tbacklog\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, tt.log, friday)
			if err := ta.appendEntry(context.Background(), tt.args); err != nil {
				t.Fatalf("appendEntry: %v", err)
			}
			if got := ta.logText(t); got != tt.wantLog {
				t.Errorf("log = %q, want %q", got, tt.wantLog)
			}
			if got := ta.out.String(); got != tt.wantOut {
				t.Errorf("out = %q, want %q", got, tt.wantOut)
			}
		})
	}
}

func TestAppendEntryCollision(t *testing.T) {
	original := "2015-06-01\t09:00\tdooh\t\n2015-06-01\t11:00\tcoffee\t\n"
	ta := newTestApp(t, original, time.Date(2015, 6, 1, 18, 0, 0, 0, time.Local))
	if err := ta.appendEntry(context.Background(), []string{"2015-06-01", "10:30", "+42", "phone"}); err != nil {
		t.Fatalf("appendEntry: %v", err)
	}

	wantLog := "# CW 23\n\n" +
		"2015-06-01\t09:00\tdooh\t\n" +
		"2015-06-01\t10:30\tphone\t\n" +
		"#2015-06-01\t11:00\tcoffee\t#DELETED#\n" +
		"2015-06-01\t11:12\tcoffee\t\n"
	if got := ta.logText(t); got != wantLog {
		t.Errorf("log = %q, want %q", got, wantLog)
	}
	backup, err := storage.Read(storage.BackupPath(ta.logPath))
	if err != nil {
		t.Fatal(err)
	}
	if backup != original {
		t.Errorf("backup = %q, want %q", backup, original)
	}
	if got, want := ta.errOut.String(), "Warning: \"2015-06-01 11:00 coffee\" deleted\n"; got != want {
		t.Errorf("errOut = %q, want %q", got, want)
	}
}

func TestAppendEntryErrors(t *testing.T) {
	tests := []struct {
		name string
		log  string
		args []string
		code string
	}{
		{"no project", "", []string{"9:00"}, clierr.InvalidInput},
		{"malformed log", "2015-06-05\t08:00\tprj\t\nnot a task\n", []string{"prj"}, clierr.ParseFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, tt.log, friday)
			err := ta.appendEntry(context.Background(), tt.args)
			if got := errorCode(err); got != tt.code {
				t.Fatalf("error code = %q (%v), want %q", got, err, tt.code)
			}
			if got := ta.logText(t); got != tt.log {
				t.Errorf("log changed to %q", got)
			}
		})
	}
}

func TestSortLog(t *testing.T) {
	original := "2015-06-02\t09:00\tb\t\n2015-06-01\t09:00\ta\t\n"
	ta := newTestApp(t, original, friday)
	if err := ta.sortLog(context.Background()); err != nil {
		t.Fatalf("sortLog: %v", err)
	}
	if got, want := ta.logText(t), "# CW 23\n\n2015-06-01\t09:00\ta\t\n2015-06-02\t09:00\tb\t\n"; got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
	backup, err := storage.Read(storage.BackupPath(ta.logPath))
	if err != nil {
		t.Fatal(err)
	}
	if backup != original {
		t.Errorf("backup = %q, want %q", backup, original)
	}
}

func TestLast(t *testing.T) {
	text := "2015-06-01\t09:00\ta\t\n2015-06-02\t09:00\tb\t\n2015-06-03\t09:00\tc\t\n"
	ta := newTestApp(t, text, friday)
	if err := ta.last(context.Background(), 2); err != nil {
		t.Fatalf("last: %v", err)
	}
	if got, want := ta.out.String(), "# CW 23\n\n2015-06-02\t09:00\tb\t\n2015-06-03\t09:00\tc\t\n"; got != want {
		t.Errorf("out = %q, want %q", got, want)
	}
}

const weekLog = "2015-06-01\t09:00\tprj\t\n2015-06-01\t17:00\tend\t\n\n" +
	"2015-06-02\t09:00\tprj\t\n2015-06-02\t13:00\torg\t\n2015-06-02\t15:00\tend\t\n\n"

func TestReport(t *testing.T) {
	tests := []struct {
		name string
		req  reportRequest
		want string
	}{
		{
			name: "days",
			req:  reportRequest{kind: report.Day, from: "2015-06-01", to: "2015-06-02"},
			want: "2015-06-01\t8\n2015-06-02\t6\n\t14\tsum\n",
		},
		{
			name: "week",
			req:  reportRequest{kind: report.Week, from: "2015-06-01", to: "2015-06-02"},
			want: "CW23\t14\n\t14\tsum\n",
		},
		{
			name: "seconds",
			req:  reportRequest{kind: report.Day, to: "2015-06-01", seconds: true},
			want: "2015-06-01\t28800\n\t28800\tsum\n",
		},
		{
			name: "projects",
			req:  reportRequest{kind: report.Day, from: "2015-06-01", to: "2015-06-02", byProject: true},
			want: "2015-06-01\t8\tprj\n2015-06-02\t4\tprj\n2015-06-02\t2\torg\n\t14\tsum\n",
		},
		{
			name: "one project",
			req:  reportRequest{kind: report.Week, from: "2015-06-01", to: "2015-06-02", byProject: true, filter: "org"},
			want: "CW23\t2\torg\n\t2\tsum\n",
		},
		{
			name: "nothing tracked",
			req:  reportRequest{kind: report.Day},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, weekLog, friday)
			if err := ta.report(context.Background(), tt.req); err != nil {
				t.Fatalf("report: %v", err)
			}
			if got := ta.out.String(); got != tt.want {
				t.Errorf("out = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReportInvalidRange(t *testing.T) {
	ta := newTestApp(t, weekLog, friday)
	err := ta.report(context.Background(), reportRequest{kind: report.Day, from: "yesterday"})
	if got := errorCode(err); got != clierr.InvalidInput {
		t.Errorf("error code = %q (%v), want %q", got, err, clierr.InvalidInput)
	}
}

func TestSummary(t *testing.T) {
	text := weekLog + "2015-06-05\t08:00\tprj\t\n"
	ta := newTestApp(t, text, friday)
	if err := ta.summary(context.Background()); err != nil {
		t.Fatalf("summary: %v", err)
	}
	want := "CW23\t18\n\t18\tsum\n" +
		"2015-06-05\t4\n\t4\tsum\n" +
		"16:00 is ttl\n"
	if got := ta.out.String(); got != want {
		t.Errorf("out = %q, want %q", got, want)
	}
}

func TestSummaryClosedDay(t *testing.T) {
	ta := newTestApp(t, weekLog, friday)
	if err := ta.summary(context.Background()); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got, want := ta.out.String(), "CW23\t14\n\t14\tsum\n"; got != want {
		t.Errorf("out = %q, want %q", got, want)
	}
}

func TestOperand(t *testing.T) {
	var week bool
	c := &cobra.Command{Use: "test"}
	c.Flags().BoolVarP(&week, "week", "w", false, "")

	value, rest, err := operand(c, []string{"prj", "-w"}, func(string) bool { return true })
	if err != nil {
		t.Fatal(err)
	}
	if value != "prj" || len(rest) != 0 || !week {
		t.Errorf("operand = %q, %q, week=%v", value, rest, week)
	}

	value, rest, err = operand(c, []string{"prj", "x"}, isCount)
	if err != nil {
		t.Fatal(err)
	}
	if value != "" || len(rest) != 2 {
		t.Errorf("operand = %q, %q; want no value", value, rest)
	}
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		debug bool
		level log.Level
		shown bool
	}{
		{"debug hidden", false, log.Debug, false},
		{"warning shown", false, log.Warn, true},
		{"debug shown", true, log.Debug, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log.Logf(ctx, newLogger(&buf, tt.debug), tt.level, "Read %d tasks", 3)
			if got := strings.Contains(buf.String(), "Read 3 tasks"); got != tt.shown {
				t.Errorf("output %q, want shown=%v", buf.String(), tt.shown)
			}
		})
	}
}
