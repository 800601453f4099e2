// Package cmd implements the ttt command line.
package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"zombiezen.com/go/log"

	"github.com/Tiliavir/trackthetime/internal/clierr"
	"github.com/Tiliavir/trackthetime/internal/config"
	"github.com/Tiliavir/trackthetime/internal/filelock"
	"github.com/Tiliavir/trackthetime/internal/output"
	"github.com/Tiliavir/trackthetime/internal/report"
	"github.com/Tiliavir/trackthetime/internal/storage"
	"github.com/Tiliavir/trackthetime/internal/tasklog"
)

// version is set at build time via ldflags.
var version = "dev"

// allProjects is the value of a bare --project.
const allProjects = "*"

var (
	flagSort    bool
	flagEdit    bool
	flagDay     bool
	flagWeek    bool
	flagMonth   bool
	flagProject string
	flagFrom    string
	flagTo      string
	flagLast    int
	flagSecs    bool
	flagConfig  bool
	flagWatch   bool
	flagNoColor bool
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "ttt [flags] [date] [time] [+duration] project [description]",
	Short: "Track the time in a plain text log",
	Long: `ttt appends what you are working on to a plain text log and reports
the hours worked per day, week and month.

  ttt prj fixing the build       start working on "prj" now
  ttt 9:00 s                     started the day at 9:00
  ttt 12:00 p                    pause
  ttt c                          continue the previous task
  ttt 11:00 +30 call customer    insert a 30 minute call
  ttt 1.6. vacation              a full day of vacation
  ttt e                          end of the day

Without arguments ttt prints this week, today and the time to leave.
The log is $TRACKTHETIMELOG or ~/.config/ttt/ttt.log.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runRoot,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		log.SetDefault(newLogger(os.Stderr, flagDebug))
		if flagNoColor || !output.ColorWanted(os.Stdout) {
			output.DisableColor()
		}
	},
}

func init() {
	f := rootCmd.Flags()
	f.SetInterspersed(false)
	f.BoolVarP(&flagSort, "sort", "s", false, "sort the log (the old one is kept as .bak)")
	f.BoolVarP(&flagEdit, "edit", "e", false, "open the log in the editor")
	f.BoolVarP(&flagDay, "day", "d", false, "report daily hours")
	f.BoolVarP(&flagWeek, "week", "w", false, "report weekly hours")
	f.BoolVarP(&flagMonth, "month", "m", false, "report monthly hours")
	f.StringVarP(&flagProject, "project", "p", "", "report hours per project, optionally filtered (\"a,b\", \"-pause\", \"*\")")
	f.Lookup("project").NoOptDefVal = allProjects
	f.StringVarP(&flagFrom, "from", "f", "", "report from a date (2015-06-01, 1.6.) or offset (2d, 1w, 1m)")
	f.StringVarP(&flagTo, "to", "t", "", "report until a date or offset")
	f.IntVarP(&flagLast, "last", "l", tasklog.DefaultLast, "print the last n entries")
	f.Lookup("last").NoOptDefVal = strconv.Itoa(tasklog.DefaultLast)
	f.BoolVar(&flagSecs, "secs", false, "report seconds instead of hours")
	f.BoolVar(&flagConfig, "config", false, "open the config file in the editor")
	f.BoolVar(&flagWatch, "watch", false, "print the summary again whenever the log changes")
	f.BoolVar(&flagNoColor, "no-color", false, "disable color output")
	f.BoolVar(&flagDebug, "debug", false, "log what ttt does to stderr")
}

// newLogger writes warnings to w, and debug messages as well when debug is
// set.
func newLogger(w io.Writer, debug bool) log.Logger {
	lvl := log.Info
	if debug {
		lvl = log.Debug
	}
	return &log.LevelFilter{Min: lvl, Output: log.New(w, "ttt", log.StdFlags, nil)}
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	output.Error(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// app carries what every mode needs: where the log is, the targets and
// the clock.
type app struct {
	logPath string
	cfg     *config.Config
	now     func() time.Time
	out     io.Writer
	errOut  io.Writer
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	logPath, err := storage.DefaultLogPath()
	if err != nil {
		return nil, clierr.Wrap(clierr.IOError, err)
	}
	if err := storage.Prepare(logPath); err != nil {
		return nil, clierr.Wrap(clierr.IOError, err)
	}
	cfg, err := config.Load(ctx, config.PathFor(logPath))
	if err != nil {
		return nil, clierr.Wrap(clierr.InvalidInput, err)
	}
	return &app{
		logPath: logPath,
		cfg:     cfg,
		now:     time.Now,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
	}, nil
}

// read loads and parses the log. Any malformed line aborts the command.
func (a *app) read(ctx context.Context) (*tasklog.Tasks, string, error) {
	text, err := storage.Read(a.logPath)
	if err != nil {
		return nil, "", clierr.Wrap(clierr.IOError, err)
	}
	tasks, err := tasklog.FromText(text, tasklog.Options{Daily: a.cfg.DailySeconds(), Clock: a.now})
	if err != nil {
		return nil, "", clierr.FromParse(a.logPath, err)
	}
	log.Debugf(ctx, "Read %d tasks from %s", tasks.Len(), a.logPath)
	return tasks, text, nil
}

// lock serializes log rewrites with other ttt processes.
func (a *app) lock(ctx context.Context) (func(), error) {
	unlock, err := filelock.Lock(filelock.Path(a.logPath))
	if err != nil {
		return nil, clierr.Wrap(clierr.IOError, err)
	}
	return func() {
		if err := unlock(); err != nil {
			log.Warnf(ctx, "Release lock for %s: %v", a.logPath, err)
		}
	}, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()

	switch {
	case flagSort:
		return a.sortLog(ctx)
	case flagEdit:
		return runEditor(ctx, a.cfg.EditorCommand(), a.logPath)
	case flagConfig:
		if err := config.EnsureFile(a.cfg.Path()); err != nil {
			return clierr.Wrap(clierr.IOError, err)
		}
		return runEditor(ctx, a.cfg.EditorCommand(), a.cfg.Path())
	case reportRequested(cmd):
		filter := flagProject
		if flags.Changed("project") && flagProject == allProjects {
			value, _, err := operand(cmd, args, func(string) bool { return true })
			if err != nil {
				return err
			}
			if value != "" {
				filter = value
			}
		}
		return a.report(ctx, reportRequest{
			kind:      reportKind(),
			from:      flagFrom,
			to:        flagTo,
			byProject: flags.Changed("project"),
			filter:    filter,
			seconds:   flagSecs,
		})
	case flags.Changed("last"):
		n := flagLast
		count, _, err := operand(cmd, args, isCount)
		if err != nil {
			return err
		}
		if count != "" {
			n, _ = strconv.Atoi(count)
		}
		return a.last(ctx, n)
	case flagWatch:
		return a.watch(ctx)
	case len(args) > 0:
		return a.appendEntry(ctx, args)
	default:
		return a.summary(ctx)
	}
}

func reportRequested(cmd *cobra.Command) bool {
	flags := cmd.Flags()
	return flagDay || flagWeek || flagMonth || flags.Changed("project") || flagFrom != "" || flagTo != ""
}

func reportKind() report.Kind {
	switch {
	case flagMonth:
		return report.Month
	case flagWeek:
		return report.Week
	default:
		return report.Day
	}
}

// operand takes the first positional token as the value of a flag given
// without one (e.g. "-p prj" or "-l 5") when accept allows it, and parses
// the flags that follow it. It returns the taken value and the remaining
// positional tokens.
func operand(cmd *cobra.Command, args []string, accept func(string) bool) (string, []string, error) {
	if len(args) == 0 || !accept(args[0]) {
		return "", args, nil
	}
	flags := cmd.Flags()
	if err := flags.Parse(args[1:]); err != nil {
		return "", nil, clierr.Wrap(clierr.InvalidInput, err)
	}
	return args[0], flags.Args(), nil
}

func isCount(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
