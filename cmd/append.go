package cmd

import (
	"context"
	"errors"
	"strings"

	"zombiezen.com/go/log"

	"github.com/Tiliavir/trackthetime/internal/clierr"
	"github.com/Tiliavir/trackthetime/internal/output"
	"github.com/Tiliavir/trackthetime/internal/storage"
	"github.com/Tiliavir/trackthetime/internal/tasklog"
)

// appendEntry turns args into a log entry and writes it. An entry that
// overlaps the following task rewrites the whole log; the previous log is
// kept as backup.
func (a *app) appendEntry(ctx context.Context, args []string) error {
	unlock, err := a.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	tasks, text, err := a.read(ctx)
	if err != nil {
		return err
	}

	res, err := tasks.AppendArgs(args)
	if errors.Is(err, tasklog.ErrNoEntry) {
		return clierr.Newf(clierr.InvalidInput, "%q is not an entry; expected [date] [time] [+duration] project [description]", strings.Join(args, " "))
	}
	if err != nil {
		return clierr.Wrap(clierr.InternalError, err)
	}

	if res.Collision != nil {
		if err := storage.Backup(a.logPath, text); err != nil {
			return clierr.Wrap(clierr.IOError, err)
		}
		if err := storage.Write(a.logPath, tasks.Sort().String()); err != nil {
			return clierr.Wrap(clierr.IOError, err)
		}
		output.Warn(a.errOut, "%s", res.Collision.Message())
	} else {
		lines := res.Lines
		if text != "" && !strings.HasSuffix(text, "\n") {
			lines = "\n" + lines
		}
		if err := storage.Append(a.logPath, lines); err != nil {
			return clierr.Wrap(clierr.IOError, err)
		}
	}
	log.Debugf(ctx, "Appended to %s: %q", a.logPath, res.Lines)

	output.Log(a.out, res.Lines)
	return nil
}
