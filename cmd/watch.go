package cmd

import (
	"context"
	"fmt"

	"zombiezen.com/go/log"

	"github.com/Tiliavir/trackthetime/internal/clierr"
	"github.com/Tiliavir/trackthetime/internal/output"
	"github.com/Tiliavir/trackthetime/internal/watcher"
)

// watch prints the summary and prints it again whenever the log changes,
// until interrupted.
func (a *app) watch(ctx context.Context) error {
	if err := a.summary(ctx); err != nil {
		return err
	}

	w, err := watcher.New(a.logPath, func() {
		fmt.Fprintln(a.out)
		if err := a.summary(ctx); err != nil {
			output.Error(a.errOut, err)
		}
	})
	if err != nil {
		return clierr.Wrap(clierr.IOError, err)
	}
	defer w.Close()

	log.Debugf(ctx, "Watching %s", a.logPath)
	w.Run(ctx, func(err error) {
		log.Warnf(ctx, "Watch %s: %v", a.logPath, err)
	})
	return nil
}
