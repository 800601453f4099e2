package cmd

import (
	"context"
	"fmt"

	"zombiezen.com/go/log"

	"github.com/Tiliavir/trackthetime/internal/clierr"
	"github.com/Tiliavir/trackthetime/internal/storage"
)

// sortLog rewrites the log in chronological order with week separators.
func (a *app) sortLog(ctx context.Context) error {
	unlock, err := a.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	tasks, text, err := a.read(ctx)
	if err != nil {
		return err
	}
	if err := storage.Backup(a.logPath, text); err != nil {
		return clierr.Wrap(clierr.IOError, err)
	}
	if err := storage.Write(a.logPath, tasks.Sort().String()); err != nil {
		return clierr.Wrap(clierr.IOError, err)
	}
	log.Debugf(ctx, "Sorted %d tasks", tasks.Len())
	fmt.Fprintf(a.out, "Sorted %s, backup in %s\n", a.logPath, storage.BackupPath(a.logPath))
	return nil
}
