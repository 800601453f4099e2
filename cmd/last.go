package cmd

import (
	"context"

	"github.com/Tiliavir/trackthetime/internal/output"
)

// last prints the n most recent entries in log order.
func (a *app) last(ctx context.Context, n int) error {
	tasks, _, err := a.read(ctx)
	if err != nil {
		return err
	}
	output.Log(a.out, tasks.Slice(n).String())
	return nil
}
