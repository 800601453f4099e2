package cmd

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"zombiezen.com/go/log"

	"github.com/Tiliavir/trackthetime/internal/clierr"
)

// runEditor opens path in editor, which may carry arguments ("code -w").
func runEditor(ctx context.Context, editor, path string) error {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return clierr.New(clierr.InvalidInput, "no editor configured")
	}
	log.Debugf(ctx, "Opening %s with %s", path, editor)

	c := exec.CommandContext(ctx, fields[0], append(fields[1:], path)...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return clierr.Wrap(clierr.IOError, err)
	}
	return nil
}
