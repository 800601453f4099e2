// Package filelock serializes writers of the time log across processes.
package filelock

import (
	"fmt"
	"os"
)

// Path returns the lock file guarding the log at logPath.
func Path(logPath string) string { return logPath + ".lock" }

// Lock takes an exclusive advisory lock on path, creating the file if
// needed, and blocks while another process holds it. The returned function
// releases the lock.
func Lock(path string) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock %s: %w", path, err)
	}
	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}
