package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// EnvLogPath overrides the location of the time log.
const EnvLogPath = "TRACKTHETIMELOG"

// BaseDir returns the directory holding the default log and config
// (~/.config/ttt).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ttt"), nil
}

// DefaultLogPath returns $TRACKTHETIMELOG or ~/.config/ttt/ttt.log.
func DefaultLogPath() (string, error) {
	if p := os.Getenv(EnvLogPath); p != "" {
		return p, nil
	}
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "ttt.log"), nil
}

// Prepare creates the log's directory and an empty log if none exists.
func Prepare(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("storage error creating %s: %w", path, err)
	}
	return f.Close()
}

// Read returns the content of the log. A missing log reads as empty.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("storage error reading %s: %w", path, err)
	}
	return string(data), nil
}

// Write atomically replaces the log with text.
func Write(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(text), 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Append adds text to the end of the log, creating it if needed.
func Append(path, text string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("storage error opening %s: %w", path, err)
	}
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return fmt.Errorf("storage error appending to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("storage error closing %s: %w", path, err)
	}
	return nil
}

// BackupPath returns the path of the backup written by Backup.
func BackupPath(path string) string { return path + ".bak" }

// Backup stores text next to the log as <path>.bak, replacing an older
// backup.
func Backup(path, text string) error {
	if err := Write(BackupPath(path), text); err != nil {
		return fmt.Errorf("backup of %s failed: %w", path, err)
	}
	return nil
}
