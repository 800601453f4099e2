package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
	"zombiezen.com/go/log"
)

const fileMode = 0o600

const (
	// FileName is the config file kept next to the time log.
	FileName = "ttt.yaml"
	// DefaultDaily is the daily target in hours.
	DefaultDaily = 8.0
	// DefaultWeekly is the weekly target in hours.
	DefaultWeekly = 40.0
	// DefaultEditor is used when neither the config nor $EDITOR name one.
	DefaultEditor = "vi"
)

// ErrInvalid is wrapped by all validation errors.
var ErrInvalid = errors.New("invalid config")

// Config holds the working-time targets and the editor used by ttt.
type Config struct {
	// Daily is the working time per day in hours. It is also the length of
	// a vacation or sick day.
	Daily float64 `yaml:"daily"`
	// Weekly is the working time per week in hours.
	Weekly float64 `yaml:"weekly"`
	// Editor opens the log and this file. Empty means $EDITOR or vi.
	Editor string `yaml:"editor,omitempty"`

	path string
}

// NewDefault returns a Config with the built-in targets.
func NewDefault() *Config {
	return &Config{Daily: DefaultDaily, Weekly: DefaultWeekly}
}

// PathFor returns the config path belonging to the given log file.
func PathFor(logPath string) string {
	return filepath.Join(filepath.Dir(logPath), FileName)
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// DailySeconds returns the daily target in seconds.
func (c *Config) DailySeconds() int64 { return int64(c.Daily * 3600) }

// WeeklySeconds returns the weekly target in seconds.
func (c *Config) WeeklySeconds() int64 { return int64(c.Weekly * 3600) }

// EditorCommand returns the configured editor, $EDITOR, or vi.
func (c *Config) EditorCommand() string {
	if c.Editor != "" {
		return c.Editor
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return DefaultEditor
}

// Validate checks the targets.
func (c *Config) Validate() error {
	if c.Daily <= 0 || c.Daily > 24 {
		return fmt.Errorf("%w: daily must be between 0 and 24 hours, got %v", ErrInvalid, c.Daily)
	}
	if c.Weekly <= 0 || c.Weekly > 7*24 {
		return fmt.Errorf("%w: weekly must be between 0 and 168 hours, got %v", ErrInvalid, c.Weekly)
	}
	if c.Weekly < c.Daily {
		return fmt.Errorf("%w: weekly (%v) is less than daily (%v)", ErrInvalid, c.Weekly, c.Daily)
	}
	return nil
}

// template is the annotated config written on first run.
const template = `# ttt configuration
#
# All settings are optional; missing values fall back to the defaults
# shown below.

# Working hours per day. Vacation and sick days count as one full day.
daily: 8

# Working hours per week. Caps the "time to leave" projection once the
# week is almost done.
weekly: 40

# Editor used by --edit and --config. Defaults to $EDITOR, then vi.
# editor: vim
`

// Load reads the config at path, creating it with annotated defaults on
// first run. Fields missing from the file keep their defaults.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg := NewDefault()
	cfg.path = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			log.Warnf(ctx, "Could not create config file %s: %v", path, writeErr)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return NewDefault(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Zero values mean "not set".
	if cfg.Daily == 0 {
		cfg.Daily = DefaultDaily
	}
	if cfg.Weekly == 0 {
		cfg.Weekly = DefaultWeekly
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf(ctx, "Loaded config %s: daily=%vh weekly=%vh", path, cfg.Daily, cfg.Weekly)
	return cfg, nil
}

// EnsureFile writes the annotated template to path unless a file exists.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return writeDefault(path)
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(template), fileMode); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
