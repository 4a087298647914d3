package config

import (
	"strings"
	"time"

	"github.com/conn-castle/plugin-stage/internal/logging"
)

// Defaults used when neither the config file nor a flag sets a value.
const (
	DefaultBaseDir   = "plugins"
	DefaultJobs      = 4
	DefaultInboxDir  = "inbox"
	DefaultSettle    = 2 * time.Second
	DefaultLockLimit = 30 * time.Second
)

// Config is the pstage.toml file.
type Config struct {
	// BaseDir is the directory holding canonical plugin and backup directories.
	BaseDir string           `toml:"base_dir"`
	Log     logging.Settings `toml:"log"`
	Batch   BatchConfig      `toml:"batch"`
	Lock    LockConfig       `toml:"lock"`
	Inbox   InboxConfig      `toml:"inbox"`
}

// BatchConfig tunes multi-plugin installs.
type BatchConfig struct {
	Jobs   int  `toml:"jobs" validate:"gte=0,lte=64"`
	Strict bool `toml:"strict"`
}

// LockConfig tunes per-plugin locking.
type LockConfig struct {
	Timeout Duration `toml:"timeout"`
}

// InboxConfig configures the watch command.
type InboxConfig struct {
	Dir    string   `toml:"dir"`
	Settle Duration `toml:"settle"`
}

// Duration is a time.Duration written as a Go duration string ("1m30s").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText renders the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		BaseDir: DefaultBaseDir,
		Log:     logging.Settings{Level: logging.DefaultLevel, Format: logging.DefaultFormat},
		Batch:   BatchConfig{Jobs: DefaultJobs},
		Lock:    LockConfig{Timeout: Duration{DefaultLockLimit}},
		Inbox:   InboxConfig{Dir: DefaultInboxDir, Settle: Duration{DefaultSettle}},
	}
}

// applyDefaults fills zero values left by a partial file.
func (c *Config) applyDefaults() {
	def := Default()
	if strings.TrimSpace(c.BaseDir) == "" {
		c.BaseDir = def.BaseDir
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
	if c.Batch.Jobs == 0 {
		c.Batch.Jobs = def.Batch.Jobs
	}
	if c.Lock.Timeout.Duration == 0 {
		c.Lock.Timeout = def.Lock.Timeout
	}
	if strings.TrimSpace(c.Inbox.Dir) == "" {
		c.Inbox.Dir = def.Inbox.Dir
	}
	if c.Inbox.Settle.Duration == 0 {
		c.Inbox.Settle = def.Inbox.Settle
	}
}
