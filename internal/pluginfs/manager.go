// Package pluginfs stages plugin versions into canonical directories, keeps the
// previous version as a single rollback point, and restores from it.
//
// Layout under a base directory:
//
//	<baseDir>/<name>            canonical directory of the active version
//	<baseDir>/<name>-v<token>   backup of a former canonical directory
//
// where token is the backed-up version or unknown-<unix-millis> when no
// version could be read. Operations on the same plugin name must be serialized
// by the caller (see Options.Guard); different names are independent.
package pluginfs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/conn-castle/plugin-stage/internal/messages"
)

// Descriptor describes a plugin version produced by staging or restore.
type Descriptor struct {
	Name           string `json:"name"`
	Version        string `json:"version"`
	SourcePath     string `json:"sourcePath,omitempty"`
	IsLocalInstall bool   `json:"isLocalInstall"`
}

// GuardFunc runs fn while holding exclusive access to pluginName under baseDir.
type GuardFunc func(baseDir string, pluginName string, fn func() error) error

// Options configures a Manager.
type Options struct {
	// System performs all filesystem access. Required.
	System System
	// Logger receives progress lines. When nil the logger stored on the
	// operation's context is used.
	Logger *slog.Logger
	// Now is the clock used for fallback backup tokens. Defaults to time.Now.
	Now func() time.Time
	// Guard serializes Stage and Restore per plugin name. Nil runs unguarded.
	Guard GuardFunc
}

// Manager runs staging, backup, retention, and restore against one System.
// It holds collaborators only; every call reads plugin state fresh from disk.
type Manager struct {
	sys    System
	logger *slog.Logger
	now    func() time.Time
	guard  GuardFunc
	newID  func() string
}

// NewManager validates opts and returns a Manager.
func NewManager(opts Options) (*Manager, error) {
	if opts.System == nil {
		return nil, errors.New(messages.PluginsSystemRequired)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		sys:    opts.System,
		logger: opts.Logger,
		now:    now,
		guard:  opts.Guard,
		newID:  uuid.NewString,
	}, nil
}

// System returns the filesystem the manager operates on.
func (m *Manager) System() System {
	return m.sys
}

func (m *Manager) log(ctx context.Context) *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return slogcontext.FromCtx(ctx)
}

func (m *Manager) guarded(baseDir string, pluginName string, fn func() error) error {
	if m.guard == nil {
		return fn()
	}
	return m.guard(baseDir, pluginName, fn)
}

// CanonicalPath returns <baseDir>/<pluginName>.
func CanonicalPath(baseDir string, pluginName string) string {
	return filepath.Join(baseDir, pluginName)
}

// BackupPath returns the backup directory for canonicalPath and a version token.
func BackupPath(canonicalPath string, token string) string {
	return canonicalPath + backupInfix + token
}

// ValidatePluginName reports whether name can be used as a single directory name.
func ValidatePluginName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(messages.PluginsNameRequired)
	}
	if !isPathComponent(name) {
		return fmt.Errorf(messages.PluginsNameInvalidFmt, name)
	}
	return nil
}

func isPathComponent(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name
}

func requireBaseDir(baseDir string) error {
	if strings.TrimSpace(baseDir) == "" {
		return errors.New(messages.PluginsBaseDirRequired)
	}
	return nil
}
