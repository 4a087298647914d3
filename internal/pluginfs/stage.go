package pluginfs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/conn-castle/plugin-stage/internal/messages"
)

// IsLocalLocator reports whether locator names a filesystem path rather than a
// bare package identifier such as "left-pad" or "1.2.3".
func IsLocalLocator(locator string) bool {
	return filepath.Base(locator) != locator
}

// Stage installs the plugin found at locator into baseDir.
//
// A bare locator is not a filesystem path: Stage returns a descriptor naming
// pluginName at version locator and touches nothing. Otherwise the source
// directory is resolved (descending once into a lone root folder), its
// metadata read, the current canonical directory backed up, older backups
// pruned, and the source moved into <baseDir>/<metadata.name>.
func (m *Manager) Stage(ctx context.Context, pluginName string, locator string, baseDir string) (Descriptor, error) {
	if strings.TrimSpace(locator) == "" {
		return Descriptor{}, errors.New(messages.PluginsSourceRequired)
	}
	logger := m.log(ctx)
	if !IsLocalLocator(locator) {
		if strings.TrimSpace(pluginName) == "" {
			return Descriptor{}, errors.New(messages.PluginsNameRequired)
		}
		logger.Debug(messages.PluginsLogStagePassthrough, "plugin", pluginName, "source", locator)
		return Descriptor{Name: pluginName, Version: locator}, nil
	}
	if err := requireBaseDir(baseDir); err != nil {
		return Descriptor{}, err
	}

	source, err := m.resolveSource(logger, locator)
	if err != nil {
		return Descriptor{}, err
	}
	meta, err := ReadMetadata(m.sys, source)
	if err != nil {
		return Descriptor{}, &InvalidSourcePackageError{Source: locator, Err: err}
	}
	if !isPathComponent(meta.Name) {
		return Descriptor{}, &InvalidSourcePackageError{Source: locator, Name: meta.Name}
	}

	target := CanonicalPath(baseDir, meta.Name)
	if overlaps(source, target) {
		return Descriptor{}, fmt.Errorf(messages.PluginsSourceIsTargetFmt, source, target)
	}

	logger = logger.With("plugin", meta.Name)
	err = m.guarded(baseDir, meta.Name, func() error {
		if err := m.rejectBackupSource(baseDir, meta.Name, source); err != nil {
			return err
		}
		if _, _, err := m.BackupExisting(ctx, target, meta.Name); err != nil {
			return err
		}
		if err := m.PruneBackups(ctx, baseDir, meta.Name); err != nil {
			return err
		}
		return m.moveDir(logger, source, target)
	})
	if err != nil {
		return Descriptor{}, err
	}
	logger.Info(messages.PluginsLogStageCompleted, "version", meta.Version, "path", target)
	return Descriptor{
		Name:           meta.Name,
		Version:        meta.Version,
		SourcePath:     target,
		IsLocalInstall: true,
	}, nil
}

// resolveSource returns locator, or its only entry when that entry is a directory.
func (m *Manager) resolveSource(logger *slog.Logger, locator string) (string, error) {
	entries, err := m.sys.ReadDir(locator)
	if err != nil {
		return "", &InvalidSourcePackageError{Source: locator, Err: fmt.Errorf(messages.PluginsFailedReadDirFmt, locator, err)}
	}
	if len(entries) == 1 && entries[0].IsDir() {
		nested := filepath.Join(locator, entries[0].Name())
		logger.Debug(messages.PluginsLogStageDescended, "source", locator, "root", nested)
		return nested, nil
	}
	return locator, nil
}

// overlaps reports whether moving source to target would copy a tree into itself.
func overlaps(source string, target string) bool {
	s := absClean(source)
	t := absClean(target)
	if s == t {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(s, t+sep) || strings.HasPrefix(t, s+sep)
}

// rejectBackupSource fails when source overlaps one of pluginName's backups.
// Backing up and pruning would otherwise delete the tree being staged.
func (m *Manager) rejectBackupSource(baseDir string, pluginName string, source string) error {
	backups, err := findBackups(m.sys, baseDir, pluginName)
	if err != nil {
		return err
	}
	for _, backup := range backups {
		if overlaps(source, backup) {
			return fmt.Errorf(messages.PluginsSourceIsBackupFmt, source, backup)
		}
	}
	return nil
}

func absClean(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
