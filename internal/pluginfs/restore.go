package pluginfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/conn-castle/plugin-stage/internal/messages"
)

// Restore replaces the canonical directory of pluginName with its most recent
// backup. It returns false, and touches nothing, when no backup exists.
func (m *Manager) Restore(ctx context.Context, baseDir string, pluginName string) (Descriptor, bool, error) {
	if err := ValidatePluginName(pluginName); err != nil {
		return Descriptor{}, false, err
	}
	var (
		desc     Descriptor
		restored bool
	)
	err := m.guarded(baseDir, pluginName, func() error {
		var err error
		desc, restored, err = m.restore(ctx, baseDir, pluginName)
		return err
	})
	if err != nil {
		return Descriptor{}, false, err
	}
	return desc, restored, nil
}

func (m *Manager) restore(ctx context.Context, baseDir string, pluginName string) (Descriptor, bool, error) {
	backupPath, ok, err := MostRecentBackup(m.sys, baseDir, pluginName)
	if err != nil {
		return Descriptor{}, false, err
	}
	logger := m.log(ctx).With("plugin", pluginName)
	if !ok {
		logger.Debug(messages.PluginsLogRestoreNothing)
		return Descriptor{}, false, nil
	}

	canonicalPath := CanonicalPath(baseDir, pluginName)
	if _, err := m.sys.Lstat(canonicalPath); err == nil {
		if err := m.sys.RemoveAll(canonicalPath); err != nil {
			return Descriptor{}, false, fmt.Errorf(messages.PluginsFailedRemoveFmt, canonicalPath, err)
		}
		logger.Debug(messages.PluginsLogRestoreCanonicalGone, "path", canonicalPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Descriptor{}, false, fmt.Errorf(messages.PluginsFailedStatFmt, canonicalPath, err)
	}

	if err := m.sys.Rename(backupPath, canonicalPath); err != nil {
		return Descriptor{}, false, fmt.Errorf(messages.PluginsFailedRenameFmt, backupPath, canonicalPath, err)
	}

	meta, err := ReadMetadata(m.sys, canonicalPath)
	if err != nil {
		return Descriptor{}, false, &RestoreMetadataMissingError{Plugin: pluginName, Err: err}
	}
	logger.Info(messages.PluginsLogRestoreCompleted, "version", meta.Version, "from", backupPath)
	return Descriptor{
		Name:           meta.Name,
		Version:        meta.Version,
		SourcePath:     canonicalPath,
		IsLocalInstall: true,
	}, true, nil
}
