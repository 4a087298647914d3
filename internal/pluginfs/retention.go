package pluginfs

import (
	"context"
	"fmt"

	"github.com/conn-castle/plugin-stage/internal/messages"
)

// PruneBackups keeps only the most recent backup of pluginName under baseDir
// and deletes the rest. The first deletion failure stops the prune and is
// returned with the path that could not be removed.
func (m *Manager) PruneBackups(ctx context.Context, baseDir string, pluginName string) error {
	paths, err := findBackups(m.sys, baseDir, pluginName)
	if err != nil {
		return err
	}
	if len(paths) <= 1 {
		return nil
	}
	keep, _ := mostRecent(pluginName, paths)
	logger := m.log(ctx).With("plugin", pluginName)
	for _, path := range paths {
		if path == keep {
			continue
		}
		if err := m.sys.RemoveAll(path); err != nil {
			return fmt.Errorf(messages.PluginsFailedRemoveFmt, path, err)
		}
		logger.Info(messages.PluginsLogBackupPruned, "path", path)
	}
	return nil
}
