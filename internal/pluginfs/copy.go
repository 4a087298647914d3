package pluginfs

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/conn-castle/plugin-stage/internal/messages"
)

const stagingInfix = ".staging-"

// IsStagingDir reports whether name is a staging directory created while
// moving a plugin into place. Leftovers mean a stage was interrupted.
func IsStagingDir(name string) bool {
	return strings.HasPrefix(name, ".") && strings.Contains(name, stagingInfix)
}

// moveDir copies source into a hidden staging sibling of target, renames it
// into place, and then removes source. target must not exist.
func (m *Manager) moveDir(logger *slog.Logger, source string, target string) error {
	parent := filepath.Dir(target)
	if err := m.sys.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf(messages.PluginsFailedCreateDirFmt, parent, err)
	}
	staging := filepath.Join(parent, "."+filepath.Base(target)+stagingInfix+m.newID())
	if err := m.copyTree(source, staging); err != nil {
		m.cleanupStaging(logger, staging)
		return fmt.Errorf(messages.PluginsFailedCopyFmt, source, target, err)
	}
	if err := m.sys.Rename(staging, target); err != nil {
		m.cleanupStaging(logger, staging)
		return fmt.Errorf(messages.PluginsFailedRenameFmt, staging, target, err)
	}
	if err := m.sys.RemoveAll(source); err != nil {
		return fmt.Errorf(messages.PluginsFailedRemoveFmt, source, err)
	}
	return nil
}

func (m *Manager) cleanupStaging(logger *slog.Logger, staging string) {
	if err := m.sys.RemoveAll(staging); err != nil {
		logger.Warn(messages.PluginsLogStageSourceCleanupWarn, "path", staging, "error", err)
	}
}

// copyTree recreates the tree at src under dst, keeping permissions and symlinks.
func (m *Manager) copyTree(src string, dst string) error {
	return m.sys.WalkDir(src, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)
		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf(messages.PluginsFailedStatFmt, path, err)
		}
		mode := info.Mode()
		switch {
		case mode.IsDir():
			if err := m.sys.MkdirAll(out, mode.Perm()|0o700); err != nil {
				return fmt.Errorf(messages.PluginsFailedCreateDirFmt, out, err)
			}
		case mode.IsRegular():
			if err := m.sys.CopyFile(path, out, mode.Perm()); err != nil {
				return fmt.Errorf(messages.PluginsFailedWriteFmt, out, err)
			}
		case mode&fs.ModeSymlink != 0:
			link, err := m.sys.Readlink(path)
			if err != nil {
				return fmt.Errorf(messages.PluginsFailedReadFmt, path, err)
			}
			if err := m.sys.Symlink(link, out); err != nil {
				return fmt.Errorf(messages.PluginsFailedWriteFmt, out, err)
			}
		default:
			return fmt.Errorf(messages.PluginsUnsupportedEntryFmt, path, mode.String())
		}
		return nil
	})
}
