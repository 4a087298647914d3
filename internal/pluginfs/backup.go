package pluginfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/conn-castle/plugin-stage/internal/messages"
)

const (
	backupInfix        = "-v"
	unknownTokenPrefix = "unknown-"
)

// BackupExisting moves canonicalPath aside to its version-suffixed backup path.
// It returns false when there is no canonical directory to back up. Unreadable
// metadata never fails the backup; an unknown-<unix-millis> token is used instead.
func (m *Manager) BackupExisting(ctx context.Context, canonicalPath string, pluginName string) (string, bool, error) {
	if strings.TrimSpace(canonicalPath) == "" {
		return "", false, errors.New(messages.PluginsCanonicalRequired)
	}
	if err := ValidatePluginName(pluginName); err != nil {
		return "", false, err
	}
	logger := m.log(ctx).With("plugin", pluginName)

	if _, err := m.sys.Lstat(canonicalPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf(messages.PluginsFailedStatFmt, canonicalPath, err)
	}

	token := m.versionToken(logger, canonicalPath)
	backupPath := BackupPath(canonicalPath, token)

	// A leftover from an interrupted run would make the rename fail on a non-empty target.
	if _, err := m.sys.Lstat(backupPath); err == nil {
		if err := m.sys.RemoveAll(backupPath); err != nil {
			return "", false, fmt.Errorf(messages.PluginsFailedRemoveFmt, backupPath, err)
		}
		logger.Debug(messages.PluginsLogBackupStaleRemoved, "path", backupPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", false, fmt.Errorf(messages.PluginsFailedStatFmt, backupPath, err)
	}

	if err := m.sys.Rename(canonicalPath, backupPath); err != nil {
		return "", false, fmt.Errorf(messages.PluginsFailedRenameFmt, canonicalPath, backupPath, err)
	}
	logger.Info(messages.PluginsLogBackupCreated, "version", token, "path", backupPath)
	return backupPath, true, nil
}

// versionToken returns the version read from dir, or a fallback token when the
// metadata is unreadable or its version cannot be part of a directory name.
func (m *Manager) versionToken(logger *slog.Logger, dir string) string {
	meta, err := ReadMetadata(m.sys, dir)
	if err == nil && isPathComponent(meta.Version) {
		return meta.Version
	}
	token := FallbackToken(m.now().UnixMilli())
	if err == nil {
		err = fmt.Errorf(messages.PluginsVersionTokenInvalidFmt, meta.Version)
	}
	logger.Warn(messages.PluginsLogBackupUnknownVersion, "dir", dir, "token", token, "error", err)
	return token
}

// FallbackToken returns the backup token used when no version can be read.
func FallbackToken(unixMillis int64) string {
	return unknownTokenPrefix + strconv.FormatInt(unixMillis, 10)
}
