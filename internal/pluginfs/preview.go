package pluginfs

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/plugin-stage/internal/messages"
)

const (
	// DefaultDiffMaxLines is the default maximum number of diff lines shown in a restore preview.
	DefaultDiffMaxLines = 40
	// DiffLineCapFlagName is the CLI flag name used to raise the preview line cap.
	DiffLineCapFlagName = "--diff-lines"
)

// RestorePreview describes what Restore would change for one plugin.
type RestorePreview struct {
	Plugin         string `json:"plugin"`
	CurrentPath    string `json:"currentPath"`
	CurrentVersion string `json:"currentVersion,omitempty"`
	BackupPath     string `json:"backupPath"`
	BackupVersion  string `json:"backupVersion,omitempty"`
	UnifiedDiff    string `json:"unifiedDiff"`
	Truncated      bool   `json:"truncated"`
}

// PreviewRestore diffs the metadata of the current canonical directory against
// the backup Restore would pick. It reads only and returns false when pluginName
// has no backup.
func PreviewRestore(sys System, baseDir string, pluginName string, maxLines int) (RestorePreview, bool, error) {
	backupPath, ok, err := MostRecentBackup(sys, baseDir, pluginName)
	if err != nil || !ok {
		return RestorePreview{}, false, err
	}
	currentPath := CanonicalPath(baseDir, pluginName)
	preview := RestorePreview{
		Plugin:      pluginName,
		CurrentPath: currentPath,
		BackupPath:  backupPath,
	}

	fromName, fromContent, fromVersion := metadataSnapshot(sys, currentPath)
	toName, toContent, toVersion := metadataSnapshot(sys, backupPath)
	preview.CurrentVersion = fromVersion
	preview.BackupVersion = toVersion
	preview.UnifiedDiff, preview.Truncated = renderTruncatedUnifiedDiff(fromName, toName, fromContent, toContent, maxLines)
	return preview, true, nil
}

// metadataSnapshot returns a display name, content, and version for the
// metadata in dir. Unreadable metadata yields empty content.
func metadataSnapshot(sys System, dir string) (string, string, string) {
	meta, path, err := readMetadataFile(sys, dir)
	if err != nil {
		return filepath.Join(dir, PrimaryMetadataFile), "", ""
	}
	data, err := sys.ReadFile(path)
	if err != nil {
		return path, "", meta.Version
	}
	return path, normalizeNewlines(string(data)), meta.Version
}

func normalizeDiffMaxLines(value int) int {
	if value <= 0 {
		return DefaultDiffMaxLines
	}
	return value
}

func renderTruncatedUnifiedDiff(fromName string, toName string, fromContent string, toContent string, maxLines int) (string, bool) {
	limit := normalizeDiffMaxLines(maxLines)
	diff := udiff.Unified(fromName, toName, fromContent, toContent)
	lines := splitDiffLines(diff)
	if len(lines) <= limit {
		return ensureTrailingNewline(strings.Join(lines, "\n")), false
	}
	truncated := lines[:limit]
	truncated = append(truncated, fmt.Sprintf(messages.PluginsDiffPreviewTruncatedFmt, limit, DiffLineCapFlagName))
	return ensureTrailingNewline(strings.Join(truncated, "\n")), true
}

func splitDiffLines(content string) []string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

func ensureTrailingNewline(content string) string {
	if content == "" {
		return ""
	}
	if strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}

func normalizeNewlines(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content
}
