package pluginfs

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/conn-castle/plugin-stage/internal/messages"
)

// Backup is one backup directory of a plugin.
type Backup struct {
	Path  string `json:"path"`
	Token string `json:"token"`
}

// MostRecentBackup returns the backup of pluginName under baseDir that
// CompareBackups ranks highest. It returns false when there is none.
func MostRecentBackup(sys System, baseDir string, pluginName string) (string, bool, error) {
	paths, err := findBackups(sys, baseDir, pluginName)
	if err != nil {
		return "", false, err
	}
	best, ok := mostRecent(pluginName, paths)
	return best, ok, nil
}

// ListBackups returns every backup of pluginName, most recent first.
func ListBackups(sys System, baseDir string, pluginName string) ([]Backup, error) {
	paths, err := findBackups(sys, baseDir, pluginName)
	if err != nil {
		return nil, err
	}
	cmp := newBackupComparer(pluginName)
	sort.SliceStable(paths, func(i, j int) bool {
		return cmp.compare(paths[i], paths[j]) > 0
	})
	out := make([]Backup, 0, len(paths))
	for _, path := range paths {
		out = append(out, Backup{Path: path, Token: backupToken(pluginName, path)})
	}
	return out, nil
}

// CompareBackups orders two backup paths of pluginName. It returns a positive
// number when a is more recent than b, negative when b is, and zero otherwise.
//
// Tokens are compared by semver precedence only when both are valid semantic
// versions. If either is not, the full paths are compared with locale-aware
// collation instead, so a release and an unknown-<millis> token never mix
// orderings.
func CompareBackups(pluginName string, a string, b string) int {
	return newBackupComparer(pluginName).compare(a, b)
}

type backupComparer struct {
	pluginName string
	collator   *collate.Collator
}

func newBackupComparer(pluginName string) *backupComparer {
	return &backupComparer{
		pluginName: pluginName,
		collator:   collate.New(language.Und),
	}
}

func (c *backupComparer) compare(a string, b string) int {
	va, okA := parseSemver(backupToken(c.pluginName, a))
	vb, okB := parseSemver(backupToken(c.pluginName, b))
	if okA && okB {
		return va.Compare(vb)
	}
	return c.collator.CompareString(a, b)
}

// mostRecent scans paths in order and keeps a candidate only when it ranks
// strictly higher than the current pick.
func mostRecent(pluginName string, paths []string) (string, bool) {
	if len(paths) == 0 {
		return "", false
	}
	cmp := newBackupComparer(pluginName)
	best := paths[0]
	for _, candidate := range paths[1:] {
		if cmp.compare(candidate, best) > 0 {
			best = candidate
		}
	}
	return best, true
}

// findBackups lists directories in baseDir named <pluginName>-v<token>, in
// directory listing order. A missing baseDir has no backups.
func findBackups(sys System, baseDir string, pluginName string) ([]string, error) {
	if sys == nil {
		return nil, errors.New(messages.PluginsSystemRequired)
	}
	if err := requireBaseDir(baseDir); err != nil {
		return nil, err
	}
	if err := ValidatePluginName(pluginName); err != nil {
		return nil, err
	}
	entries, err := sys.ReadDir(baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf(messages.PluginsFailedReadDirFmt, baseDir, err)
	}
	prefix := pluginName + backupInfix
	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		paths = append(paths, filepath.Join(baseDir, entry.Name()))
	}
	return paths, nil
}

// backupToken strips the <pluginName>-v prefix from a backup path's base name.
func backupToken(pluginName string, path string) string {
	return strings.TrimPrefix(filepath.Base(path), pluginName+backupInfix)
}

// parseSemver accepts strict semantic versions with an optional leading "v".
func parseSemver(token string) (*semver.Version, bool) {
	token = strings.TrimPrefix(strings.TrimSpace(token), "v")
	v, err := semver.StrictNewVersion(token)
	if err != nil {
		return nil, false
	}
	return v, true
}
