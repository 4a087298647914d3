package doctor

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/conn-castle/plugin-stage/internal/config"
	"github.com/conn-castle/plugin-stage/internal/messages"
	"github.com/conn-castle/plugin-stage/internal/pluginfs"
)

var loadConfigFunc = config.LoadConfig

// CheckConfig verifies that the config at path loads. It returns the loaded
// config, or nil when loading failed.
func CheckConfig(path string, optional bool) ([]Result, *config.Config) {
	cfg, err := loadConfigFunc(path, optional)
	if err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameConfig,
			Message:        fmt.Sprintf(messages.DoctorConfigLoadFailedFmt, err),
			Recommendation: messages.DoctorConfigLoadRecommend,
		}}, nil
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameConfig,
		Message:   fmt.Sprintf(messages.DoctorConfigLoadedFmt, path),
	}}, cfg
}

// CheckBaseDir verifies that baseDir is a directory. A missing base directory
// only warns; the first stage creates it.
func CheckBaseDir(sys pluginfs.System, baseDir string) []Result {
	info, err := sys.Stat(baseDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return []Result{{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameBaseDir,
			Message:        fmt.Sprintf(messages.DoctorBaseDirMissingFmt, baseDir),
			Recommendation: messages.DoctorBaseDirMissingRecommend,
		}}
	case err != nil:
		return []Result{{
			Status:    StatusFail,
			CheckName: messages.DoctorCheckNameBaseDir,
			Message:   fmt.Errorf(messages.PluginsFailedStatFmt, baseDir, err).Error(),
		}}
	case !info.IsDir():
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameBaseDir,
			Message:        fmt.Sprintf(messages.DoctorPathNotDirFmt, baseDir),
			Recommendation: messages.DoctorPathNotDirRecommend,
		}}
	}
	return []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameBaseDir,
		Message:   fmt.Sprintf(messages.DoctorDirExistsFmt, baseDir),
	}}
}

// CheckPlugins reports every installed plugin, plugins with more than one
// backup, backups whose plugin is not installed, and directories that are
// neither.
func CheckPlugins(sys pluginfs.System, baseDir string) []Result {
	dirs, err := listDirs(sys, baseDir)
	if err != nil {
		return []Result{{Status: StatusFail, CheckName: messages.DoctorCheckNamePlugins, Message: err.Error()}}
	}

	metas := make(map[string]pluginfs.Metadata, len(dirs))
	installed := map[string]bool{}
	for _, dir := range dirs {
		meta, err := pluginfs.ReadMetadata(sys, filepath.Join(baseDir, dir))
		if err != nil {
			continue
		}
		metas[dir] = meta
		if meta.Name == dir {
			installed[dir] = true
		}
	}

	var results []Result
	orphans := map[string]int{}
	for _, dir := range dirs {
		if installed[dir] {
			results = append(results, checkInstalled(sys, baseDir, dir, metas[dir].Version)...)
			continue
		}
		if owner, ok := backupOwner(dir, metas, installed); ok {
			if !installed[owner] {
				orphans[owner]++
			}
			continue
		}
		if meta, ok := metas[dir]; ok {
			results = append(results, Result{
				Status:         StatusWarn,
				CheckName:      messages.DoctorCheckNamePlugins,
				Message:        fmt.Sprintf(messages.DoctorPluginNameMismatchFmt, dir, meta.Name),
				Recommendation: messages.DoctorPluginNameMismatchRecommend,
			})
			continue
		}
		results = append(results, Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNamePlugins,
			Message:        fmt.Sprintf(messages.DoctorPluginUnreadableFmt, dir),
			Recommendation: messages.DoctorPluginUnreadableRecommend,
		})
	}

	owners := make([]string, 0, len(orphans))
	for owner := range orphans {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	for _, owner := range owners {
		results = append(results, Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNamePlugins,
			Message:        fmt.Sprintf(messages.DoctorPluginOrphanBackupsFmt, owner, orphans[owner]),
			Recommendation: fmt.Sprintf(messages.DoctorPluginOrphanBackupsRecommendFmt, owner),
		})
	}
	return results
}

func checkInstalled(sys pluginfs.System, baseDir string, name string, version string) []Result {
	results := []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNamePlugins,
		Message:   fmt.Sprintf(messages.DoctorPluginInstalledFmt, name, version),
	}}
	backups, err := pluginfs.ListBackups(sys, baseDir, name)
	if err != nil {
		return append(results, Result{Status: StatusFail, CheckName: messages.DoctorCheckNamePlugins, Message: err.Error()})
	}
	if len(backups) > 1 {
		results = append(results, Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNamePlugins,
			Message:        fmt.Sprintf(messages.DoctorPluginBackupsFmt, name, len(backups)),
			Recommendation: fmt.Sprintf(messages.DoctorPluginBackupsRecommendFmt, name),
		})
	}
	return results
}

// backupOwner returns the plugin a <name>-v<token> directory backs up. The
// owner is the declared metadata name, or an installed plugin when the backup
// metadata is unreadable.
func backupOwner(dir string, metas map[string]pluginfs.Metadata, installed map[string]bool) (string, bool) {
	if meta, ok := metas[dir]; ok && strings.HasPrefix(dir, meta.Name+"-v") {
		return meta.Name, true
	}
	for name := range installed {
		if strings.HasPrefix(dir, name+"-v") {
			return name, true
		}
	}
	return "", false
}

// CheckStaging reports staging directories left by an interrupted stage.
func CheckStaging(sys pluginfs.System, baseDir string) []Result {
	entries, err := sys.ReadDir(baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return []Result{{Status: StatusFail, CheckName: messages.DoctorCheckNameStaging, Message: fmt.Errorf(messages.PluginsFailedReadDirFmt, baseDir, err).Error()}}
	}
	var leftovers []string
	for _, entry := range entries {
		if entry.IsDir() && pluginfs.IsStagingDir(entry.Name()) {
			leftovers = append(leftovers, entry.Name())
		}
	}
	if len(leftovers) == 0 {
		return []Result{{Status: StatusOK, CheckName: messages.DoctorCheckNameStaging, Message: messages.DoctorStagingClean}}
	}
	results := make([]Result, 0, len(leftovers))
	for _, name := range leftovers {
		results = append(results, Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameStaging,
			Message:        fmt.Sprintf(messages.DoctorStagingLeftoverFmt, filepath.Join(baseDir, name)),
			Recommendation: messages.DoctorStagingLeftoverRecommend,
		})
	}
	return results
}

// listDirs returns the non-hidden directory names in baseDir, sorted.
func listDirs(sys pluginfs.System, baseDir string) ([]string, error) {
	entries, err := sys.ReadDir(baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf(messages.PluginsFailedReadDirFmt, baseDir, err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			dirs = append(dirs, entry.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
