// Package root locates the project directory pstage runs against.
package root

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/plugin-stage/internal/messages"
)

// ConfigFile marks a project root.
const ConfigFile = "pstage.toml"

// FindProjectRoot walks up from start to the nearest directory holding
// ConfigFile. It returns false when no ancestor has one.
func FindProjectRoot(start string) (string, bool, error) {
	if strings.TrimSpace(start) == "" {
		return "", false, errors.New(messages.RootStartPathRequired)
	}
	dir := filepath.Clean(start)
	for {
		path := filepath.Join(dir, ConfigFile)
		info, err := os.Stat(path)
		switch {
		case err == nil:
			if !info.Mode().IsRegular() {
				return "", false, fmt.Errorf(messages.RootPathNotFileFmt, path)
			}
			return dir, true, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf(messages.RootStatFmt, path, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// FindProjectRootOrStart returns the nearest project root, or start itself
// when there is none.
func FindProjectRootOrStart(start string) (string, error) {
	dir, found, err := FindProjectRoot(start)
	if err != nil {
		return "", err
	}
	if !found {
		return filepath.Clean(start), nil
	}
	return dir, nil
}
