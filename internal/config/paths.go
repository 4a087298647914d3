package config

import (
	"path/filepath"

	"github.com/conn-castle/plugin-stage/internal/root"
)

// ManifestFile is the default batch install manifest.
const ManifestFile = "plugins.toml"

// Paths holds resolved paths for the files pstage reads from a working directory.
type Paths struct {
	Root         string
	ConfigPath   string
	ManifestPath string
}

// DefaultPaths returns the default file paths for a working directory.
func DefaultPaths(dir string) Paths {
	return Paths{
		Root:         dir,
		ConfigPath:   filepath.Join(dir, root.ConfigFile),
		ManifestPath: filepath.Join(dir, ManifestFile),
	}
}
