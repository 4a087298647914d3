package testutil

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// WritePlugin creates dir with a package.json declaring name and version.
// t is the active test; dir is the plugin directory to create.
func WritePlugin(t *testing.T, dir string, name string, version string) {
	t.Helper()
	writeMetadata(t, dir, "package.json", name, version)
}

// WriteBowerPlugin creates dir with only a bower.json declaring name and version.
// t is the active test; dir is the plugin directory to create.
func WriteBowerPlugin(t *testing.T, dir string, name string, version string) {
	t.Helper()
	writeMetadata(t, dir, "bower.json", name, version)
}

// WriteFile writes content to dir/rel, creating parent directories.
// t is the active test; rel is a slash-separated path relative to dir.
func WriteFile(t *testing.T, dir string, rel string, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadTree returns every regular file under dir keyed by slash-separated relative path.
// Symlinks are reported with a "-> target" value.
func ReadTree(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			out[rel] = "-> " + target
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("read tree %s: %v", dir, err)
	}
	return out
}

// ListNames returns the entry names of dir in directory order.
func ListNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

// WithWorkingDir runs fn with dir as the current working directory and restores the previous directory.
// t is the active test; dir is the temporary working directory for fn.
func WithWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	}()
	fn()
}

func writeMetadata(t *testing.T, dir string, file string, name string, version string) {
	t.Helper()
	data, err := json.MarshalIndent(map[string]string{"name": name, "version": version}, "", "  ")
	if err != nil {
		t.Fatalf("marshal metadata: %v", err)
	}
	WriteFile(t, dir, file, string(data)+"\n")
}
