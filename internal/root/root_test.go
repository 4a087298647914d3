package root

import (
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"
)

func writeConfigFile(t *testing.T, dir string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(""), 0o644); err != nil {
		t.Fatalf("write %s: %v", ConfigFile, err)
	}
}

func TestFindProjectRootFound(t *testing.T) {
	root := t.TempDir()
	writeConfigFile(t, root)
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir sub: %v", err)
	}

	got, found, err := FindProjectRoot(sub)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	if !found {
		t.Fatalf("expected root to be found")
	}
	if got != root {
		t.Fatalf("expected root %s, got %s", root, got)
	}
}

func TestFindProjectRootPrefersNearest(t *testing.T) {
	outer := t.TempDir()
	writeConfigFile(t, outer)
	inner := filepath.Join(outer, "site")
	if err := os.MkdirAll(inner, 0o755); err != nil {
		t.Fatalf("mkdir inner: %v", err)
	}
	writeConfigFile(t, inner)

	got, found, err := FindProjectRoot(inner)
	if err != nil || !found {
		t.Fatalf("FindProjectRoot = %q, %v, %v", got, found, err)
	}
	if got != inner {
		t.Fatalf("expected root %s, got %s", inner, got)
	}
}

func TestFindProjectRootMissing(t *testing.T) {
	root := t.TempDir()
	got, found, err := FindProjectRoot(root)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	if found {
		t.Fatalf("expected not found, got %s", got)
	}
}

func TestFindProjectRootDirectoryConfigErrors(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ConfigFile), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, _, err := FindProjectRoot(root); err == nil {
		t.Fatalf("expected error for directory %s", ConfigFile)
	}
}

func TestFindProjectRootSpecialFileErrors(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("mkfifo is not supported on windows")
	}

	root := t.TempDir()
	if err := syscall.Mkfifo(filepath.Join(root, ConfigFile), 0o644); err != nil {
		t.Fatalf("mkfifo: %v", err)
	}
	if _, _, err := FindProjectRoot(root); err == nil {
		t.Fatal("expected error when config is not a regular file")
	}
}

func TestFindProjectRootOrStartFallsBackToStart(t *testing.T) {
	root := t.TempDir()
	got, err := FindProjectRootOrStart(root)
	if err != nil {
		t.Fatalf("FindProjectRootOrStart error: %v", err)
	}
	if got != root {
		t.Fatalf("expected root %s, got %s", root, got)
	}
}

func TestFindRootsRequireStartPath(t *testing.T) {
	if _, _, err := FindProjectRoot(""); err == nil {
		t.Fatal("expected FindProjectRoot to reject empty start")
	}
	if _, err := FindProjectRootOrStart(""); err == nil {
		t.Fatal("expected FindProjectRootOrStart to reject empty start")
	}
}
