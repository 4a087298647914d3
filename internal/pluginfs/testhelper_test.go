package pluginfs

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/conn-castle/plugin-stage/internal/logging"
)

// faultSystem injects deterministic errors per path on top of a base System
// and records every call it receives.
type faultSystem struct {
	System
	mu         sync.Mutex
	calls      []string
	readDirErr map[string]error
	removeErrs map[string]error
	renameErrs map[string]error
	copyErrs   map[string]error
	mkdirErrs  map[string]error
}

func newFaultSystem(base System) *faultSystem {
	return &faultSystem{
		System:     base,
		readDirErr: map[string]error{},
		removeErrs: map[string]error{},
		renameErrs: map[string]error{},
		copyErrs:   map[string]error{},
		mkdirErrs:  map[string]error{},
	}
}

func normalizePath(path string) string {
	return filepath.Clean(path)
}

func (f *faultSystem) record(op string, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op+" "+path)
}

func (f *faultSystem) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *faultSystem) Stat(name string) (os.FileInfo, error) {
	f.record("stat", name)
	return f.System.Stat(name)
}

func (f *faultSystem) Lstat(name string) (os.FileInfo, error) {
	f.record("lstat", name)
	return f.System.Lstat(name)
}

func (f *faultSystem) ReadFile(name string) ([]byte, error) {
	f.record("read", name)
	return f.System.ReadFile(name)
}

func (f *faultSystem) ReadDir(name string) ([]os.DirEntry, error) {
	f.record("readdir", name)
	if err, ok := f.readDirErr[normalizePath(name)]; ok {
		return nil, err
	}
	return f.System.ReadDir(name)
}

func (f *faultSystem) MkdirAll(path string, perm os.FileMode) error {
	f.record("mkdir", path)
	if err, ok := f.mkdirErrs[normalizePath(path)]; ok {
		return err
	}
	return f.System.MkdirAll(path, perm)
}

func (f *faultSystem) RemoveAll(path string) error {
	f.record("remove", path)
	if err, ok := f.removeErrs[normalizePath(path)]; ok {
		return err
	}
	return f.System.RemoveAll(path)
}

func (f *faultSystem) Rename(oldpath string, newpath string) error {
	f.record("rename", oldpath)
	if err, ok := f.renameErrs[normalizePath(oldpath)]; ok {
		return err
	}
	return f.System.Rename(oldpath, newpath)
}

func (f *faultSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	f.record("walk", root)
	return f.System.WalkDir(root, fn)
}

func (f *faultSystem) CopyFile(src string, dst string, perm os.FileMode) error {
	f.record("copy", src)
	if err, ok := f.copyErrs[normalizePath(src)]; ok {
		return err
	}
	return f.System.CopyFile(src, dst, perm)
}

// newTestManager returns a Manager with a fixed clock and a discarded log.
func newTestManager(t *testing.T, sys System) *Manager {
	t.Helper()
	m, err := NewManager(Options{
		System: sys,
		Logger: logging.Discard(),
		Now:    func() time.Time { return time.UnixMilli(1700000000000) },
	})
	require.NoError(t, err)
	return m
}

// recordingHandler captures log records for assertions.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *recordingHandler) WithGroup(_ string) slog.Handler { return h }

func (h *recordingHandler) messages(level slog.Level) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, r := range h.records {
		if r.Level == level {
			out = append(out, r.Message)
		}
	}
	return out
}
