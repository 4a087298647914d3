package pluginfs

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/plugin-stage/internal/testutil"
)

func TestBackupExisting(t *testing.T) {
	ctx := context.Background()

	t.Run("missing canonical is a no-op", func(t *testing.T) {
		base := t.TempDir()
		m := newTestManager(t, RealSystem{})

		path, ok, err := m.BackupExisting(ctx, filepath.Join(base, "alpha"), "alpha")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, path)
		assert.Empty(t, testutil.ListNames(t, base))
	})

	t.Run("renames canonical to version backup", func(t *testing.T) {
		base := t.TempDir()
		canonical := filepath.Join(base, "alpha")
		testutil.WritePlugin(t, canonical, "alpha", "1.0.0")
		testutil.WriteFile(t, canonical, "lib/index.js", "v1")
		m := newTestManager(t, RealSystem{})

		path, ok, err := m.BackupExisting(ctx, canonical, "alpha")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, filepath.Join(base, "alpha-v1.0.0"), path)
		assert.Equal(t, []string{"alpha-v1.0.0"}, testutil.ListNames(t, base))
		assert.Equal(t, "v1", testutil.ReadTree(t, path)["lib/index.js"])
	})

	t.Run("unreadable metadata uses fallback token", func(t *testing.T) {
		base := t.TempDir()
		canonical := filepath.Join(base, "alpha")
		testutil.WriteFile(t, canonical, "index.js", "corrupt install")
		handler := &recordingHandler{}
		m, err := NewManager(Options{
			System: RealSystem{},
			Logger: slog.New(handler),
			Now:    func() time.Time { return time.UnixMilli(1234) },
		})
		require.NoError(t, err)

		path, ok, err := m.BackupExisting(ctx, canonical, "alpha")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, filepath.Join(base, "alpha-vunknown-1234"), path)
		assert.Equal(t, []string{"backed up plugin"}, handler.messages(slog.LevelInfo))
		assert.Len(t, handler.messages(slog.LevelWarn), 1)
	})

	t.Run("version that is not a path component uses fallback token", func(t *testing.T) {
		base := t.TempDir()
		canonical := filepath.Join(base, "alpha")
		testutil.WritePlugin(t, canonical, "alpha", "../../escape")
		m := newTestManager(t, RealSystem{})

		path, ok, err := m.BackupExisting(ctx, canonical, "alpha")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, filepath.Join(base, "alpha-v"+FallbackToken(1700000000000)), path)
	})

	t.Run("stale backup path is replaced", func(t *testing.T) {
		base := t.TempDir()
		canonical := filepath.Join(base, "alpha")
		testutil.WritePlugin(t, canonical, "alpha", "1.0.0")
		testutil.WriteFile(t, canonical, "fresh.txt", "fresh")
		stale := filepath.Join(base, "alpha-v1.0.0")
		testutil.WriteFile(t, stale, "stale.txt", "stale")
		testutil.WriteFile(t, stale, "deep/nested.txt", "stale")
		m := newTestManager(t, RealSystem{})

		path, ok, err := m.BackupExisting(ctx, canonical, "alpha")
		require.NoError(t, err)
		assert.True(t, ok)
		tree := testutil.ReadTree(t, path)
		assert.Equal(t, "fresh", tree["fresh.txt"])
		assert.NotContains(t, tree, "stale.txt")
		assert.NotContains(t, tree, "deep/nested.txt")
		_, err = os.Stat(canonical)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("stale removal failure propagates with path", func(t *testing.T) {
		base := t.TempDir()
		canonical := filepath.Join(base, "alpha")
		testutil.WritePlugin(t, canonical, "alpha", "1.0.0")
		stale := filepath.Join(base, "alpha-v1.0.0")
		testutil.WriteFile(t, stale, "stale.txt", "stale")
		fault := newFaultSystem(RealSystem{})
		fault.removeErrs[normalizePath(stale)] = errors.New("remove boom")
		m := newTestManager(t, fault)

		_, _, err := m.BackupExisting(ctx, canonical, "alpha")
		require.Error(t, err)
		assert.Contains(t, err.Error(), stale)
		assert.Contains(t, err.Error(), "remove boom")
		assert.DirExists(t, canonical)
	})

	t.Run("rename failure propagates", func(t *testing.T) {
		base := t.TempDir()
		canonical := filepath.Join(base, "alpha")
		testutil.WritePlugin(t, canonical, "alpha", "1.0.0")
		fault := newFaultSystem(RealSystem{})
		fault.renameErrs[normalizePath(canonical)] = errors.New("rename boom")
		m := newTestManager(t, fault)

		_, ok, err := m.BackupExisting(ctx, canonical, "alpha")
		require.Error(t, err)
		assert.False(t, ok)
		assert.Contains(t, err.Error(), "rename boom")
	})

	t.Run("input validation", func(t *testing.T) {
		m := newTestManager(t, RealSystem{})

		_, _, err := m.BackupExisting(ctx, "", "alpha")
		assert.EqualError(t, err, "canonical plugin path is required")
		_, _, err = m.BackupExisting(ctx, t.TempDir(), "a/b")
		assert.ErrorContains(t, err, "single path component")
	})
}

func TestFallbackToken(t *testing.T) {
	assert.Equal(t, "unknown-1700000000000", FallbackToken(1700000000000))
}
