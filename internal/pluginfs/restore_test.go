package pluginfs

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/plugin-stage/internal/testutil"
)

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing to restore touches nothing", func(t *testing.T) {
		base := t.TempDir()
		testutil.WritePlugin(t, filepath.Join(base, "alpha"), "alpha", "2.0.0")
		before := testutil.ReadTree(t, base)
		fault := newFaultSystem(RealSystem{})
		m := newTestManager(t, fault)

		desc, ok, err := m.Restore(ctx, base, "alpha")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, Descriptor{}, desc)
		assert.Equal(t, before, testutil.ReadTree(t, base))
		for _, call := range fault.Calls() {
			assert.False(t, strings.HasPrefix(call, "remove") || strings.HasPrefix(call, "rename"), call)
		}
	})

	t.Run("replaces canonical with single backup", func(t *testing.T) {
		base := t.TempDir()
		testutil.WritePlugin(t, filepath.Join(base, "alpha"), "alpha", "2.0.0")
		testutil.WriteFile(t, filepath.Join(base, "alpha"), "broken.js", "new")
		writeBackups(t, base, "alpha", "1.0.0")
		m := newTestManager(t, RealSystem{})

		desc, ok, err := m.Restore(ctx, base, "alpha")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, Descriptor{
			Name:           "alpha",
			Version:        "1.0.0",
			SourcePath:     filepath.Join(base, "alpha"),
			IsLocalInstall: true,
		}, desc)
		assert.Equal(t, []string{"alpha"}, testutil.ListNames(t, base))
		assert.NotContains(t, testutil.ReadTree(t, filepath.Join(base, "alpha")), "broken.js")
	})

	t.Run("missing canonical is tolerated", func(t *testing.T) {
		base := t.TempDir()
		writeBackups(t, base, "alpha", "1.0.0")
		m := newTestManager(t, RealSystem{})

		desc, ok, err := m.Restore(ctx, base, "alpha")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "1.0.0", desc.Version)
		assert.DirExists(t, filepath.Join(base, "alpha"))
	})

	t.Run("picks the most recent of several", func(t *testing.T) {
		base := t.TempDir()
		writeBackups(t, base, "alpha", "1.0.0", "1.5.0")
		m := newTestManager(t, RealSystem{})

		desc, ok, err := m.Restore(ctx, base, "alpha")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "1.5.0", desc.Version)
		assert.DirExists(t, filepath.Join(base, "alpha-v1.0.0"))
	})

	t.Run("unreadable restored metadata is fatal", func(t *testing.T) {
		base := t.TempDir()
		testutil.WriteFile(t, filepath.Join(base, "alpha-vunknown-42"), "index.js", "x")
		m := newTestManager(t, RealSystem{})

		_, ok, err := m.Restore(ctx, base, "alpha")
		require.Error(t, err)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrRestoreMetadataMissing)
		assert.ErrorIs(t, err, ErrMetadataUnreadable)
		assert.Contains(t, err.Error(), "alpha")
		assert.DirExists(t, filepath.Join(base, "alpha"))
	})

	t.Run("canonical removal failure propagates", func(t *testing.T) {
		base := t.TempDir()
		canonical := filepath.Join(base, "alpha")
		testutil.WritePlugin(t, canonical, "alpha", "2.0.0")
		writeBackups(t, base, "alpha", "1.0.0")
		fault := newFaultSystem(RealSystem{})
		fault.removeErrs[normalizePath(canonical)] = errors.New("busy")
		m := newTestManager(t, fault)

		_, _, err := m.Restore(ctx, base, "alpha")
		require.Error(t, err)
		assert.Contains(t, err.Error(), canonical)
		assert.DirExists(t, filepath.Join(base, "alpha-v1.0.0"))
	})

	t.Run("runs under the guard", func(t *testing.T) {
		base := t.TempDir()
		writeBackups(t, base, "alpha", "1.0.0")
		var guarded []string
		m, err := NewManager(Options{
			System: RealSystem{},
			Guard: func(baseDir string, pluginName string, fn func() error) error {
				guarded = append(guarded, pluginName)
				return fn()
			},
		})
		require.NoError(t, err)

		_, ok, err := m.Restore(ctx, base, "alpha")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"alpha"}, guarded)
	})

	t.Run("guard failure is returned", func(t *testing.T) {
		m, err := NewManager(Options{
			System: RealSystem{},
			Guard: func(string, string, func() error) error {
				return errors.New("locked")
			},
		})
		require.NoError(t, err)

		_, _, err = m.Restore(ctx, t.TempDir(), "alpha")
		assert.EqualError(t, err, "locked")
	})
}
