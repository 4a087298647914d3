package pluginfs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/plugin-stage/internal/testutil"
)

func TestReadMetadata(t *testing.T) {
	t.Run("primary file", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WritePlugin(t, dir, "adapt-hotgrid", "4.3.5")

		meta, err := ReadMetadata(RealSystem{}, dir)
		require.NoError(t, err)
		assert.Equal(t, Metadata{Name: "adapt-hotgrid", Version: "4.3.5"}, meta)
	})

	t.Run("fallback file only", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteBowerPlugin(t, dir, "adapt-hotgrid", "4.3.4")

		meta, err := ReadMetadata(RealSystem{}, dir)
		require.NoError(t, err)
		assert.Equal(t, Metadata{Name: "adapt-hotgrid", Version: "4.3.4"}, meta)

		path, err := MetadataPath(RealSystem{}, dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, FallbackMetadataFile), path)
	})

	t.Run("primary wins over fallback", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WritePlugin(t, dir, "a", "2.0.0")
		testutil.WriteBowerPlugin(t, dir, "b", "1.0.0")

		meta, err := ReadMetadata(RealSystem{}, dir)
		require.NoError(t, err)
		assert.Equal(t, "a", meta.Name)
		assert.Equal(t, "2.0.0", meta.Version)
	})

	t.Run("malformed primary falls back", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteFile(t, dir, PrimaryMetadataFile, "{not json")
		testutil.WriteBowerPlugin(t, dir, "fallback", "0.0.1")

		meta, err := ReadMetadata(RealSystem{}, dir)
		require.NoError(t, err)
		assert.Equal(t, "fallback", meta.Name)
	})

	t.Run("primary missing version falls back", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteFile(t, dir, PrimaryMetadataFile, `{"name":"x"}`)
		testutil.WriteBowerPlugin(t, dir, "x", "1.0.0")

		meta, err := ReadMetadata(RealSystem{}, dir)
		require.NoError(t, err)
		assert.Equal(t, "1.0.0", meta.Version)
	})

	t.Run("neither file", func(t *testing.T) {
		dir := t.TempDir()

		_, err := ReadMetadata(RealSystem{}, dir)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMetadataUnreadable))
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assert.Contains(t, err.Error(), dir)

		var unreadable *MetadataUnreadableError
		require.ErrorAs(t, err, &unreadable)
		assert.Equal(t, dir, unreadable.Dir)
		assert.Len(t, unreadable.Causes, 2)
	})

	t.Run("both invalid", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteFile(t, dir, PrimaryMetadataFile, `{"name":"","version":"1.0.0"}`)
		testutil.WriteFile(t, dir, FallbackMetadataFile, `[]`)

		_, err := ReadMetadata(RealSystem{}, dir)
		assert.ErrorIs(t, err, ErrMetadataUnreadable)
	})

	t.Run("nil system", func(t *testing.T) {
		_, err := ReadMetadata(nil, t.TempDir())
		assert.EqualError(t, err, "plugin filesystem system is required")
	})
}
