package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/plugin-stage/internal/testutil"
)

func TestRootVersionFlag(t *testing.T) {
	cmd := newRootCmd()
	cmd.Version = "v1.2.3"
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetArgs([]string{"--version"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "v1.2.3\n", out.String())
}

func TestRootExplicitConfigMustExist(t *testing.T) {
	newCLIEnv(t)
	_, _, err := runCLI(t, "--config", "missing.toml", "stage", "alpha", "1.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing config file")
}

func TestRootInvalidConfigFails(t *testing.T) {
	env := newCLIEnv(t)
	writeConfig(t, env.dir, "[batch]\njobs = -1\n")
	_, _, err := runCLI(t, "stage", "alpha", "1.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch.jobs")
}

func TestRootConfigBaseDirIsRelativeToWorkingDir(t *testing.T) {
	env := newCLIEnv(t)
	writeConfig(t, env.dir, "base_dir = \"custom\"\n")
	source := filepath.Join(env.dir, "upload")
	testutil.WritePlugin(t, source, "alpha", "1.0.0")

	_, _, err := runCLI(t, "stage", "alpha", source)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(env.dir, "custom", "alpha"))
}

func TestRootBaseDirFlagOverridesConfig(t *testing.T) {
	env := newCLIEnv(t)
	writeConfig(t, env.dir, "base_dir = \"custom\"\n")
	source := filepath.Join(env.dir, "upload")
	testutil.WritePlugin(t, source, "alpha", "1.0.0")
	target := filepath.Join(t.TempDir(), "elsewhere")

	_, _, err := runCLI(t, "--base-dir", target, "stage", "alpha", source)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(target, "alpha"))
	assert.NoDirExists(t, filepath.Join(env.dir, "custom"))
}

func TestRootInvalidLogLevel(t *testing.T) {
	newCLIEnv(t)
	_, _, err := runCLI(t, "--log-level", "loud", "stage", "alpha", "1.0.0")
	assert.EqualError(t, err, `invalid log level "loud"`)
}

func TestRootLogsToStderr(t *testing.T) {
	env := newCLIEnv(t)
	source := filepath.Join(env.dir, "upload")
	testutil.WritePlugin(t, source, "alpha", "1.0.0")

	stdout, stderr, err := runCLI(t, "--log-level", "info", "--log-format", "json", "stage", "alpha", source)
	require.NoError(t, err)
	assert.NotContains(t, stdout, `"level"`)
	assert.Contains(t, stderr, `"msg":"staged plugin"`)
	assert.Contains(t, stderr, `"plugin":"alpha"`)
}

func TestRootGetwdError(t *testing.T) {
	newCLIEnv(t)
	getwd = func() (string, error) { return "", errors.New("getwd failed") }

	_, _, err := runCLI(t, "stage", "alpha", "1.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "getwd failed")
}

func TestRootFindsConfigInParentDirectory(t *testing.T) {
	env := newCLIEnv(t)
	writeConfig(t, env.dir, "base_dir = \"installed\"\n")
	sub := filepath.Join(env.dir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	stubGetwd(t, sub)
	source := filepath.Join(env.dir, "upload")
	testutil.WritePlugin(t, source, "alpha", "1.0.0")

	_, _, err := runCLI(t, "stage", "alpha", source)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(env.dir, "installed", "alpha"))
}

func TestRootBaseDirFlagIsRelativeToWorkingDir(t *testing.T) {
	env := newCLIEnv(t)
	writeConfig(t, env.dir, "")
	sub := filepath.Join(env.dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	stubGetwd(t, sub)
	source := filepath.Join(env.dir, "upload")
	testutil.WritePlugin(t, source, "alpha", "1.0.0")

	_, _, err := runCLI(t, "--base-dir", "here", "stage", "alpha", source)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(sub, "here", "alpha"))
}
