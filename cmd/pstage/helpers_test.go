package main

// NOTE: Tests in this package mutate package-level globals (getwd, isTerminal,
// newPromptUI, notifyContext). Do not use t.Parallel() at the top level.
// Each test must restore globals via t.Cleanup().

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/conn-castle/plugin-stage/internal/prompt"
)

// cliEnv is a working directory with an empty plugin base directory under it.
type cliEnv struct {
	dir  string
	base string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	stubGetwd(t, dir)
	stubTerminal(t, false)
	return cliEnv{dir: dir, base: filepath.Join(dir, "plugins")}
}

func stubGetwd(t *testing.T, dir string) {
	t.Helper()
	orig := getwd
	getwd = func() (string, error) { return dir, nil }
	t.Cleanup(func() { getwd = orig })
}

func stubTerminal(t *testing.T, interactive bool) {
	t.Helper()
	orig := isTerminal
	isTerminal = func() bool { return interactive }
	t.Cleanup(func() { isTerminal = orig })
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, "", args...)
}

func runCLIWithInput(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(bytes.NewBufferString(input))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, dir string, content string) string {
	t.Helper()
	path := filepath.Join(dir, "pstage.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// fakeUI answers Confirm with a fixed value.
type fakeUI struct {
	answer bool
	err    error
	titles []string
}

func (f *fakeUI) Confirm(title string, _ string, value *bool) error {
	f.titles = append(f.titles, title)
	if f.err != nil {
		return f.err
	}
	*value = f.answer
	return nil
}

func stubUI(t *testing.T, ui prompt.UI) {
	t.Helper()
	orig := newPromptUI
	newPromptUI = func() prompt.UI { return ui }
	t.Cleanup(func() { newPromptUI = orig })
}
