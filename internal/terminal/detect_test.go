package terminal

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInteractiveRequiresStdinAndStdout(t *testing.T) {
	orig := isTerminalFn
	t.Cleanup(func() { isTerminalFn = orig })

	stdin := int(os.Stdin.Fd())
	isTerminalFn = func(fd int) bool { return fd == stdin }
	assert.False(t, IsInteractive())

	isTerminalFn = func(int) bool { return true }
	assert.True(t, IsInteractive())
}

func TestIsTerminalNilFile(t *testing.T) {
	assert.False(t, IsTerminal(nil))
}

func TestIsTerminalRegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	assert.False(t, IsTerminal(f))
}
