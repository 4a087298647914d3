// Package lock serializes work on one plugin across processes with advisory
// file locks kept next to the plugin directories.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/conn-castle/plugin-stage/internal/messages"
)

const (
	// DefaultTimeout bounds how long a Guard waits for a busy lock.
	DefaultTimeout = 30 * time.Second
	lockSuffix     = ".lock"
)

type fileLock struct {
	file *os.File
}

var lockFileFn = lockFile
var unlockFileFn = unlockFile
var flockFn = unix.Flock
var lockSleep = time.Sleep
var lockNow = time.Now

var lockPollEvery = 100 * time.Millisecond

// Locker hands out per-plugin locks.
type Locker struct {
	// Timeout bounds the wait for a busy lock. Zero uses DefaultTimeout.
	Timeout time.Duration
}

// PluginPath returns the lock file guarding pluginName under baseDir.
// The file is hidden and not a directory so it never looks like a plugin or backup.
func PluginPath(baseDir string, pluginName string) string {
	return filepath.Join(baseDir, "."+pluginName+lockSuffix)
}

// Guard runs fn while holding the lock for pluginName under baseDir.
// Its signature matches pluginfs.GuardFunc.
func (l Locker) Guard(baseDir string, pluginName string, fn func() error) error {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return fmt.Errorf(messages.LockCreateDirFmt, baseDir, err)
	}
	return withFileLock(PluginPath(baseDir, pluginName), l.timeout(), fn)
}

func (l Locker) timeout() time.Duration {
	if l.Timeout <= 0 {
		return DefaultTimeout
	}
	return l.Timeout
}

// withFileLock acquires a lock for path, runs fn, and releases the lock.
func withFileLock(path string, timeout time.Duration, fn func() error) error {
	lock, err := acquireFileLock(path, timeout)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.release()
	}()
	return fn()
}

// acquireFileLock opens or creates path and acquires an exclusive lock.
func acquireFileLock(path string, timeout time.Duration) (*fileLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.LockOpenFmt, path, err)
	}
	if err := lockFileFn(file, timeout); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf(messages.LockAcquireFmt, path, err)
	}
	return &fileLock{file: file}, nil
}

// release unlocks and closes the file lock.
func (l *fileLock) release() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := unlockFileFn(l.file); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}

// ErrTimeout is returned when a lock stays busy past the Locker timeout.
var ErrTimeout = errors.New(messages.LockTimeout)

// lockFile acquires an exclusive advisory lock on the file.
func lockFile(file *os.File, timeout time.Duration) error {
	deadline := lockNow().Add(timeout)
	for {
		err := flockFn(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			return err
		}
		if lockNow().After(deadline) {
			return fmt.Errorf(messages.LockTimeoutFmt, ErrTimeout, timeout)
		}
		lockSleep(lockPollEvery)
	}
}

// unlockFile releases the advisory lock on the file.
func unlockFile(file *os.File) error {
	return flockFn(int(file.Fd()), unix.LOCK_UN)
}
