// Package inbox stages plugin directories dropped into a watched folder.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/conn-castle/plugin-stage/internal/batch"
	"github.com/conn-castle/plugin-stage/internal/logging"
	"github.com/conn-castle/plugin-stage/internal/messages"
	"github.com/conn-castle/plugin-stage/internal/pluginfs"
)

// DefaultSettle is how long an inbox entry must stay quiet before it is staged.
const DefaultSettle = 2 * time.Second

// Event reports the outcome of staging one inbox entry.
type Event struct {
	Source     string
	Descriptor pluginfs.Descriptor
	Err        error
}

// Options configures a Watcher.
type Options struct {
	// Dir is the watched inbox. It is created when missing.
	Dir string
	// BaseDir receives staged plugins.
	BaseDir string
	// Settle is the quiet period per entry. Zero uses DefaultSettle.
	Settle time.Duration
	Stager batch.Stager
}

// Watcher stages each new top-level directory of an inbox once writes to it
// have settled. Staging moves the directory out of the inbox; entries that
// fail to stage stay in place and are reported on Events.
type Watcher struct {
	dir     string
	baseDir string
	settle  time.Duration
	stager  batch.Stager
	events  chan Event
	ready   chan string
	done    chan struct{}

	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

// New validates opts and returns a Watcher.
func New(opts Options) (*Watcher, error) {
	if strings.TrimSpace(opts.Dir) == "" {
		return nil, errors.New(messages.InboxDirRequired)
	}
	if strings.TrimSpace(opts.BaseDir) == "" {
		return nil, errors.New(messages.PluginsBaseDirRequired)
	}
	if opts.Stager == nil {
		return nil, errors.New(messages.BatchStagerRequired)
	}
	settle := opts.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{
		dir:     filepath.Clean(opts.Dir),
		baseDir: opts.BaseDir,
		settle:  settle,
		stager:  opts.Stager,
		events:  make(chan Event, 16),
		ready:   make(chan string, 16),
		done:    make(chan struct{}),
		timers:  map[string]*time.Timer{},
	}, nil
}

// Events delivers one Event per staged entry. It is closed when Run returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run watches the inbox until ctx is done. Directories already present are
// queued on start.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)
	defer close(w.done)
	defer w.stopTimers()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf(messages.InboxCreateDirFmt, w.dir, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf(messages.InboxWatchFmt, w.dir, err)
	}
	defer func() {
		_ = watcher.Close()
	}()
	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf(messages.InboxWatchFmt, w.dir, err)
	}

	logger := logging.FromContext(ctx).With("inbox", w.dir)
	logger.Info(messages.InboxLogWatching, "settle", w.settle)
	if err := w.queueExisting(watcher); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleFsEvent(logger, watcher, event)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn(messages.InboxLogWatchError, "error", watchErr)
		case entry := <-w.ready:
			w.stage(ctx, logger, entry)
		}
	}
}

func (w *Watcher) queueExisting(watcher *fsnotify.Watcher) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf(messages.PluginsFailedReadDirFmt, w.dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || isHidden(entry.Name()) {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		_ = watcher.Add(path)
		w.debounce(path)
	}
	return nil
}

// handleFsEvent maps an event to its top-level inbox entry and restarts that
// entry's settle timer.
func (w *Watcher) handleFsEvent(logger *slog.Logger, watcher *fsnotify.Watcher, event fsnotify.Event) {
	entry, ok := w.topLevelEntry(event.Name)
	if !ok {
		return
	}
	path := filepath.Clean(event.Name)
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := watcher.Add(path); err != nil {
				logger.Debug(messages.InboxLogWatchAddFailed, "path", path, "error", err)
			}
		}
	}
	w.debounce(entry)
}

// topLevelEntry returns the inbox child that contains path.
func (w *Watcher) topLevelEntry(path string) (string, bool) {
	rel, err := filepath.Rel(w.dir, filepath.Clean(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	if isHidden(first) {
		return "", false
	}
	return filepath.Join(w.dir, first), true
}

func (w *Watcher) debounce(entry string) {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()
	if timer, exists := w.timers[entry]; exists {
		timer.Stop()
	}
	w.timers[entry] = time.AfterFunc(w.settle, func() {
		w.timersMu.Lock()
		delete(w.timers, entry)
		w.timersMu.Unlock()
		select {
		case w.ready <- entry:
		case <-w.done:
		}
	})
}

func (w *Watcher) stopTimers() {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()
	for entry, timer := range w.timers {
		timer.Stop()
		delete(w.timers, entry)
	}
}

// stage hands a settled entry to the stager and removes the entry once it is
// staged. Entries that vanished, or are not directories, are skipped silently.
func (w *Watcher) stage(ctx context.Context, logger *slog.Logger, entry string) {
	info, err := os.Stat(entry)
	if err != nil || !info.IsDir() {
		return
	}
	name := filepath.Base(entry)
	itemCtx := logging.WithAttrs(ctx, "plugin", name)
	desc, err := w.stager.Stage(itemCtx, name, entry, w.baseDir)
	if err != nil {
		logger.Error(messages.InboxLogStageFailed, "source", entry, "error", err)
	} else {
		logger.Info(messages.InboxLogStaged, "source", entry, "plugin", desc.Name, "version", desc.Version)
		w.removeEntry(logger, entry)
	}
	select {
	case w.events <- Event{Source: entry, Descriptor: desc, Err: err}:
	case <-ctx.Done():
	}
}

// removeEntry deletes what staging left of entry. Staging a single root
// folder moves only that folder, so the empty upload directory remains.
func (w *Watcher) removeEntry(logger *slog.Logger, entry string) {
	if err := os.RemoveAll(entry); err != nil {
		logger.Warn(messages.InboxLogCleanupFailed, "source", entry, "error", err)
	}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
