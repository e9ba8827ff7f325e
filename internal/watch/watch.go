package watch

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long to wait after the last change before
// signalling, so editors that write in bursts trigger one reload
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports changes to a single file, debounced
type Watcher struct {
	path   string
	delay  time.Duration
	fw     *fsnotify.Watcher
	events chan struct{}
	logger *slog.Logger
}

// New watches path for writes and replacements. The parent directory is
// watched rather than the file itself, so editors that save via
// rename-and-replace keep the watch alive
func New(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:   abs,
		delay:  debounce,
		fw:     fw,
		events: make(chan struct{}, 1),
		logger: logger,
	}

	go w.loop()
	return w, nil
}

// Events delivers one coalesced signal per burst of changes. The channel
// is never closed; callers stop reading after Close
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watcher
func (w *Watcher) Close() error {
	return w.fw.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce: wait for the burst to settle
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.delay, w.notify)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watch error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) notify() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}
