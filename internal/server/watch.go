package server

import (
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reports timelines written into a file storage directory. Events
// carries timeline names, not paths.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
	logger  *log.Logger
}

// NewWatcher starts watching dir.
func NewWatcher(dir string, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
		logger:  logger,
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes Events. It is idempotent.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Events)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name, ok := timelineName(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, seen := last[name]; seen && now.Sub(t) < watchDebounce {
				continue
			}
			last[name] = now

			select {
			case w.Events <- name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("[server] watch error: %v", err)
		case <-w.closeCh:
			return
		}
	}
}

// timelineName maps a saved file path to its timeline name. Temporary
// files written during an atomic save are skipped.
func timelineName(path string) (string, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || !strings.EqualFold(filepath.Ext(base), ".json") {
		return "", false
	}
	return strings.TrimSuffix(base, filepath.Ext(base)), true
}
