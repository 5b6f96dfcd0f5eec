package levels

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// debounce is the quiet period after the last write to a file before it is
// reported; editors often write a file in several steps.
const debounce = 100 * time.Millisecond

// Watcher reports changes to a set of level files. It watches the parent
// directories so that save-by-rename editors are seen too.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *log.Logger
	files   map[string]struct{}

	Events chan string
	Errors chan error

	settled chan string // files whose debounce timer ran out
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching the given level files. A nil logger discards
// log output.
func NewWatcher(logger *log.Logger, files ...string) (*Watcher, error) {
	if len(files) == 0 {
		return nil, errors.New("levels: nothing to watch")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("levels: cannot create watcher: %w", err)
	}

	w := &Watcher{
		watcher: fw,
		logger:  logger,
		files:   make(map[string]struct{}, len(files)),
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		settled: make(chan string, len(files)),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("levels: cannot resolve %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("levels: cannot watch %s: %w", dir, err)
		}
	}

	go w.run()
	return w, nil
}

// Close stops the watcher and closes Events and Errors.
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
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, watched := w.files[name]; !watched {
				continue
			}
			w.logger.Debug("level file changed", "file", name, "op", event.Op.String())
			if t, ok := timers[name]; ok {
				t.Reset(debounce)
				continue
			}
			timers[name] = time.AfterFunc(debounce, func() {
				select {
				case w.settled <- name:
				case <-w.closeCh:
				}
			})
		case name := <-w.settled:
			select {
			case w.Events <- name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				w.logger.Warn("dropped watcher error", "error", err)
			}
		case <-w.closeCh:
			return
		}
	}
}
