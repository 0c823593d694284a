package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/brady-zip/changed-filter/internal/log"
)

// statusWatchDebounce is the debounce window for watcher events.
const statusWatchDebounce = 600 * time.Millisecond

// StatusWatcher watches the git common directory and signals when the
// repository state may have changed, so open panels can refresh their
// counts and file lists.
type StatusWatcher struct {
	CommonDir   string
	Roots       []string
	Events      chan struct{}
	Done        chan struct{}
	Paths       map[string]struct{}
	Mu          sync.Mutex
	Watcher     *fsnotify.Watcher
	LastRefresh time.Time
	started     bool
}

// NewStatusWatcher creates a watcher for the given git common dir.
func NewStatusWatcher(commonDir string) *StatusWatcher {
	return &StatusWatcher{CommonDir: commonDir}
}

// Start initialises the fsnotify watcher and the background goroutine.
// Returns false without error when there is nothing to watch.
func (w *StatusWatcher) Start() (bool, error) {
	if w.started || w.CommonDir == "" {
		return false, nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}

	w.started = true
	w.Watcher = watcher
	w.Events = make(chan struct{}, 1)
	w.Done = make(chan struct{})
	w.Paths = make(map[string]struct{})
	w.Roots = []string{
		filepath.Join(w.CommonDir, "refs"),
		filepath.Join(w.CommonDir, "logs"),
	}
	w.addWatchDir(w.CommonDir)
	for _, root := range w.Roots {
		w.addWatchTree(root)
	}

	go w.run()
	return true, nil
}

// Stop stops the watcher and closes channels.
func (w *StatusWatcher) Stop() {
	if !w.started {
		return
	}
	close(w.Done)
	w.started = false
	if w.Watcher != nil {
		_ = w.Watcher.Close()
	}
}

// Wait blocks until a watch event fires. Returns false when the watcher
// was stopped.
func (w *StatusWatcher) Wait() bool {
	select {
	case <-w.Done:
		return false
	case <-w.Events:
		return true
	}
}

// ShouldRefresh checks debounce timing for watcher events.
func (w *StatusWatcher) ShouldRefresh(now time.Time) bool {
	if !w.LastRefresh.IsZero() && now.Sub(w.LastRefresh) < statusWatchDebounce {
		return false
	}
	w.LastRefresh = now
	return true
}

// Signal notifies listeners of watcher activity.
func (w *StatusWatcher) Signal() {
	select {
	case <-w.Done:
		return
	default:
	}
	select {
	case w.Events <- struct{}{}:
	default:
	}
}

func (w *StatusWatcher) isUnderRoot(path string) bool {
	if path == "" {
		return false
	}
	for _, root := range w.Roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *StatusWatcher) maybeWatchNewDir(path string) {
	if !w.isUnderRoot(path) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	w.addWatchDir(path)
}

func (w *StatusWatcher) run() {
	for {
		select {
		case <-w.Done:
			return
		case event, ok := <-w.Watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.maybeWatchNewDir(event.Name)
			}
			w.Signal()
		case err, ok := <-w.Watcher.Errors:
			if !ok {
				return
			}
			log.Printf("status watcher error: %v", err)
		}
	}
}

func (w *StatusWatcher) addWatchDir(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.Mu.Lock()
	defer w.Mu.Unlock()

	if _, ok := w.Paths[path]; ok {
		return
	}
	if err := w.Watcher.Add(path); err != nil {
		log.Printf("status watcher add failed for %s: %v", path, err)
		return
	}
	w.Paths[path] = struct{}{}
}

func (w *StatusWatcher) addWatchTree(root string) {
	if root == "" {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		w.addWatchDir(path)
		return nil
	})
}
