package server

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/scc-tw/pycontw2025/internal/logging"
	"github.com/scc-tw/pycontw2025/internal/models"
)

// Change event types.
const (
	EventCreate = "create"
	EventModify = "modify"
	EventDelete = "delete"
)

// Watcher observes the resource root with fsnotify and fans change events
// out to subscribers. Events are debounced so a burst of writes triggers
// one rescan.
type Watcher struct {
	root     string
	debounce time.Duration

	fsw *fsnotify.Watcher

	mu   sync.RWMutex
	subs map[chan models.ChangeEvent]struct{}
}

// NewWatcher creates a watcher for root.
func NewWatcher(root string, debounce time.Duration) (*Watcher, error) {
	if debounce == 0 {
		debounce = 200 * time.Millisecond
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		root:     root,
		debounce: debounce,
		fsw:      fsw,
		subs:     make(map[chan models.ChangeEvent]struct{}),
	}, nil
}

// Start registers the root and all subdirectories and begins the event
// loop. fsnotify does not recurse, so directories created later are added
// as their create events arrive.
func (w *Watcher) Start(ctx context.Context, onChange func()) error {
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if excludedDirs[d.Name()] {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
	if err != nil {
		return err
	}

	go w.loop(ctx, onChange)
	return nil
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Subscribe returns a channel receiving change events.
func (w *Watcher) Subscribe() chan models.ChangeEvent {
	ch := make(chan models.ChangeEvent, 64)
	w.mu.Lock()
	w.subs[ch] = struct{}{}
	w.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (w *Watcher) Unsubscribe(ch chan models.ChangeEvent) {
	w.mu.Lock()
	delete(w.subs, ch)
	close(ch)
	w.mu.Unlock()
}

func (w *Watcher) loop(ctx context.Context, onChange func()) {
	var timer *time.Timer
	fire := func() {
		if onChange != nil {
			onChange()
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				// New directories must be watched explicitly.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.fsw.Add(event.Name)
				}
			}
			w.broadcast(toChangeEvent(event, w.root))

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, fire)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) broadcast(event models.ChangeEvent) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for ch := range w.subs {
		select {
		case ch <- event:
		default:
			// Drop for slow subscriber
		}
	}
}

func toChangeEvent(event fsnotify.Event, root string) models.ChangeEvent {
	typ := EventModify
	switch {
	case event.Op&fsnotify.Create != 0:
		typ = EventCreate
	case event.Op&fsnotify.Remove != 0 || event.Op&fsnotify.Rename != 0:
		typ = EventDelete
	}

	rel, err := filepath.Rel(root, event.Name)
	if err != nil {
		rel = event.Name
	}
	return models.ChangeEvent{
		Type: typ,
		Path: filepath.ToSlash(rel),
		Time: time.Now().Unix(),
	}
}
