// Package nav holds the navigation state machine for one browser session:
// current location, selection, expanded folders, and back-history.
//
// There is no mode flag. Behavior is determined entirely by the data values
// of the record; the three mutation operations are orthogonal and any
// subset of folders may be expanded independently of the selection. None of
// the operations can fail: toggling a path that exists in no tree simply
// flips set membership, since the state machine never validates against the
// tree the gateway owns.
package nav

import (
	"strings"
	"sync"

	"github.com/scc-tw/pycontw2025/internal/models"
)

// HistoryLimit bounds the back-history stack; the oldest entry is evicted
// first on overflow.
const HistoryLimit = 50

// State is an immutable snapshot of the navigation record, published to
// subscribers after every mutation.
type State struct {
	CurrentPath []string
	Selected    *models.FileNode
	Expanded    []string
}

// Session owns the mutable navigation record. It is created once per
// view-session and reset on teardown. Mutations are synchronous: each one
// completes, snapshot included, before the next dispatched intent runs.
type Session struct {
	rootLabel string

	mu       sync.Mutex
	current  []string
	selected *models.FileNode
	expanded map[string]struct{}
	history  []string

	subMu sync.RWMutex
	subs  map[chan State]struct{}
}

// NewSession creates an empty session. rootLabel names the synthetic root
// breadcrumb entry.
func NewSession(rootLabel string) *Session {
	if rootLabel == "" {
		rootLabel = "root"
	}
	return &Session{
		rootLabel: rootLabel,
		expanded:  make(map[string]struct{}),
		subs:      make(map[chan State]struct{}),
	}
}

// SelectNode records node as the current selection. Selecting a directory
// additionally pushes the previous location onto the history and moves
// there; selecting a file never changes the current path. The session holds
// the node by reference only; the gateway owns node lifetime.
func (s *Session) SelectNode(node *models.FileNode) {
	if node == nil {
		return
	}

	s.mu.Lock()
	s.selected = node
	if node.IsDir {
		s.pushHistory(strings.Join(s.current, "/"))
		s.current = splitPath(node.Path)
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snapshot)
}

// ToggleFolder flips membership of path in the expanded-folder set.
// Toggling twice restores the original membership.
func (s *Session) ToggleFolder(path string) {
	s.mu.Lock()
	if _, ok := s.expanded[path]; ok {
		delete(s.expanded, path)
	} else {
		s.expanded[path] = struct{}{}
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snapshot)
}

// GoBack pops the most recent history entry and moves there. It returns
// false, changing nothing, when the history is empty; callers must check
// the result before assuming navigation occurred.
func (s *Session) GoBack() bool {
	s.mu.Lock()
	if len(s.history) == 0 {
		s.mu.Unlock()
		return false
	}
	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.current = splitPath(last)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snapshot)
	return true
}

// Breadcrumbs derives the trail for the current path: a synthetic root
// entry followed by one entry per prefix-growing slice. Recomputed on each
// call; never cached.
func (s *Session) Breadcrumbs() []models.Crumb {
	s.mu.Lock()
	defer s.mu.Unlock()

	crumbs := make([]models.Crumb, 0, len(s.current)+1)
	crumbs = append(crumbs, models.Crumb{Label: s.rootLabel, Path: ""})
	for i, seg := range s.current {
		crumbs = append(crumbs, models.Crumb{
			Label: seg,
			Path:  strings.Join(s.current[:i+1], "/"),
		})
	}
	return crumbs
}

// CurrentPath returns the current location segments.
func (s *Session) CurrentPath() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.current...)
}

// Selected returns the current selection, which may be nil.
func (s *Session) Selected() *models.FileNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// IsExpanded reports whether path is in the expanded-folder set.
func (s *Session) IsExpanded(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.expanded[path]
	return ok
}

// HistoryLen returns the current depth of the back-history stack.
func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Reset restores the initial empty record, as on view teardown.
func (s *Session) Reset() {
	s.mu.Lock()
	s.current = nil
	s.selected = nil
	s.expanded = make(map[string]struct{})
	s.history = nil
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snapshot)
}

// Snapshot returns a copy of the current record.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers an observer channel. Snapshots are delivered after
// every mutation; slow subscribers drop snapshots rather than block the
// state machine. The caller must Unsubscribe when done.
func (s *Session) Subscribe() chan State {
	ch := make(chan State, 16)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()
	return ch
}

// Unsubscribe removes an observer and closes its channel.
func (s *Session) Unsubscribe(ch chan State) {
	s.subMu.Lock()
	delete(s.subs, ch)
	close(ch)
	s.subMu.Unlock()
}

func (s *Session) pushHistory(path string) {
	s.history = append(s.history, path)
	if len(s.history) > HistoryLimit {
		s.history = s.history[len(s.history)-HistoryLimit:]
	}
}

func (s *Session) snapshotLocked() State {
	expanded := make([]string, 0, len(s.expanded))
	for p := range s.expanded {
		expanded = append(expanded, p)
	}
	return State{
		CurrentPath: append([]string(nil), s.current...),
		Selected:    s.selected,
		Expanded:    expanded,
	}
}

func (s *Session) publish(snapshot State) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for ch := range s.subs {
		select {
		case ch <- snapshot:
		default:
			// Drop for slow consumer
		}
	}
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
