// Package server implements the dev serving origin: it publishes a local
// directory as a flat manifest plus raw file content, in exactly the shape
// the gateway consumes.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/scc-tw/pycontw2025/internal/logging"
	"github.com/scc-tw/pycontw2025/internal/metrics"
	"github.com/scc-tw/pycontw2025/internal/models"
	"github.com/scc-tw/pycontw2025/internal/sanitize"
)

// Directories never published, matching common build artifacts.
var excludedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"venv":         true,
	"__pycache__":  true,
}

// Server publishes one directory tree as a read-only resource root.
type Server struct {
	root string

	mu    sync.RWMutex
	files []string

	watcher *Watcher
}

// New creates a server for the given directory.
func New(root string) *Server {
	return &Server{root: root}
}

// Init builds the initial manifest by walking the resource root.
func (s *Server) Init(ctx context.Context) error {
	files, err := scan(s.root)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.files = files
	s.mu.Unlock()

	logging.Info("manifest built",
		zap.String("root", s.root),
		zap.Int("files", len(files)))
	return nil
}

// SetWatcher attaches a filesystem watcher whose change events rebuild the
// manifest.
func (s *Server) SetWatcher(w *Watcher) {
	s.watcher = w
}

// Rescan rebuilds the manifest after a change event.
func (s *Server) Rescan() {
	files, err := scan(s.root)
	if err != nil {
		logging.Error("manifest rescan failed", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.files = files
	s.mu.Unlock()
	logging.Debug("manifest rebuilt", zap.Int("files", len(files)))
}

// Files returns the current manifest entries.
func (s *Server) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.files...)
}

// Handler returns the HTTP handler tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /manifest.json", s.handleManifest)
	mux.HandleFunc("GET /resources/{path...}", s.handleContent)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.Handle("GET /metrics", metrics.Handler())

	return logging.Middleware(metrics.Middleware(mux))
}

// handleEvents streams resource-root change events as SSE so a client can
// invalidate its caches ahead of the TTL.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.watcher == nil {
		s.sendError(w, http.StatusServiceUnavailable, "file watching not enabled")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.sendError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.watcher.Subscribe()
	defer s.watcher.Unsubscribe(ch)

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\n", event.Type)
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	manifest := models.Manifest{Files: s.files}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(manifest)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	clean := sanitize.Clean(r.PathValue("path"))
	if clean == "" {
		s.sendError(w, http.StatusBadRequest, "path required")
		return
	}

	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil {
		s.sendError(w, http.StatusNotFound, "file not found: "+clean)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(data)
}

func (s *Server) sendError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// scan walks root and returns the flat, sorted list of relative file
// paths, slash-separated.
func scan(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if d.IsDir() {
			if excludedDirs[d.Name()] || (strings.HasPrefix(d.Name(), ".") && path != root) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
