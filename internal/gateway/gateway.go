// Package gateway fetches the manifest and file contents from the serving
// origin, sanitizes every path, builds virtual trees, and memoizes both
// derived results through TTL caches.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/scc-tw/pycontw2025/internal/cache"
	"github.com/scc-tw/pycontw2025/internal/logging"
	"github.com/scc-tw/pycontw2025/internal/metrics"
	"github.com/scc-tw/pycontw2025/internal/models"
	"github.com/scc-tw/pycontw2025/internal/retry"
	"github.com/scc-tw/pycontw2025/internal/sanitize"
	"github.com/scc-tw/pycontw2025/internal/tree"
)

// StatusError is the recoverable condition surfaced when a content fetch
// gets a non-success response. Callers render it inline; it never crashes
// the session.
type StatusError struct {
	Path string
	Code int
	Text string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.Path, e.Text)
}

// AsStatus checks if an error is a StatusError and returns it.
func AsStatus(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// Config holds gateway configuration.
type Config struct {
	BaseURL     string // serving origin, no trailing slash
	Timeout     time.Duration
	RetryConfig retry.Config
}

// Gateway is the single component that talks to the network. Its
// dependencies are passed at construction; there is no shared service
// container.
type Gateway struct {
	baseURL     string
	httpClient  *http.Client
	retryConfig retry.Config

	trees   *cache.Store[[]*models.FileNode]
	content *cache.Store[string]
	flight  singleflight.Group
}

// New creates a gateway backed by the given caches.
func New(cfg Config, trees *cache.Store[[]*models.FileNode], content *cache.Store[string]) *Gateway {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryConfig.MaxAttempts == 0 {
		cfg.RetryConfig = retry.DefaultConfig()
	}

	return &Gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		retryConfig: cfg.RetryConfig,
		trees:       trees,
		content:     content,
	}
}

// FetchTree returns the virtual tree for basePath. On a cache miss it reads
// the manifest once, keeps the entries under the basePath's final category
// segment, sanitizes them, and builds the tree. Transport absence is never
// fatal: "no manifest" means "empty workspace", and the caller still gets a
// renderable (empty) tree.
func (g *Gateway) FetchTree(ctx context.Context, basePath string) []*models.FileNode {
	key := "tree:" + basePath

	if nodes, ok := g.trees.Get(key); ok {
		metrics.RecordCacheHit("tree")
		return nodes
	}
	metrics.RecordCacheMiss("tree")

	v, _, _ := g.flight.Do(key, func() (interface{}, error) {
		files, err := g.readManifest(ctx)
		if err != nil {
			logging.Warn("manifest unreachable, degrading to empty tree",
				zap.String("base_path", basePath), zap.Error(err))
			metrics.RecordManifestFetch("degraded")
			return []*models.FileNode{}, nil
		}
		metrics.RecordManifestFetch("ok")

		category := lastSegment(basePath)
		var cleaned []string
		for _, f := range files {
			p := sanitize.Clean(f)
			if p == "" {
				continue
			}
			if category != "" {
				if !strings.HasPrefix(p, category+"/") {
					continue
				}
				p = strings.TrimPrefix(p, category+"/")
				if p == "" {
					continue
				}
			}
			cleaned = append(cleaned, p)
		}

		start := time.Now()
		nodes := tree.Build(cleaned, category)
		metrics.RecordTreeBuild(time.Since(start), tree.CountNodes(nodes))
		logging.Debug("tree built",
			zap.String("base_path", basePath),
			zap.Int("manifest_entries", len(files)),
			zap.Int("nodes", tree.CountNodes(nodes)))

		// Degraded results are not cached, so the next call retries the
		// manifest instead of pinning an empty workspace for a full TTL.
		g.trees.Set(key, nodes)
		return nodes, nil
	})

	return v.([]*models.FileNode)
}

// FetchContent returns the text of one resource. The path is sanitized
// first; an empty sanitized path means "no file selected" and returns
// empty content without touching the network. A non-success response is a
// *StatusError carrying the transport status text.
func (g *Gateway) FetchContent(ctx context.Context, path string) (string, error) {
	clean := sanitize.Clean(path)
	if clean == "" {
		return "", nil
	}

	key := "content:" + clean
	if text, ok := g.content.Get(key); ok {
		metrics.RecordCacheHit("content")
		return text, nil
	}
	metrics.RecordCacheMiss("content")

	v, err, _ := g.flight.Do(key, func() (interface{}, error) {
		text, err := g.readContent(ctx, clean)
		if err != nil {
			metrics.RecordContentFetch("error")
			return "", err
		}
		metrics.RecordContentFetch("ok")
		g.content.Set(key, text)
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// DownloadURL derives the save-as URL for a path. Pure and uncached, and it
// applies the same sanitizer as FetchContent so the two never diverge for
// the same logical file.
func (g *Gateway) DownloadURL(path string) string {
	return g.baseURL + "/resources/" + sanitize.Clean(path)
}

// InvalidateTree drops the cached tree for basePath.
func (g *Gateway) InvalidateTree(basePath string) {
	g.trees.Invalidate("tree:" + basePath)
}

// InvalidateContent drops the cached content for path.
func (g *Gateway) InvalidateContent(path string) {
	g.content.Invalidate("content:" + sanitize.Clean(path))
}

// Reset clears both caches.
func (g *Gateway) Reset() {
	g.trees.Clear()
	g.content.Clear()
}

func (g *Gateway) readManifest(ctx context.Context) ([]string, error) {
	var files []string

	err := retry.Do(ctx, g.retryConfig, func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+"/manifest.json", nil)
		if err != nil {
			return err
		}

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return retry.Retryable(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if resp.StatusCode >= 500 {
				return retry.Retryable(fmt.Errorf("server error: %d", resp.StatusCode))
			}
			return fmt.Errorf("server returned %d", resp.StatusCode)
		}

		var manifest models.Manifest
		if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
			return err
		}
		files = manifest.Files
		return nil
	})

	return files, err
}

func (g *Gateway) readContent(ctx context.Context, clean string) (string, error) {
	var text string

	err := retry.Do(ctx, g.retryConfig, func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+"/resources/"+clean, nil)
		if err != nil {
			return err
		}

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return retry.Retryable(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if resp.StatusCode >= 500 {
				return retry.Retryable(&StatusError{Path: clean, Code: resp.StatusCode, Text: resp.Status})
			}
			return &StatusError{Path: clean, Code: resp.StatusCode, Text: resp.Status}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		text = string(body)
		return nil
	})

	return text, err
}

// lastSegment returns the final segment of a slash-separated base path.
func lastSegment(basePath string) string {
	basePath = strings.Trim(basePath, "/")
	if i := strings.LastIndexByte(basePath, '/'); i >= 0 {
		return basePath[i+1:]
	}
	return basePath
}
