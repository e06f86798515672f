package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/scc-tw/pycontw2025/internal/models"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "source/tests/bench.py", "print(1)\n")
	writeFile(t, root, "source/lib/util.rs", "fn main() {}\n")
	writeFile(t, root, "source/readme.md", "# hi\n")

	s := New(root)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s, root
}

func TestManifest(t *testing.T) {
	s, _ := testServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/manifest.json")
	if err != nil {
		t.Fatalf("GET manifest: %v", err)
	}
	defer resp.Body.Close()

	var manifest models.Manifest
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := []string{"source/lib/util.rs", "source/readme.md", "source/tests/bench.py"}
	if len(manifest.Files) != len(want) {
		t.Fatalf("files = %v, want %v", manifest.Files, want)
	}
	for i := range want {
		if manifest.Files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, manifest.Files[i], want[i])
		}
	}
}

func TestContent(t *testing.T) {
	s, _ := testServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/resources/source/tests/bench.py")
	if err != nil {
		t.Fatalf("GET content: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != "print(1)\n" {
		t.Errorf("content = %q", body)
	}
}

func TestContent_NotFound(t *testing.T) {
	s, _ := testServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/resources/source/missing.py")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if errResp.Code != http.StatusNotFound || errResp.Error == "" {
		t.Errorf("error envelope = %+v", errResp)
	}
}

func TestContent_TraversalIsContained(t *testing.T) {
	s, root := testServer(t)
	// A secret outside the resource root must never be reachable.
	writeFile(t, filepath.Dir(root), "secret.txt", "secret\n")

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	req, _ := http.NewRequest("GET", ts.URL+"/resources/..%2Fsecret.txt", nil)
	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		t.Fatal("traversal request must not serve content outside the root")
	}
}

func TestRescan(t *testing.T) {
	s, root := testServer(t)
	if got := len(s.Files()); got != 3 {
		t.Fatalf("initial manifest size = %d", got)
	}

	writeFile(t, root, "source/new.py", "pass\n")
	s.Rescan()

	files := s.Files()
	found := false
	for _, f := range files {
		if f == "source/new.py" {
			found = true
		}
	}
	if !found {
		t.Errorf("rescan missed new file; manifest = %v", files)
	}
}

func TestScan_SkipsExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "source/a.py", "pass\n")
	writeFile(t, root, "node_modules/pkg/index.js", "x\n")
	writeFile(t, root, ".git/config", "x\n")

	files, err := scan(root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(files) != 1 || files[0] != "source/a.py" {
		t.Errorf("scan = %v, want only source/a.py", files)
	}
}
