package tree

import (
	"testing"

	"github.com/scc-tw/pycontw2025/internal/models"
)

func TestBuild_Basic(t *testing.T) {
	nodes := Build([]string{"a/b.py", "a/c/d.py"}, "")

	if len(nodes) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(nodes))
	}
	a := nodes[0]
	if a.Name != "a" || !a.IsDir {
		t.Fatalf("expected directory a, got %+v", a)
	}
	if len(a.Children) != 2 {
		t.Fatalf("expected 2 children of a, got %d", len(a.Children))
	}

	b := a.Children[0]
	if b.Name != "b.py" || b.IsDir {
		t.Errorf("expected file b.py first, got %+v", b)
	}
	if b.Extension != "py" || b.Language != "python" {
		t.Errorf("b.py classification: ext=%q lang=%q", b.Extension, b.Language)
	}

	c := a.Children[1]
	if c.Name != "c" || !c.IsDir {
		t.Errorf("expected directory c second, got %+v", c)
	}
	if len(c.Children) != 1 || c.Children[0].Name != "d.py" {
		t.Errorf("expected c to contain d.py, got %+v", c.Children)
	}
}

func TestBuild_PathInvariant(t *testing.T) {
	nodes := Build([]string{
		"src/main.go",
		"src/util/strings.go",
		"docs/readme.md",
		"docs/img/logo.svg",
	}, "workspace")

	var walk func(parent *models.FileNode, ns []*models.FileNode)
	walk = func(parent *models.FileNode, ns []*models.FileNode) {
		for _, n := range ns {
			if parent != nil {
				want := parent.Path + "/" + n.Name
				if n.Path != want {
					t.Errorf("path invariant broken: %q, want %q", n.Path, want)
				}
			}
			walk(n, n.Children)
		}
	}
	walk(nil, nodes)
}

func TestBuild_UniqueSiblingNames(t *testing.T) {
	// b.py appears twice; shared ancestors appear in several paths.
	nodes := Build([]string{"a/b.py", "a/b.py", "a/c.py", "a/d/e.py", "a/d/f.py"}, "")

	var walk func(ns []*models.FileNode)
	walk = func(ns []*models.FileNode) {
		seen := make(map[string]bool)
		for _, n := range ns {
			if seen[n.Name] {
				t.Errorf("duplicate sibling name %q", n.Name)
			}
			seen[n.Name] = true
			walk(n.Children)
		}
	}
	walk(nodes)
}

func TestBuild_SortsInput(t *testing.T) {
	nodes := Build([]string{"z.py", "a.py", "m/x.py", "b.py"}, "")

	want := []string{"a.py", "b.py", "m", "z.py"}
	if len(nodes) != len(want) {
		t.Fatalf("expected %d top-level nodes, got %d", len(want), len(nodes))
	}
	for i, n := range nodes {
		if n.Name != want[i] {
			t.Errorf("node %d = %q, want %q", i, n.Name, want[i])
		}
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	if nodes := Build(nil, ""); len(nodes) != 0 {
		t.Errorf("Build(nil) = %d nodes, want 0", len(nodes))
	}
	if nodes := Build([]string{}, "root"); len(nodes) != 0 {
		t.Errorf("Build(empty, root) = %d nodes, want 0", len(nodes))
	}
}

func TestBuild_SkipsEmptySegments(t *testing.T) {
	nodes := Build([]string{"/a//b.py"}, "")

	if len(nodes) != 1 || nodes[0].Name != "a" {
		t.Fatalf("expected single directory a, got %+v", nodes)
	}
	if len(nodes[0].Children) != 1 || nodes[0].Children[0].Path != "a/b.py" {
		t.Errorf("expected a/b.py under a, got %+v", nodes[0].Children)
	}
}

func TestBuild_RootLabel(t *testing.T) {
	nodes := Build([]string{"a/b.py"}, "source")

	if len(nodes) != 1 {
		t.Fatalf("expected 1 root, got %d", len(nodes))
	}
	root := nodes[0]
	if root.Name != "source" || root.Path != "source" || !root.IsDir {
		t.Fatalf("unexpected root %+v", root)
	}
	a := root.Children[0]
	if a.Path != "source/a" {
		t.Errorf("child path = %q, want source/a", a.Path)
	}
	if a.Children[0].Path != "source/a/b.py" {
		t.Errorf("leaf path = %q, want source/a/b.py", a.Children[0].Path)
	}
}

func TestBuild_DottedDirectoryHeuristic(t *testing.T) {
	// A segment with a dotted suffix is a file when it is the last segment.
	// "v1.2" as an intermediate segment stays a directory.
	nodes := Build([]string{"rel/v1.2/notes.md"}, "")
	index := Flatten(nodes)

	v12 := index["rel/v1.2"]
	if v12 == nil || !v12.IsDir {
		t.Fatalf("intermediate v1.2 should be a directory, got %+v", v12)
	}

	// As a leaf it is (mis)classified as a file; the decision is made at
	// insertion and never revisited.
	nodes = Build([]string{"rel/v1.2"}, "")
	leaf := Flatten(nodes)["rel/v1.2"]
	if leaf == nil || leaf.IsDir {
		t.Fatalf("leaf v1.2 should classify as a file, got %+v", leaf)
	}
}

func TestBuild_DirectoriesHaveChildrenSlice(t *testing.T) {
	nodes := Build([]string{"a/b.py"}, "")
	a := nodes[0]
	if a.Children == nil {
		t.Error("directory children must be present, not nil")
	}
	if a.Children[0].Children != nil {
		t.Error("file nodes must not carry children")
	}
}

func TestFindByPath(t *testing.T) {
	nodes := Build([]string{"a/b.py", "a/c/d.py"}, "")

	tests := []struct {
		path  string
		found bool
	}{
		{"a", true},
		{"a/b.py", true},
		{"a/c", true},
		{"a/c/d.py", true},
		{"missing", false},
		{"", false},
	}
	for _, tt := range tests {
		node := FindByPath(nodes, tt.path)
		if (node != nil) != tt.found {
			t.Errorf("FindByPath(%q) found=%v, want %v", tt.path, node != nil, tt.found)
		}
		if node != nil && node.Path != tt.path {
			t.Errorf("FindByPath(%q).Path = %q", tt.path, node.Path)
		}
	}
}

func TestFlattenAndCount(t *testing.T) {
	nodes := Build([]string{"a/b.py", "a/c/d.py"}, "")

	flat := Flatten(nodes)
	if len(flat) != 4 { // a, a/b.py, a/c, a/c/d.py
		t.Errorf("Flatten returned %d nodes, want 4", len(flat))
	}
	if got := CountNodes(nodes); got != 4 {
		t.Errorf("CountNodes = %d, want 4", got)
	}
	if CountNodes(nil) != 0 {
		t.Error("CountNodes(nil) should be 0")
	}
}
