// Package tree builds and walks the virtual file tree derived from a
// flat manifest path list.
package tree

import (
	"sort"
	"strings"

	"github.com/scc-tw/pycontw2025/internal/language"
	"github.com/scc-tw/pycontw2025/internal/models"
)

// Build transforms a flat list of slash-separated paths into a tree.
//
// The input is sorted lexicographically first, which guarantees parents are
// encountered at or before their first child and makes sibling order
// deterministic. Children are appended in sorted-input order; no re-sorting
// pass runs after insertion. Empty segments (from leading slashes or
// pre-sanitation input) are skipped silently.
//
// The last segment of a path is classified as a file iff it contains a dot
// followed by a non-empty suffix; every other segment is a directory. This
// is a heuristic: a directory literally named "v1.2" will be taken for a
// file. The manifest carries no authoritative type tag, so the
// misclassification is accepted and the decision is never revisited.
//
// When rootLabel is non-empty and the input is non-empty, the result is a
// single synthetic directory named rootLabel containing the built tree,
// with every node path prefixed accordingly. An empty input always yields
// an empty slice.
func Build(paths []string, rootLabel string) []*models.FileNode {
	if len(paths) == 0 {
		return []*models.FileNode{}
	}

	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	var root *models.FileNode
	var forest []*models.FileNode
	if rootLabel != "" {
		root = &models.FileNode{
			Name:     rootLabel,
			Path:     rootLabel,
			IsDir:    true,
			Children: []*models.FileNode{},
		}
	}

	index := make(map[string]*models.FileNode)

	for _, p := range sorted {
		var parts []string
		for _, seg := range strings.Split(p, "/") {
			if seg != "" {
				parts = append(parts, seg)
			}
		}
		if len(parts) == 0 {
			continue
		}

		parent := root
		nodePath := ""
		if root != nil {
			nodePath = root.Path
		}

		for i, seg := range parts {
			if nodePath == "" {
				nodePath = seg
			} else {
				nodePath = nodePath + "/" + seg
			}

			node, ok := index[nodePath]
			if !ok {
				node = &models.FileNode{Name: seg, Path: nodePath}
				if i == len(parts)-1 && isFileName(seg) {
					node.Extension = extensionOf(seg)
					node.Language = language.ForExtension(node.Extension)
				} else {
					node.IsDir = true
					node.Children = []*models.FileNode{}
				}
				index[nodePath] = node
				if parent == nil {
					forest = append(forest, node)
				} else {
					parent.Children = append(parent.Children, node)
				}
			}

			// Classification is final at insertion. If a later path needs
			// to descend through a node already classified as a file, the
			// remainder is dropped rather than reclassified.
			if !node.IsDir {
				break
			}
			parent = node
		}
	}

	if root != nil {
		return []*models.FileNode{root}
	}
	if forest == nil {
		return []*models.FileNode{}
	}
	return forest
}

// isFileName reports whether a leaf segment looks like a file: it must
// contain a dot followed by a non-empty suffix.
func isFileName(name string) bool {
	i := strings.LastIndexByte(name, '.')
	return i >= 0 && i < len(name)-1
}

// extensionOf returns the suffix after the last dot, without the dot.
func extensionOf(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return name[i+1:]
}

// FindByPath resolves a path anywhere in the forest (recursive).
func FindByPath(nodes []*models.FileNode, path string) *models.FileNode {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.Path == path {
			return n
		}
		if found := FindByPath(n.Children, path); found != nil {
			return found
		}
	}
	return nil
}

// Flatten returns every node in the forest keyed by path.
func Flatten(nodes []*models.FileNode) map[string]*models.FileNode {
	result := make(map[string]*models.FileNode)
	var walk func(ns []*models.FileNode)
	walk = func(ns []*models.FileNode) {
		for _, n := range ns {
			if n == nil {
				continue
			}
			result[n.Path] = n
			walk(n.Children)
		}
	}
	walk(nodes)
	return result
}

// CountNodes counts all nodes in the forest.
func CountNodes(nodes []*models.FileNode) int {
	count := 0
	for _, n := range nodes {
		if n == nil {
			continue
		}
		count += 1 + CountNodes(n.Children)
	}
	return count
}
