// Package models contains the data types shared across the browser core.
package models

// FileNode represents one entry in the virtual tree derived from the
// manifest. Nodes are immutable once built; trees are rebuilt, never
// edited in place.
type FileNode struct {
	Name      string      `json:"name"`
	Path      string      `json:"path"`
	IsDir     bool        `json:"is_dir"`
	Extension string      `json:"extension,omitempty"`
	Language  string      `json:"language,omitempty"`
	Children  []*FileNode `json:"children,omitempty"`
}

// Crumb is one entry of a breadcrumb trail.
type Crumb struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Manifest is the flat path list published by the serving origin.
// The source gives no ordering guarantee; the tree builder sorts.
type Manifest struct {
	Files []string `json:"files"`
}

// ErrorResponse is returned by the dev server on API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// ChangeEvent describes a change under the dev server's resource root.
type ChangeEvent struct {
	Type string `json:"type"`
	Path string `json:"path"`
	Time int64  `json:"time"`
}
