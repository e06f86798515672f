// Package language classifies file extensions into semantic languages for
// presentation (syntax highlighting hints, icons).
package language

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// Default is the classification used when no lexer recognizes the extension.
const Default = "plaintext"

// Common conference-resource extensions get a fixed answer without touching
// the lexer registry.
var byExtension = map[string]string{
	"py":   "python",
	"pyi":  "python",
	"rs":   "rust",
	"go":   "go",
	"c":    "c",
	"h":    "c",
	"cpp":  "cpp",
	"hpp":  "cpp",
	"js":   "javascript",
	"ts":   "typescript",
	"sh":   "bash",
	"rb":   "ruby",
	"java": "java",
	"json": "json",
	"yaml": "yaml",
	"yml":  "yaml",
	"toml": "toml",
	"md":   "markdown",
	"html": "html",
	"css":  "css",
	"sql":  "sql",
	"csv":  "csv",
	"svg":  "svg",
	"txt":  Default,
	"lock": Default,
}

// ForExtension returns the semantic language for a file extension. The
// extension may carry a leading dot and any casing. Unknown extensions fall
// back to chroma's lexer registry, then to Default.
func ForExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return Default
	}
	if lang, ok := byExtension[ext]; ok {
		return lang
	}
	if lexer := lexers.Match("x." + ext); lexer != nil {
		return strings.ToLower(lexer.Config().Name)
	}
	return Default
}

// ForFileName classifies a file by its name's extension. Names without a
// dot-separated suffix default to plain text.
func ForFileName(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return Default
	}
	return ForExtension(name[i+1:])
}
