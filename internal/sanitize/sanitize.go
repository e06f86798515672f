// Package sanitize normalizes untrusted resource paths before they reach
// any fetch or URL construction site.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	dotRuns   = regexp.MustCompile(`\.{2,}`)
	slashRuns = regexp.MustCompile(`/{2,}`)
)

// Clean normalizes a raw path: runs of two or more dots are removed, runs
// of slashes collapse to one, and leading slashes are stripped. Clean never
// fails; pathological input yields the sanitized remainder, which may be
// the empty string. An empty result means "no file selected", not an error.
//
// Clean is idempotent: Clean(Clean(s)) == Clean(s). Both the content-fetch
// and download-URL paths apply it independently and must agree.
func Clean(raw string) string {
	s := dotRuns.ReplaceAllString(raw, "")
	s = slashRuns.ReplaceAllString(s, "/")
	return strings.TrimLeft(s, "/")
}
