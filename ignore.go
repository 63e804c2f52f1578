package hybridshare

import (
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// IgnoreList decides which request paths skip sharing. In patterns only "*"
// is special: it matches any run of characters, slashes included. Other glob
// metacharacters match themselves.
type IgnoreList struct {
	patterns []string
	compiled []glob.Glob
}

// NewIgnoreList compiles patterns. Surrounding slashes are trimmed from every
// pattern except the bare root "/"; patterns left empty are dropped.
func NewIgnoreList(patterns ...string) *IgnoreList {
	l := &IgnoreList{}
	for _, p := range patterns {
		if p != "/" {
			p = strings.Trim(p, "/")
		}
		if p == "" {
			continue
		}
		// No separators, so "*" crosses "/".
		expr := strings.ReplaceAll(glob.QuoteMeta(p), `\*`, "*")
		l.patterns = append(l.patterns, p)
		l.compiled = append(l.compiled, glob.MustCompile(expr))
	}
	return l
}

// Patterns returns the normalized patterns.
func (l *IgnoreList) Patterns() []string {
	return slices.Clone(l.patterns)
}

// Match reports whether the normalized path matches any pattern.
func (l *IgnoreList) Match(path string) bool {
	if l == nil {
		return false
	}
	path = NormalizePath(path)
	for _, g := range l.compiled {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// NormalizePath trims surrounding slashes, mapping the root to "/".
func NormalizePath(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}
