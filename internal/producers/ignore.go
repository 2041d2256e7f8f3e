// Package producers implements the engine's leaf producers (ReadFile,
// ListDirectory) and derived producers (MarkdownToHtml, MinifyHtml),
// plus the HostAPI/Script contract that stands in for the embedded
// script host, which is an external collaborator outside this package.
package producers

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ignoreRule is one parsed line of a .driverignore file.
type ignoreRule struct {
	pattern  string
	negate   bool
	dirOnly  bool
}

// Ignore is a small gitignore-style matcher: glob patterns over
// path/filepath.Match, trailing "/" for directory-only rules, and "!"
// negation. No ignore-matching library appears anywhere in the
// retrieved corpus, so this is a deliberately small hand-rolled matcher,
// justified in DESIGN.md as a standard-library implementation for lack
// of a corpus precedent.
type Ignore struct {
	rules []ignoreRule
}

// NoIgnore is an Ignore that matches nothing.
func NoIgnore() *Ignore { return &Ignore{} }

// LoadIgnore reads a .driverignore file at path, if present. A missing
// file yields an empty (match-nothing) Ignore, not an error.
func LoadIgnore(path string) (*Ignore, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NoIgnore(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseIgnore(f)
}

// ParseIgnore reads .driverignore rules from r.
func ParseIgnore(r io.Reader) (*Ignore, error) {
	ig := &Ignore{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rule := ignoreRule{pattern: line}
		if strings.HasPrefix(rule.pattern, "!") {
			rule.negate = true
			rule.pattern = rule.pattern[1:]
		}
		if strings.HasSuffix(rule.pattern, "/") {
			rule.dirOnly = true
			rule.pattern = strings.TrimSuffix(rule.pattern, "/")
		}
		ig.rules = append(ig.rules, rule)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ig, nil
}

// Match reports whether relPath (slash-separated, relative to the
// ignore file's directory) should be excluded from a directory listing.
// Later rules override earlier ones, matching gitignore semantics.
func (ig *Ignore) Match(relPath string, isDir bool) bool {
	if ig == nil {
		return false
	}
	excluded := false
	base := filepath.Base(relPath)
	for _, r := range ig.rules {
		if r.dirOnly && !isDir {
			continue
		}
		matched, _ := filepath.Match(r.pattern, relPath)
		if !matched {
			matched, _ = filepath.Match(r.pattern, base)
		}
		if matched {
			excluded = !r.negate
		}
	}
	return excluded
}
