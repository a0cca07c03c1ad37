// Package ignore walks directory trees while honoring .gitignore rules.
package ignore

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Ignore matches paths below a root directory against the gitignore
// patterns found in that tree.
type Ignore struct {
	matcher  gitignore.Matcher
	rootPath string
	extra    []gitignore.Pattern
}

// NewIgnore reads the gitignore patterns below rootPath. Extra patterns use
// gitignore syntax and apply from the root.
func NewIgnore(rootPath string, extra ...string) (*Ignore, error) {
	patterns, err := gitignore.ReadPatterns(osfs.New(rootPath), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read gitignore patterns: %w", err)
	}

	ig := &Ignore{rootPath: rootPath}
	for _, p := range extra {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		ig.extra = append(ig.extra, gitignore.ParsePattern(p, nil))
	}
	ig.matcher = gitignore.NewMatcher(append(patterns, ig.extra...))
	return ig, nil
}

// IsIgnored reports whether the slash-separated path relative to the root is
// ignored. The .git directory is always ignored.
func (ig *Ignore) IsIgnored(rel string, isDir bool) bool {
	if rel == "." || rel == "" {
		return false
	}
	parts := strings.Split(rel, "/")
	if isDir && parts[len(parts)-1] == ".git" {
		return true
	}
	return ig.matcher.Match(parts, isDir)
}

// Walk calls fn for every entry below the root that is not ignored, in
// lexical order, with its slash-separated path relative to the root. The root
// itself is reported as ".". Ignored directories are not descended into.
func (ig *Ignore) Walk(fn func(rel string, isDir bool) error) error {
	return filepath.WalkDir(ig.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(ig.rootPath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		isDir := d.IsDir()
		if ig.IsIgnored(rel, isDir) {
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}
		return fn(rel, isDir)
	})
}
