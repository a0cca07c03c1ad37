// Package listing renders a directory as a `tree`-style listing that the
// folder tree parser can read back.
package listing

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hayeah/treepick/ignore"
)

// item is one walked entry, relative to the root, slash-separated.
type item struct {
	Path  string
	IsDir bool
}

// DirectoryTree holds directory listing info.
type DirectoryTree struct {
	RootPath string
	Exclude  []string // extra gitignore-style patterns
	dirItems func() ([]item, error)
}

// NewDirectoryTree constructs a DirectoryTree for rootPath without walking it.
func NewDirectoryTree(rootPath string, exclude ...string) *DirectoryTree {
	dt := &DirectoryTree{RootPath: rootPath, Exclude: exclude}
	dt.dirItems = sync.OnceValues(dt.walk)
	return dt
}

func (dt *DirectoryTree) walk() ([]item, error) {
	info, err := os.Stat(dt.RootPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dt.RootPath)
	}

	ig, err := ignore.NewIgnore(dt.RootPath, dt.Exclude...)
	if err != nil {
		return nil, err
	}
	var items []item
	err = ig.Walk(func(rel string, isDir bool) error {
		items = append(items, item{Path: rel, IsDir: isDir})
		return nil
	})
	return items, err
}

// Files returns the slash-separated paths of all files, relative to the root.
func (dt *DirectoryTree) Files() ([]string, error) {
	items, err := dt.dirItems()
	if err != nil {
		return nil, err
	}
	var files []string
	for _, it := range items {
		if !it.IsDir {
			files = append(files, it.Path)
		}
	}
	return files, nil
}

// RootName is the label of the listing's first line.
func (dt *DirectoryTree) RootName() string {
	abs, err := filepath.Abs(dt.RootPath)
	if err != nil {
		abs = dt.RootPath
	}
	return filepath.Base(abs)
}

// treeNode is a directory entry with its children, for rendering.
type treeNode struct {
	name     string
	isDir    bool
	children []*treeNode
}

// Write renders the listing to w. The first line is the root directory's base
// name; directories carry a trailing slash.
//
// Continuation columns are left blank instead of drawn with │, since the
// parser takes a leading │ as a single level whatever the column it sits in.
func (dt *DirectoryTree) Write(w io.Writer) error {
	items, err := dt.dirItems()
	if err != nil {
		return err
	}

	root := &treeNode{name: dt.RootName(), isDir: true}
	nodes := map[string]*treeNode{".": root}
	for _, it := range items {
		if it.Path == "." {
			continue
		}
		n := &treeNode{name: path.Base(it.Path), isDir: it.IsDir}
		nodes[it.Path] = n
		if parent, ok := nodes[path.Dir(it.Path)]; ok {
			parent.children = append(parent.children, n)
		}
	}

	if _, err := fmt.Fprintln(w, root.name); err != nil {
		return err
	}
	return writeChildren(w, root, "")
}

func writeChildren(w io.Writer, n *treeNode, prefix string) error {
	for i, child := range n.children {
		connector := "├── "
		if i == len(n.children)-1 {
			connector = "└── "
		}
		name := child.name
		if child.isDir {
			name += "/"
		}
		if _, err := fmt.Fprintln(w, prefix+connector+name); err != nil {
			return err
		}
		if err := writeChildren(w, child, prefix+strings.Repeat(" ", 4)); err != nil {
			return err
		}
	}
	return nil
}

// String renders the listing, or returns the error text.
func (dt *DirectoryTree) String() string {
	var sb strings.Builder
	if err := dt.Write(&sb); err != nil {
		return err.Error()
	}
	return sb.String()
}
