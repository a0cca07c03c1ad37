// Package foldertree parses pasted `tree` listings into a checkbox tree and
// keeps tri-state selection consistent while nodes are toggled.
package foldertree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStalePath is returned when a Path does not address a node of the tree it
// is applied to. It means the caller kept a path across a tree replacement.
var ErrStalePath = errors.New("stale tree path")

// Node is one file or folder parsed from a listing line.
type Node struct {
	Name          string
	Children      []*Node
	IsFolder      bool
	Checked       bool
	Indeterminate bool
	Open          bool
}

// Tree is the ordered sequence of top-level nodes.
type Tree []*Node

// Path addresses a node by sibling indices, starting at the roots.
type Path []int

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = fmt.Sprint(idx)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Child returns a new path addressing the i-th child of p.
func (p Path) Child(i int) Path {
	child := make(Path, len(p)+1)
	copy(child, p)
	child[len(p)] = i
	return child
}

// isFolderName classifies a name as a folder when it ends with a separator or
// has no dot in it. Extension-less files are misclassified; that is accepted.
func isFolderName(name string) bool {
	return strings.HasSuffix(name, "/") || strings.HasSuffix(name, `\`) || !strings.Contains(name, ".")
}

// Clone returns a deep copy of the tree.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for i, n := range t {
		out[i] = n.clone()
	}
	return out
}

func (n *Node) clone() *Node {
	c := *n
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.clone()
		}
	}
	return &c
}

// Len returns the total number of nodes in the tree.
func (t Tree) Len() int {
	count := 0
	walk(t, func(*Node) { count++ })
	return count
}

// Depth returns the maximum nesting level; roots are at level 1.
func (t Tree) Depth() int {
	deepest := 0
	for _, n := range t {
		if d := Tree(n.Children).Depth() + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

func walk(nodes []*Node, fn func(*Node)) {
	for _, n := range nodes {
		fn(n)
		walk(n.Children, fn)
	}
}

// Resolve returns the node addressed by path.
func (t Tree) Resolve(path Path) (*Node, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrStalePath)
	}
	nodes := []*Node(t)
	var node *Node
	for depth, idx := range path {
		if idx < 0 || idx >= len(nodes) {
			return nil, fmt.Errorf("%w: %v out of range at depth %d", ErrStalePath, path, depth)
		}
		node = nodes[idx]
		nodes = node.Children
	}
	return node, nil
}

// ancestors returns the chain of nodes from the root down to the parent of
// the node addressed by path. The path must already be resolvable.
func (t Tree) ancestors(path Path) []*Node {
	chain := make([]*Node, 0, len(path))
	nodes := []*Node(t)
	for _, idx := range path[:len(path)-1] {
		n := nodes[idx]
		chain = append(chain, n)
		nodes = n.Children
	}
	return chain
}
