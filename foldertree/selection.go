package foldertree

import (
	"strings"

	"github.com/hayeah/treepick/internal/pattern"
)

// SetSubtreeCheckState sets node and every descendant to checked (or
// unchecked), clearing any partial state.
func SetSubtreeCheckState(node *Node, checked bool) {
	node.Checked = checked
	node.Indeterminate = false
	for _, child := range node.Children {
		SetSubtreeCheckState(child, checked)
	}
}

// Toggle flips the check state of the node at path together with its whole
// subtree, then recomputes the state of each ancestor from its children.
func (t Tree) Toggle(path Path) error {
	node, err := t.Resolve(path)
	if err != nil {
		return err
	}

	SetSubtreeCheckState(node, !node.Checked)

	chain := t.ancestors(path)
	for i := len(chain) - 1; i >= 0; i-- {
		updateFromChildren(chain[i])
	}
	return nil
}

// updateFromChildren derives a folder's state from its direct children.
func updateFromChildren(n *Node) {
	if len(n.Children) == 0 {
		n.Indeterminate = false
		return
	}
	allChecked, noneTouched := true, true
	for _, c := range n.Children {
		if !c.Checked {
			allChecked = false
		}
		if c.Checked || c.Indeterminate {
			noneTouched = false
		}
	}
	n.Checked = allChecked
	n.Indeterminate = !allChecked && !noneTouched
}

// ToggleOpen flips the expanded state of exactly the node at path.
func (t Tree) ToggleOpen(path Path) error {
	node, err := t.Resolve(path)
	if err != nil {
		return err
	}
	node.Open = !node.Open
	return nil
}

// SelectAll checks every node.
func (t Tree) SelectAll() {
	for _, n := range t {
		SetSubtreeCheckState(n, true)
	}
}

// DeselectAll unchecks every node.
func (t Tree) DeselectAll() {
	for _, n := range t {
		SetSubtreeCheckState(n, false)
	}
}

// CollectSelected returns the slash-joined path of every checked node, in
// pre-order. Children are visited whatever the state of their parent, so a
// checked file under a partially selected folder is still reported.
func CollectSelected(nodes []*Node, prefix string) []string {
	var out []string
	collectSelected(nodes, prefix, &out)
	return out
}

func collectSelected(nodes []*Node, prefix string, out *[]string) {
	for _, n := range nodes {
		full := joinPath(prefix, n.Name)
		if n.Checked {
			*out = append(*out, full)
		}
		collectSelected(n.Children, full, out)
	}
}

// joinPath appends name to prefix with a slash, unless prefix is a folder
// name that already ends in one.
func joinPath(prefix, name string) string {
	if prefix == "" || strings.HasSuffix(prefix, "/") {
		return prefix + name
	}
	return prefix + "/" + name
}

// Selected returns the selected paths of the whole tree.
func (t Tree) Selected() []string {
	return CollectSelected(t, "")
}

// SelectedFiles is like Selected but leaves out folders.
func (t Tree) SelectedFiles() []string {
	var out []string
	for _, row := range allRows(t) {
		if row.Node.Checked && !row.Node.IsFolder {
			out = append(out, row.FullPath)
		}
	}
	return out
}

// SelectedLeaves returns the distinct full paths of the checked nodes without
// children, in tree order, with any trailing slash trimmed. Unlike
// SelectedFiles it doesn't guess from the name, so a checked Makefile counts.
func (t Tree) SelectedLeaves() []string {
	paths, byPath := leafIndex(t)
	var out []string
	for _, p := range paths {
		for _, n := range byPath[p] {
			if n.Checked {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// SelectMatching checks every leaf whose full path is matched by m, then
// recomputes folder states bottom-up. Leaves that are already checked stay
// checked. It returns how many leaves matched.
func (t Tree) SelectMatching(m pattern.Matcher) (int, error) {
	leafPaths, byPath := leafIndex(t)
	matched, err := m.Match(leafPaths)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, p := range matched {
		for _, n := range byPath[p] {
			n.Checked = true
			n.Indeterminate = false
			count++
		}
	}
	t.recompute()
	return count, nil
}

// LeafPaths lists the distinct full paths of the leaves, in tree order, with
// any trailing slash trimmed.
func (t Tree) LeafPaths() []string {
	paths, _ := leafIndex(t)
	return paths
}

func leafIndex(t Tree) ([]string, map[string][]*Node) {
	byPath := make(map[string][]*Node)
	var paths []string
	for _, row := range allRows(t) {
		if len(row.Node.Children) > 0 {
			continue
		}
		key := strings.TrimSuffix(row.FullPath, "/")
		if _, seen := byPath[key]; !seen {
			paths = append(paths, key)
		}
		byPath[key] = append(byPath[key], row.Node)
	}
	return paths, byPath
}

// recompute derives every folder's state from its leaves, bottom-up.
func (t Tree) recompute() {
	var visit func(n *Node)
	visit = func(n *Node) {
		for _, c := range n.Children {
			visit(c)
		}
		updateFromChildren(n)
	}
	for _, n := range t {
		visit(n)
	}
}
