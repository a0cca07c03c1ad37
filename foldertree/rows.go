package foldertree

// Row is a node as laid out for display: its address, nesting level and
// slash-joined full path.
type Row struct {
	Node     *Node
	Path     Path
	Depth    int
	FullPath string
}

// Rows lists the visible nodes in pre-order. Children of a closed node are
// left out.
func (t Tree) Rows() []Row {
	var rows []Row
	appendRows(&rows, t, nil, "", 0, true)
	return rows
}

// allRows lists every node, open or not.
func allRows(t Tree) []Row {
	var rows []Row
	appendRows(&rows, t, nil, "", 0, false)
	return rows
}

func appendRows(rows *[]Row, nodes []*Node, parent Path, prefix string, depth int, openOnly bool) {
	for i, n := range nodes {
		path := parent.Child(i)
		full := joinPath(prefix, n.Name)
		*rows = append(*rows, Row{Node: n, Path: path, Depth: depth, FullPath: full})
		if openOnly && !n.Open {
			continue
		}
		appendRows(rows, n.Children, path, full, depth+1, openOnly)
	}
}

// State is the tri-state value of a node's checkbox.
type State int

const (
	Unchecked State = iota
	Partial
	Checked
)

// State reports the node's checkbox state.
func (n *Node) State() State {
	switch {
	case n.Checked:
		return Checked
	case n.Indeterminate:
		return Partial
	default:
		return Unchecked
	}
}
