package foldertree

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// reTreeLine splits a listing line into indentation, connector glyphs and the
// node name.
var reTreeLine = regexp.MustCompile(`^(\s*)([├└│─ ]*)(\S.*)$`)

// frame is one entry of the depth stack: the children list new nodes at a
// deeper level are appended to.
type frame struct {
	children *[]*Node
	depth    int
}

// Parse converts a `tree`-style listing into nodes. Blank lines and lines
// that don't look like listing entries are skipped. An input without any
// entries yields an empty Tree.
//
// The depth of a line is the width of its leading whitespace, plus one if it
// contains a connector glyph (│, ├ or └). Lines of the same level drawn with
// different indentation can therefore land at different depths.
func Parse(text string) Tree {
	var roots []*Node
	stack := []frame{{children: &roots, depth: -1}}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}

		m := reTreeLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		indent, name := m[1], strings.TrimSpace(m[3])

		depth := utf8.RuneCountInString(indent)
		if strings.ContainsAny(line, "│├└") {
			depth++
		}

		node := &Node{
			Name:     name,
			Children: []*Node{},
			IsFolder: isFolderName(name),
			Open:     true,
		}

		for len(stack) > 1 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}
		top := stack[len(stack)-1]
		*top.children = append(*top.children, node)
		stack = append(stack, frame{children: &node.Children, depth: depth})
	}

	return roots
}
