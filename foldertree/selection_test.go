package foldertree

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/hayeah/treepick/internal/assert"
	"github.com/hayeah/treepick/internal/pattern"
	"github.com/stretchr/testify/require"
)

const projectListing = `project
├── README.md
├── cmd
    └── main.go
└── src
    ├── App.js
    ├── index.js
    └── components
        ├── Button.js
        ├── Modal.js
        └── icons
            ├── close.svg
            └── open.svg`

func TestToggle_Scenarios(t *testing.T) {
	assert := assert.New(t)

	tree := Parse(scenarioA)
	src := tree[0]
	app, components := src.Children[0], src.Children[1]
	button := components.Children[0]

	// toggle the components folder
	assert.NoError(tree.Toggle(Path{0, 1}))
	assert.True(components.Checked)
	assert.False(components.Indeterminate)
	assert.True(button.Checked)
	assert.False(src.Checked)
	assert.True(src.Indeterminate)
	assert.False(app.Checked)

	// then App.js completes the root
	assert.NoError(tree.Toggle(Path{0, 0}))
	assert.True(src.Checked)
	assert.False(src.Indeterminate)

	assert.Equal([]string{"src", "src/App.js", "src/components", "src/components/Button.js"}, tree.Selected())
}

func TestToggle_LeafCompletesParent(t *testing.T) {
	assert := assert.New(t)

	tree := Parse(scenarioA)
	assert.NoError(tree.Toggle(Path{0, 1, 0}))
	assert.EqualLines(`
		[-] src/
		  [ ] App.js
		  [x] components/
		    [x] Button.js
	`, outline(tree))
	assert.Equal([]string{"src/components", "src/components/Button.js"}, tree.Selected())
}

func TestToggle_IndeterminateFolderBecomesChecked(t *testing.T) {
	assert := assert.New(t)

	tree := Parse(projectListing)
	// project/src/components/Button.js
	assert.NoError(tree.Toggle(Path{0, 2, 2, 0}))
	components := tree[0].Children[2].Children[2]
	assert.True(components.Indeterminate)

	assert.NoError(tree.Toggle(Path{0, 2, 2}))
	assert.True(components.Checked)
	assert.False(components.Indeterminate)
	for _, c := range components.Children {
		assert.True(c.Checked)
	}
}

func TestToggle_DeepPropagation(t *testing.T) {
	assert := assert.New(t)

	tree := Parse(projectListing)
	assert.NoError(tree.Toggle(Path{0, 2, 2, 2, 1})) // open.svg
	assert.EqualLines(`
		[-] project/
		  [ ] README.md
		  [ ] cmd/
		    [ ] main.go
		  [-] src/
		    [ ] App.js
		    [ ] index.js
		    [-] components/
		      [ ] Button.js
		      [ ] Modal.js
		      [-] icons/
		        [ ] close.svg
		        [x] open.svg
	`, outline(tree))

	assert.NoError(tree.Toggle(Path{0, 2, 2, 2, 1}))
	for _, row := range allRows(tree) {
		assert.Equal(Unchecked, row.Node.State(), row.FullPath)
	}
}

func TestToggle_PairRestoresState(t *testing.T) {
	assert := assert.New(t)

	tree := Parse(projectListing)
	assert.NoError(tree.Toggle(Path{0, 2, 0}))
	assert.NoError(tree.Toggle(Path{0, 1}))

	// A partially selected folder becomes fully selected on the first toggle,
	// so only folders with a uniform subtree return to where they started.
	for _, row := range allRows(tree) {
		if row.Node.Indeterminate {
			continue
		}
		before := outline(tree)
		assert.NoError(tree.Toggle(row.Path))
		assert.NoError(tree.Toggle(row.Path))
		assert.Equal(before, outline(tree), "double toggle of %s", row.FullPath)
	}
}

func TestToggle_TriStateClosure(t *testing.T) {
	tree := Parse(projectListing)
	rows := allRows(tree)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		row := rows[rng.Intn(len(rows))]
		require.NoError(t, tree.Toggle(row.Path))
		checkTriState(t, tree)
	}
}

func checkTriState(t *testing.T, nodes []*Node) {
	t.Helper()
	for _, n := range nodes {
		if n.Checked && n.Indeterminate {
			t.Fatalf("%s is both checked and indeterminate", n.Name)
		}
		if len(n.Children) == 0 {
			if n.Indeterminate {
				t.Fatalf("leaf %s is indeterminate", n.Name)
			}
			continue
		}
		allChecked, anyTouched := true, false
		for _, c := range n.Children {
			allChecked = allChecked && c.Checked
			anyTouched = anyTouched || c.Checked || c.Indeterminate
		}
		if n.Checked != allChecked {
			t.Fatalf("%s checked=%v, children all checked=%v", n.Name, n.Checked, allChecked)
		}
		if n.Indeterminate != (!allChecked && anyTouched) {
			t.Fatalf("%s indeterminate=%v, expected %v", n.Name, n.Indeterminate, !allChecked && anyTouched)
		}
		if n.Checked {
			walk(n.Children, func(d *Node) {
				if !d.Checked {
					t.Fatalf("%s is checked but descendant %s is not", n.Name, d.Name)
				}
			})
		}
		checkTriState(t, n.Children)
	}
}

func TestToggle_StalePath(t *testing.T) {
	assert := assert.New(t)

	tree := Parse(scenarioA)
	for _, p := range []Path{nil, {1}, {0, 2}, {0, 1, 0, 0}, {-1}} {
		err := tree.Toggle(p)
		assert.True(errors.Is(err, ErrStalePath), "path %v: %v", p, err)
		assert.True(errors.Is(tree.ToggleOpen(p), ErrStalePath))
	}
	assert.Empty(tree.Selected())
}

func TestToggleOpen(t *testing.T) {
	assert := assert.New(t)

	tree := Parse(projectListing)
	assert.Len(tree.Rows(), 13)

	assert.NoError(tree.ToggleOpen(Path{0, 2}))
	src := tree[0].Children[2]
	assert.False(src.Open)
	assert.True(tree[0].Open)
	assert.True(src.Children[2].Open)
	assert.Equal(Unchecked, src.State())

	var visible []string
	for _, row := range tree.Rows() {
		visible = append(visible, row.FullPath)
	}
	assert.Equal([]string{"project", "project/README.md", "project/cmd", "project/cmd/main.go", "project/src"}, visible)

	assert.NoError(tree.ToggleOpen(Path{0, 2}))
	assert.Len(tree.Rows(), 13)
}

func TestSelectAllDeselectAll(t *testing.T) {
	assert := assert.New(t)

	tree := Parse(projectListing)
	assert.NoError(tree.Toggle(Path{0, 1, 0}))

	tree.SelectAll()
	var all []string
	for _, row := range allRows(tree) {
		all = append(all, row.FullPath)
	}
	assert.Equal(all, tree.Selected())
	checkTriState(t, tree)

	tree.DeselectAll()
	assert.Empty(tree.Selected())
	checkTriState(t, tree)
}

func TestCollectSelected_Prefix(t *testing.T) {
	assert := assert.New(t)

	tree := Parse(scenarioA)
	assert.NoError(tree.Toggle(Path{0, 0}))
	assert.Equal([]string{"repo/src/App.js"}, CollectSelected(tree, "repo"))
	assert.Equal([]string{"App.js"}, CollectSelected(tree[0].Children, ""))
}

func TestSelectedFiles(t *testing.T) {
	assert := assert.New(t)

	tree := Parse(projectListing)
	assert.NoError(tree.Toggle(Path{0, 2, 2}))
	assert.Equal([]string{
		"project/src/components/Button.js",
		"project/src/components/Modal.js",
		"project/src/components/icons/close.svg",
		"project/src/components/icons/open.svg",
	}, tree.SelectedFiles())
}

func TestSelectedLeaves(t *testing.T) {
	assert := assert.New(t)

	tree := Parse("root/\n├── Makefile\n├── LICENSE\n├── empty/\n├── main.go\n└── lib/\n    └── util.go")
	assert.Empty(tree.SelectedLeaves())

	tree.SelectAll()
	assert.Equal([]string{
		"root/Makefile",
		"root/LICENSE",
		"root/empty",
		"root/main.go",
		"root/lib/util.go",
	}, tree.SelectedLeaves())
	assert.Equal([]string{"root/main.go", "root/lib/util.go"}, tree.SelectedFiles())

	assert.NoError(tree.Toggle(Path{0, 0}))
	assert.NotContains(tree.SelectedLeaves(), "root/Makefile")
}

func TestSelectMatching(t *testing.T) {
	assert := assert.New(t)

	tree := Parse(projectListing)
	m, err := pattern.Parse("**/*.svg;=project/cmd/main.go")
	assert.NoError(err)

	n, err := tree.SelectMatching(m)
	assert.NoError(err)
	assert.Equal(3, n)
	assert.EqualLines(`
		[-] project/
		  [ ] README.md
		  [x] cmd/
		    [x] main.go
		  [-] src/
		    [ ] App.js
		    [ ] index.js
		    [-] components/
		      [ ] Button.js
		      [ ] Modal.js
		      [x] icons/
		        [x] close.svg
		        [x] open.svg
	`, outline(tree))
	checkTriState(t, tree)
}

type failingMatcher struct{}

func (failingMatcher) Match([]string) ([]string, error) {
	return nil, errors.New("boom")
}

func TestSelectMatching_Error(t *testing.T) {
	assert := assert.New(t)

	tree := Parse(projectListing)
	_, err := tree.SelectMatching(failingMatcher{})
	assert.EqualError(err, "boom")
	assert.Empty(tree.Selected())
}
