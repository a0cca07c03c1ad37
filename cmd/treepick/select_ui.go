package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/hayeah/treepick/foldertree"
)

// ExitState indicates how the program is exiting
type ExitState int

const (
	ExitStateNone    ExitState = iota // Not exiting
	ExitStateAbort                    // Exiting without a result (Esc, Ctrl+C)
	ExitStateConfirm                  // Exiting with confirmation (Enter)
)

var (
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	checkedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	matchStyle   = lipgloss.NewStyle().Underline(true)
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle    = lipgloss.NewStyle().Faint(true)
)

const (
	browseHint = "(↑/↓ move, Space toggle, ←/→ fold, / search, n next match, e edit, c clear, Ctrl+A/Ctrl+Q all/none, Enter confirm, Esc abort)"
	editHint   = "(paste or type a folder tree listing, Ctrl+S to parse, Esc to go back)"
)

// model is the Bubble Tea model for picking entries of a folder tree. All
// selection state lives in the session; rows are the visible entries derived
// from it after every change.
type model struct {
	session *foldertree.Session
	rows    []foldertree.Row

	// Navigation
	cursor    int
	exitState ExitState
	err       error

	// Search jumps the cursor to fuzzy matches without hiding rows.
	search    textinput.Model
	searching bool

	// Editor for entering a listing in place.
	editor  textarea.Model
	editing bool

	viewport viewport.Model
	ready    bool
}

func newModel(s *foldertree.Session) model {
	ti := textinput.New()
	ti.Placeholder = "Type to fuzzy-search..."
	ti.Prompt = "/ "
	ti.CharLimit = 0

	ta := textarea.New()
	ta.Placeholder = "src/\n├── main.go\n└── util/\n    └── strings.go"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0

	m := model{
		session:  s,
		search:   ti,
		editor:   ta,
		viewport: viewport.New(0, 0), // sized on tea.WindowSizeMsg
	}
	if len(s.Tree) == 0 {
		m.startEditing()
	}
	m.refresh()
	return m
}

// runSelectUI lets the user edit the selection of s, and reports whether the
// user confirmed it. The TUI draws on stderr so stdout stays free for results.
func runSelectUI(s *foldertree.Session, opts ...tea.ProgramOption) (bool, error) {
	opts = append([]tea.ProgramOption{tea.WithOutput(os.Stderr)}, opts...)
	p := tea.NewProgram(newModel(s), opts...)
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	finalM, ok := finalModel.(model)
	if !ok {
		return false, fmt.Errorf("could not get final model state")
	}
	if finalM.err != nil {
		return false, finalM.err
	}
	return finalM.exitState == ExitStateConfirm, nil
}

func (m model) Init() tea.Cmd {
	if m.editing {
		return tea.Batch(textarea.Blink, tea.EnterAltScreen)
	}
	return tea.EnterAltScreen
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.exitState != ExitStateNone {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.exitState = ExitStateAbort
			return m, tea.Quit
		}
		switch {
		case m.editing:
			return m.updateEditor(msg)
		case m.searching:
			return m.updateSearch(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	var cmd tea.Cmd
	switch {
	case m.editing:
		m.editor, cmd = m.editor.Update(msg)
	case m.searching:
		m.search, cmd = m.search.Update(msg)
	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.exitState = ExitStateAbort
		return m, tea.Quit

	case "enter":
		m.exitState = ExitStateConfirm
		return m, tea.Quit

	case "up", "k":
		m.moveTo(m.cursor - 1)
	case "down", "j":
		m.moveTo(m.cursor + 1)
	case "home", "g":
		m.moveTo(0)
	case "end", "G":
		m.moveTo(len(m.rows) - 1)
	case "pgup":
		m.moveTo(m.cursor - max(m.viewport.Height/2, 1))
	case "pgdown":
		m.moveTo(m.cursor + max(m.viewport.Height/2, 1))

	case " ":
		if row, ok := m.current(); ok {
			return m.apply(m.session.Toggle(row.Path))
		}
	case "tab":
		if row, ok := m.current(); ok && len(row.Node.Children) > 0 {
			return m.apply(m.session.ToggleOpen(row.Path))
		}
	case "right", "l":
		if row, ok := m.current(); ok && len(row.Node.Children) > 0 && !row.Node.Open {
			return m.apply(m.session.ToggleOpen(row.Path))
		}
	case "left", "h":
		row, ok := m.current()
		if !ok {
			break
		}
		if len(row.Node.Children) > 0 && row.Node.Open {
			return m.apply(m.session.ToggleOpen(row.Path))
		}
		m.moveToParent(row)

	case "ctrl+a":
		m.session.SelectAll()
		m.refresh()
	case "ctrl+q":
		m.session.DeselectAll()
		m.refresh()

	case "/":
		m.searching = true
		m.search.SetValue("")
		return m, m.search.Focus()
	case "n":
		m.nextMatch(1)
	case "N":
		m.nextMatch(-1)

	case "e":
		return m, m.startEditing()
	case "c":
		m.session.Clear()
		m.search.SetValue("")
		m.cursor = 0
		m.refresh()
		return m, m.startEditing()
	}
	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.refresh()
		return m, nil
	case "enter":
		// keep the term for n/N
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != prev {
		if best := m.bestMatch(); best >= 0 {
			m.cursor = best
		}
		m.refresh()
	}
	return m, cmd
}

func (m model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.session.Parse(m.editor.Value())
		if m.session.Err() == nil {
			m.stopEditing()
			m.cursor = 0
		}
		m.refresh()
		return m, nil
	case "esc":
		if len(m.session.Tree) > 0 {
			m.stopEditing()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// apply refreshes the rows after a session action. A failed action means the
// rows no longer describe the tree, which ends the program.
func (m model) apply(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.err = err
		m.exitState = ExitStateAbort
		return m, tea.Quit
	}
	m.refresh()
	return m, nil
}

func (m *model) startEditing() tea.Cmd {
	m.editing = true
	m.searching = false
	m.search.Blur()
	m.editor.SetValue(m.session.Input)
	return m.editor.Focus()
}

func (m *model) stopEditing() {
	m.editing = false
	m.editor.Blur()
}

func (m *model) resize(width, height int) {
	headerHeight := 2 // title or search line + blank line
	footerHeight := 3 // blank line + status + usage hint
	m.viewport.Width = width
	m.viewport.Height = max(height-headerHeight-footerHeight, 1)
	m.viewport.YPosition = headerHeight

	m.editor.SetWidth(width)
	m.editor.SetHeight(max(height-headerHeight-footerHeight, 3))

	m.ready = true
	m.refresh()
}

func (m model) current() (foldertree.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return foldertree.Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *model) moveTo(i int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = min(max(i, 0), len(m.rows)-1)
	m.updateViewportContent()
	m.ensureCursorVisible()
}

func (m *model) moveToParent(row foldertree.Row) {
	if len(row.Path) < 2 {
		return
	}
	parent := row.Path[:len(row.Path)-1]
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].Path.String() == parent.String() {
			m.moveTo(i)
			return
		}
	}
}

// matches returns the indexes of rows whose full path fuzzily matches the
// search term, best match first.
func (m model) matches() []int {
	term := m.search.Value()
	if term == "" {
		return nil
	}
	paths := make([]string, len(m.rows))
	for i, row := range m.rows {
		paths[i] = row.FullPath
	}
	found := fuzzy.Find(term, paths)
	idx := make([]int, len(found))
	for i, f := range found {
		idx[i] = f.Index
	}
	return idx
}

func (m model) bestMatch() int {
	if idx := m.matches(); len(idx) > 0 {
		return idx[0]
	}
	return -1
}

// nextMatch moves the cursor to the next matching row in list order, wrapping
// around. dir is 1 for forward and -1 for backward.
func (m *model) nextMatch(dir int) {
	idx := m.matches()
	if len(idx) == 0 {
		return
	}
	sort.Ints(idx)
	if dir > 0 {
		for _, i := range idx {
			if i > m.cursor {
				m.moveTo(i)
				return
			}
		}
		m.moveTo(idx[0])
		return
	}
	for j := len(idx) - 1; j >= 0; j-- {
		if idx[j] < m.cursor {
			m.moveTo(idx[j])
			return
		}
	}
	m.moveTo(idx[len(idx)-1])
}

// refresh rebuilds the rows from the session's current tree.
func (m *model) refresh() {
	m.rows = m.session.Tree.Rows()
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
	m.updateViewportContent()
	m.ensureCursorVisible()
}

func (m model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var footer strings.Builder
	footer.WriteString("\n")
	if m.session.Message != "" {
		footer.WriteString(messageStyle.Render(m.session.Message) + "  ")
	}

	if m.editing {
		footer.WriteString("\n" + hintStyle.Render(editHint))
		return "Folder tree listing\n\n" + m.editor.View() + footer.String()
	}

	header := "Select files"
	if m.searching || m.search.Value() != "" {
		header = m.search.View()
	}

	selected := len(m.session.Selected())
	fmt.Fprintf(&footer, "%d rows shown, %d selected\n", len(m.rows), selected)
	footer.WriteString(hintStyle.Render(browseHint))

	return header + "\n\n" + m.viewport.View() + footer.String()
}

// updateViewportContent renders the rows into the viewport.
func (m *model) updateViewportContent() {
	hit := make(map[int]bool)
	for _, i := range m.matches() {
		hit[i] = true
	}

	var sb strings.Builder
	for i, row := range m.rows {
		sb.WriteString(m.renderRow(i, row, hit[i]) + "\n")
	}
	m.viewport.SetContent(sb.String())
}

func (m model) renderRow(i int, row foldertree.Row, match bool) string {
	cursor := " "
	if i == m.cursor {
		cursor = ">"
	}

	var check string
	switch row.Node.State() {
	case foldertree.Checked:
		check = checkedStyle.Render("[x]")
	case foldertree.Partial:
		check = partialStyle.Render("[-]")
	default:
		check = "[ ]"
	}

	fold := "  "
	if len(row.Node.Children) > 0 {
		fold = "▾ "
		if !row.Node.Open {
			fold = "▸ "
		}
	}

	name := row.Node.Name
	if match {
		name = matchStyle.Render(name)
	}
	if i == m.cursor {
		name = cursorStyle.Render(name)
	}

	return fmt.Sprintf("%s %s%s %s%s", cursor, strings.Repeat("  ", row.Depth), check, fold, name)
}

// ensureCursorVisible makes sure the cursor is visible in the viewport
func (m *model) ensureCursorVisible() {
	if m.viewport.Height <= 0 {
		return
	}
	top := m.viewport.YOffset
	bottom := m.viewport.YOffset + m.viewport.Height - 1

	if m.cursor < top {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor > bottom {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}
