package foldertree

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hayeah/treepick/internal/pattern"
)

var (
	// ErrParseEmpty means the input had no listing entries.
	ErrParseEmpty = errors.New("no valid structure found")
	// ErrParseMalformed means parsing failed unexpectedly.
	ErrParseMalformed = errors.New("failed to parse folder tree")
)

// Session holds the state of one selection session: the text the user gave,
// the tree parsed from it and the last user-facing message.
//
// Every mutation works on a copy of the tree and swaps it in only when the
// step succeeds, so Tree is never observed half-updated. Paths taken from an
// older Tree must not be applied after a newer one has replaced it.
type Session struct {
	Input   string
	Tree    Tree
	Message string

	err    error
	logger *slog.Logger
}

// NewSession creates an empty session. A nil logger discards log output.
func NewSession(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{logger: logger}
}

// Err returns the error of the last parse, if any.
func (s *Session) Err() error {
	return s.err
}

// Parse replaces the tree with one parsed from text. Parse problems are
// reported through Message and Err; the input is kept so it can be fixed.
func (s *Session) Parse(text string) {
	s.Input = text

	tree, err := safeParse(text)
	switch {
	case err != nil:
		s.logger.Error("parse folder tree", "error", err)
		s.reset(ErrParseMalformed)
	case len(tree) == 0:
		s.logger.Debug("no tree entries in input", "bytes", len(text))
		s.reset(ErrParseEmpty)
	default:
		s.Tree = tree
		s.Message = ""
		s.err = nil
		s.logger.Debug("parsed folder tree", "roots", len(tree), "nodes", tree.Len())
	}
}

func (s *Session) reset(err error) {
	s.Tree = nil
	s.err = err
	s.Message = err.Error()
}

// parseFunc is swapped out in tests.
var parseFunc = Parse

func safeParse(text string) (tree Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrParseMalformed, r)
		}
	}()
	return parseFunc(text), nil
}

// Clear drops the input, the tree and any message.
func (s *Session) Clear() {
	s.Input = ""
	s.Tree = nil
	s.Message = ""
	s.err = nil
}

// update runs fn on a copy of the tree and installs the copy if fn succeeds.
func (s *Session) update(fn func(Tree) error) error {
	next := s.Tree.Clone()
	if err := fn(next); err != nil {
		return err
	}
	s.Tree = next
	return nil
}

// Toggle flips the node at path and its subtree.
func (s *Session) Toggle(path Path) error {
	return s.update(func(t Tree) error {
		return t.Toggle(path)
	})
}

// ToggleOpen expands or collapses the node at path.
func (s *Session) ToggleOpen(path Path) error {
	return s.update(func(t Tree) error {
		return t.ToggleOpen(path)
	})
}

// SelectAll checks every node.
func (s *Session) SelectAll() {
	_ = s.update(func(t Tree) error {
		t.SelectAll()
		return nil
	})
}

// DeselectAll unchecks every node.
func (s *Session) DeselectAll() {
	_ = s.update(func(t Tree) error {
		t.DeselectAll()
		return nil
	})
}

// SelectPatterns checks the leaves matched by patterns, given one per line.
// See pattern.ParseLines for the syntax.
func (s *Session) SelectPatterns(patterns string) (int, error) {
	if strings.TrimSpace(patterns) == "" {
		return 0, nil
	}
	matchers, err := pattern.ParseLines(patterns)
	if err != nil {
		return 0, err
	}
	total := 0
	err = s.update(func(t Tree) error {
		for _, m := range matchers {
			n, err := t.SelectMatching(m)
			if err != nil {
				return err
			}
			total += n
			if exact, ok := m.(pattern.ExactMatcher); ok && n == 0 {
				s.warnNoMatch(t, exact.Path)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Debug("preselected paths", "patterns", len(matchers), "matched", total)
	return total, nil
}

func (s *Session) warnNoMatch(t Tree, path string) {
	if closest, _, ok := pattern.Closest(path, t.LeafPaths()); ok {
		s.logger.Warn("exact pattern matched nothing", "path", path, "closest", closest)
		return
	}
	s.logger.Warn("exact pattern matched nothing", "path", path)
}

// Selected returns the selected paths.
func (s *Session) Selected() []string {
	return s.Tree.Selected()
}
