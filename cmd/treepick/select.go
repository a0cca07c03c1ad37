package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hayeah/treepick/foldertree"
)

// SelectCmd defines the command-line arguments for the select subcommand
type SelectCmd struct {
	InputArgs
	Output    string `arg:"-o,--output" help:"write the selected paths to this file instead of stdout"`
	FilesOnly bool   `arg:"-f,--files-only" help:"leave folders out of the result"`
}

// PickFunc runs the interactive picker over a session and reports whether the
// user confirmed the selection.
type PickFunc func(s *foldertree.Session, opts ...tea.ProgramOption) (bool, error)

// SelectRunner encapsulates the state and behavior for the select subcommand
type SelectRunner struct {
	Args SelectCmd
	Env  *AppEnv
	Pick PickFunc
}

// NewSelectRunner creates a SelectRunner using the terminal UI.
func NewSelectRunner(cmd SelectCmd, env *AppEnv) *SelectRunner {
	return &SelectRunner{Args: cmd, Env: env, Pick: runSelectUI}
}

// Run executes the select subcommand. Without a listing the picker starts in
// its editor, so one can be pasted in.
func (r *SelectRunner) Run() error {
	src, err := r.Args.read(r.Env)
	if errors.Is(err, errNoInput) {
		src = &source{BaseDir: r.Env.Config.BaseDir}
	} else if err != nil {
		return err
	}

	s := foldertree.NewSession(r.Env.Logger)
	if src.Text != "" {
		s.Parse(src.Text)
	}
	if len(s.Tree) > 0 {
		if _, err := s.SelectPatterns(r.Args.selectPattern(r.Env)); err != nil {
			return fmt.Errorf("invalid select pattern: %w", err)
		}
	}

	confirmed, err := r.Pick(s, src.programOptions()...)
	if err != nil {
		return err
	}
	if !confirmed {
		r.Env.Logger.Debug("selection aborted")
		return nil
	}

	paths := s.Selected()
	if r.Args.FilesOnly {
		paths = s.Tree.SelectedFiles()
	}
	return writePaths(r.Env.Stdout, r.Args.Output, paths)
}

// writePaths prints one path per line to w, or to the file at dest when set.
func writePaths(w io.Writer, dest string, paths []string) (err error) {
	if dest != "" && dest != "-" {
		f, cerr := os.Create(dest)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close %s: %w", dest, cerr)
			}
		}()
		w = f
	}
	for _, p := range paths {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}
