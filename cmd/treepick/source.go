package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hayeah/treepick/foldertree"
	"github.com/hayeah/treepick/internal/listing"
)

// errNoInput means no listing was given and stdin is a terminal.
var errNoInput = errors.New("no tree listing: pass FILE, pipe one on stdin, or use --dir or --paste")

// InputArgs are the flags naming where a tree listing comes from.
type InputArgs struct {
	File   string `arg:"positional" help:"tree listing file ('-' reads stdin)"`
	Dir    string `arg:"-D,--dir" help:"list this directory instead of reading a listing"`
	Paste  bool   `arg:"-p,--paste" help:"read the listing from the clipboard"`
	Select string `arg:"-s,--select" help:"preselect paths matching patterns (';' separated)"`
}

// source is a tree listing together with the directory its paths are
// relative to.
type source struct {
	Text      string
	BaseDir   string
	FromStdin bool
}

// programOptions are the extra TUI options for picking from this source.
func (src *source) programOptions() []tea.ProgramOption {
	if src.FromStdin {
		// stdin carried the listing, so keys come from the terminal
		return []tea.ProgramOption{tea.WithInputTTY()}
	}
	return nil
}

// readClipboard is swapped out in tests.
var readClipboard = clipboard.ReadAll

func (in InputArgs) read(env *AppEnv) (*source, error) {
	base := env.Config.BaseDir

	switch {
	case in.Dir != "":
		var sb strings.Builder
		dt := listing.NewDirectoryTree(in.Dir, env.Config.Exclude...)
		if err := dt.Write(&sb); err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", in.Dir, err)
		}
		abs, err := filepath.Abs(in.Dir)
		if err != nil {
			return nil, err
		}
		// listed paths start with the directory's own name
		return &source{Text: sb.String(), BaseDir: filepath.Dir(abs)}, nil

	case in.Paste:
		text, err := readClipboard()
		if err != nil {
			return nil, fmt.Errorf("failed to read clipboard: %w", err)
		}
		return &source{Text: text, BaseDir: base}, nil

	case in.File != "" && in.File != "-":
		data, err := os.ReadFile(in.File)
		if err != nil {
			return nil, err
		}
		return &source{Text: string(data), BaseDir: base}, nil

	default:
		if in.File == "" && env.StdinIsTTY {
			return nil, errNoInput
		}
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return &source{Text: string(data), BaseDir: base, FromStdin: true}, nil
	}
}

// selectPattern is the --select flag, or the config's select when unset.
func (in InputArgs) selectPattern(env *AppEnv) string {
	if in.Select != "" {
		return in.Select
	}
	return env.Config.Select
}

// loadSession parses the listing named by in and applies its preselection.
// A listing without entries is an error.
func loadSession(in InputArgs, env *AppEnv) (*foldertree.Session, *source, error) {
	src, err := in.read(env)
	if err != nil {
		return nil, nil, err
	}

	s := foldertree.NewSession(env.Logger)
	s.Parse(src.Text)
	if err := s.Err(); err != nil {
		return nil, nil, err
	}

	if n, err := s.SelectPatterns(in.selectPattern(env)); err != nil {
		return nil, nil, fmt.Errorf("invalid select pattern: %w", err)
	} else if n > 0 {
		env.Logger.Debug("preselected", "count", n)
	}
	return s, src, nil
}
