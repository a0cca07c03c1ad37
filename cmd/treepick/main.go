package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/mattn/go-isatty"

	"github.com/hayeah/treepick/internal/config"
	"github.com/hayeah/treepick/internal/logging"
)

// Args defines the command-line arguments with subcommands
type Args struct {
	Config  string `arg:"--config" help:"config file (default: treepick.toml in the working directory)"`
	Verbose bool   `arg:"-v,--verbose" help:"log debug output to stderr"`

	Select *SelectCmd `arg:"subcommand:select" help:"Pick files interactively from a tree listing"`
	Ls     *LsCmd     `arg:"subcommand:ls" help:"Print the paths selected from a tree listing"`
	Out    *OutCmd    `arg:"subcommand:out" help:"Combine the selected files into one text file"`
	Tree   *TreeCmd   `arg:"subcommand:tree" help:"Print a tree listing of a directory"`
}

// AppEnv is what every subcommand runs against.
type AppEnv struct {
	Config *config.Config
	Logger *slog.Logger

	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	StdinIsTTY bool
}

// ProvideAppEnv loads the config and builds the logger for args.
func ProvideAppEnv(args Args) (*AppEnv, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(args.Config, wd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(os.Stderr, args.Verbose, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		logger.Debug("loaded config", "path", cfg.Path)
	}

	return &AppEnv{
		Config:     cfg,
		Logger:     logger,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		StdinIsTTY: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}, nil
}

// Runner encapsulates the state and behavior for the CLI
type Runner struct {
	Args Args
	Env  *AppEnv
}

// NewRunner creates and initializes a new Runner
func NewRunner(args Args, env *AppEnv) *Runner {
	return &Runner{Args: args, Env: env}
}

// Run dispatches to the appropriate subcommand
func (r *Runner) Run() error {
	switch {
	case r.Args.Select != nil:
		return NewSelectRunner(*r.Args.Select, r.Env).Run()
	case r.Args.Ls != nil:
		return NewLsRunner(*r.Args.Ls, r.Env).Run()
	case r.Args.Out != nil:
		outRunner, err := NewOutRunner(*r.Args.Out, r.Env)
		if err != nil {
			return err
		}
		return outRunner.Run()
	case r.Args.Tree != nil:
		return NewTreeRunner(*r.Args.Tree, r.Env).Run()
	default:
		return fmt.Errorf("no subcommand specified, use 'select', 'ls', 'out', or 'tree'")
	}
}

func main() {
	var args Args
	parser := arg.MustParse(&args)

	if parser.Subcommand() == nil {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	env, err := ProvideAppEnv(args)
	if err != nil {
		log.Fatal(err)
	}

	if err := NewRunner(args, env).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "treepick:", err)
		os.Exit(1)
	}
}
