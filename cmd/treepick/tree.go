package main

import (
	"github.com/hayeah/treepick/internal/listing"
)

// TreeCmd defines the command-line arguments for the tree subcommand
type TreeCmd struct {
	Dir     string   `arg:"positional" default:"." help:"directory to list"`
	Exclude []string `arg:"-x,--exclude,separate" help:"extra gitignore-style pattern to leave out (repeatable)"`
}

// TreeRunner prints a listing that select, ls and out can read back.
type TreeRunner struct {
	Args TreeCmd
	Env  *AppEnv
}

func NewTreeRunner(cmd TreeCmd, env *AppEnv) *TreeRunner {
	return &TreeRunner{Args: cmd, Env: env}
}

func (r *TreeRunner) Run() error {
	dir := r.Args.Dir
	if dir == "" {
		dir = "."
	}
	exclude := append(append([]string{}, r.Env.Config.Exclude...), r.Args.Exclude...)
	return listing.NewDirectoryTree(dir, exclude...).Write(r.Env.Stdout)
}
