package main

// LsCmd defines the command-line arguments for the ls subcommand
type LsCmd struct {
	InputArgs
	All       bool `arg:"-a,--all" help:"select every entry"`
	FilesOnly bool `arg:"-f,--files-only" help:"leave folders out of the result"`
}

// LsRunner encapsulates the state and behavior for the ls subcommand
type LsRunner struct {
	Args LsCmd
	Env  *AppEnv
}

// NewLsRunner creates and initializes a new LsRunner
func NewLsRunner(cmd LsCmd, env *AppEnv) *LsRunner {
	return &LsRunner{Args: cmd, Env: env}
}

// Run prints the selected paths of the listing in tree order.
func (r *LsRunner) Run() error {
	s, _, err := loadSession(r.Args.InputArgs, r.Env)
	if err != nil {
		return err
	}
	if r.Args.All {
		s.SelectAll()
	}

	paths := s.Selected()
	if r.Args.FilesOnly {
		paths = s.Tree.SelectedFiles()
	}
	return writePaths(r.Env.Stdout, "", paths)
}
