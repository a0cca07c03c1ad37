package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/atotto/clipboard"

	"github.com/hayeah/treepick/internal/combine"
	"github.com/hayeah/treepick/internal/metrics"
)

// OutCmd defines the command-line arguments for the out subcommand
type OutCmd struct {
	InputArgs
	All            bool   `arg:"-a,--all" help:"select every entry"`
	Interactive    bool   `arg:"-i,--interactive" help:"pick the files in the terminal UI first"`
	Base           string `arg:"-b,--base" help:"directory the listed paths are relative to"`
	Name           string `arg:"-n,--name" help:"output file name (default from config, then output.txt)"`
	Output         string `arg:"-o,--output" help:"write to this path instead of --name ('-' = stdout)"`
	Clipboard      bool   `arg:"-c,--clipboard" help:"copy the output to the clipboard instead of writing a file"`
	TokenEstimator string `arg:"--token-estimator" help:"token estimator: simple or tiktoken"`
	Metrics        string `arg:"-m,--metrics" help:"write metrics JSON to this path ('-' = stderr)"`
}

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// OutRunner encapsulates the state and behavior for the out subcommand
type OutRunner struct {
	Args    OutCmd
	Env     *AppEnv
	Counter metrics.Counter
	Pick    PickFunc
}

// NewOutRunner creates and initializes a new OutRunner
func NewOutRunner(cmd OutCmd, env *AppEnv) (*OutRunner, error) {
	if cmd.Clipboard && cmd.Output != "" {
		return nil, fmt.Errorf("--clipboard and --output can't be used together")
	}

	estimator := cmd.TokenEstimator
	if estimator == "" {
		estimator = env.Config.TokenEstimator
	}
	counter, err := metrics.NewCounter(estimator)
	if err != nil {
		return nil, err
	}

	return &OutRunner{Args: cmd, Env: env, Counter: counter, Pick: runSelectUI}, nil
}

// destination is the output file name, or "-" for stdout.
func (r *OutRunner) destination() string {
	if r.Args.Output != "" {
		return r.Args.Output
	}
	name := r.Args.Name
	if name == "" {
		name = r.Env.Config.OutputName
	}
	return combine.OutputName(name, "output.txt", ".txt")
}

// Run combines the selected files of the listing into one artifact.
func (r *OutRunner) Run() error {
	s, src, err := loadSession(r.Args.InputArgs, r.Env)
	if err != nil {
		return err
	}

	switch {
	case r.Args.Interactive:
		confirmed, err := r.Pick(s, src.programOptions()...)
		if err != nil {
			return err
		}
		if !confirmed {
			r.Env.Logger.Debug("selection aborted")
			return nil
		}
	case r.Args.All:
		s.SelectAll()
	}

	// folders listed without children are dropped by the writer
	files := s.Tree.SelectedLeaves()
	if len(files) == 0 {
		return errors.New("no files selected")
	}

	base := r.Args.Base
	if base == "" {
		base = src.BaseDir
	}

	om := metrics.NewOutputMetrics(r.Counter, runtime.NumCPU())
	var buf bytes.Buffer
	n, werr := combine.NewWriter(base, om, r.Env.Logger).Write(&buf, files)
	if n == 0 {
		om.Wait()
		if werr != nil {
			return fmt.Errorf("nothing to combine: %w", werr)
		}
		return errors.New("no readable text files selected")
	}
	if werr != nil {
		r.Env.Logger.Warn("some selected files were skipped", "error", werr)
	}

	dest := r.destination()
	if r.Args.Clipboard {
		dest = "clipboard"
	}
	om.Add(metrics.KindFinal, dest, buf.Bytes())
	om.Wait()

	switch {
	case r.Args.Clipboard:
		if err := writeClipboard(buf.String()); err != nil {
			return fmt.Errorf("failed to write clipboard: %w", err)
		}
	case dest == "-":
		if _, err := r.Env.Stdout.Write(buf.Bytes()); err != nil {
			return err
		}
	default:
		if err := os.WriteFile(dest, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	final, _ := om.Get(metrics.KindFinal, dest)
	if dest != "-" {
		fmt.Fprintf(r.Env.Stderr, "Combined %d files into %s (%d bytes, ~%d tokens)\n", n, dest, final.Bytes, final.Tokens)
	}

	if r.Args.Metrics != "" {
		return r.writeMetrics(om)
	}
	return nil
}

func (r *OutRunner) writeMetrics(om *metrics.OutputMetrics) error {
	data, err := json.MarshalIndent(om, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if r.Args.Metrics == "-" {
		_, err = r.Env.Stderr.Write(data)
		return err
	}
	return os.WriteFile(r.Args.Metrics, data, 0644)
}
