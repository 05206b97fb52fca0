// Package pipeline runs the Python formatting and linting tool chain
// over a set of files. Each file passes through the fixers first and the
// linters last, stopping at the first tool that fails.
package pipeline

import (
	"embed"
	"os"
	"os/exec"
	"path/filepath"
)

//go:embed all:configs
var configFS embed.FS

// Runner executes external commands.
type Runner interface {
	CombinedOutput(name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) CombinedOutput(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Result describes a tool failure for one file.
type Result struct {
	File   string
	Tool   string
	Output []byte
	Err    error
}

type step struct {
	name string
	args []string
}

// Pipeline holds the tool sequence and the materialized config files the
// linters need on disk.
type Pipeline struct {
	runner Runner
	steps  []step
	dir    string
}

// New materializes the packaged flake8 and mypy configs into a temp dir
// and builds the tool sequence around them. Callers must Close the
// pipeline to remove the temp dir.
func New(r Runner) (*Pipeline, error) {
	if r == nil {
		r = execRunner{}
	}
	dir, err := os.MkdirTemp("", "hooksmith-python-")
	if err != nil {
		return nil, err
	}
	for _, name := range []string{".flake8", "mypy.ini"} {
		data, err := configFS.ReadFile("configs/" + name)
		if err != nil {
			os.RemoveAll(dir)
			return nil, err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			os.RemoveAll(dir)
			return nil, err
		}
	}
	return &Pipeline{
		runner: r,
		steps: []step{
			{"add-trailing-comma", []string{"--exit-zero-even-if-changed", "--py36-plus"}},
			{"autoflake", []string{"--in-place", "--remove-all-unused-imports", "--remove-duplicate-keys", "--remove-unused-variables"}},
			{"pyupgrade", []string{"--exit-zero-even-if-changed", "--py38-plus"}},
			{"reorder-python-imports", []string{"--exit-zero-even-if-changed", "--py38-plus"}},
			{"yesqa", nil},
			{"black", nil},
			{"flake8", []string{"--config=" + filepath.Join(dir, ".flake8")}},
			{"mypy", []string{"--config=" + filepath.Join(dir, "mypy.ini")}},
		},
		dir: dir,
	}, nil
}

// Close removes the materialized config files.
func (p *Pipeline) Close() error {
	return os.RemoveAll(p.dir)
}

// ProcessFile runs the file through the tool sequence. It returns nil
// when every tool passes, or the first failure with the tool's output.
func (p *Pipeline) ProcessFile(file string) *Result {
	for _, s := range p.steps {
		args := append(append([]string(nil), s.args...), file)
		out, err := p.runner.CombinedOutput(s.name, args...)
		if err != nil {
			return &Result{File: file, Tool: s.name, Output: out, Err: err}
		}
	}
	return nil
}

// Process runs every file through the tool chain and returns the
// failures. onFile, when non-nil, is called after each file so callers
// can render progress.
func (p *Pipeline) Process(files []string, onFile func(file string, failed bool)) []Result {
	var failures []Result
	for _, file := range files {
		res := p.ProcessFile(file)
		if res != nil {
			failures = append(failures, *res)
		}
		if onFile != nil {
			onFile(file, res != nil)
		}
	}
	return failures
}
