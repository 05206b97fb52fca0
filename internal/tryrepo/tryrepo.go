// Package tryrepo derives the repository root from the location of the
// running binary and delegates to pre-commit's try-repo subcommand.
package tryrepo

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const (
	delegate = "pre-commit"
	hookID   = "run-pip-compile"
)

// ErrPreCommitNotFound is returned by Run when the pre-commit executable
// cannot be resolved on PATH.
var ErrPreCommitNotFound = errors.New("pre-commit not found in PATH")

// Root returns the repository root for the executable at exe: symlinks and
// relative segments are resolved to a canonical absolute path, and the root
// is the parent of the directory containing the executable.
func Root(exe string) (string, error) {
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", exe, err)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", resolved, err)
	}
	return filepath.Dir(filepath.Dir(abs)), nil
}

// Argv returns the delegated argument vector for root. Forwarded arguments
// keep their order and content, after the fixed hook id.
func Argv(root string, forwarded []string) []string {
	argv := []string{delegate, "try-repo", root, hookID}
	return append(argv, forwarded...)
}

// Run executes pre-commit try-repo against root with the forwarded
// arguments. The child inherits stdin/stdout/stderr and its exit code is
// returned. Run returns ErrPreCommitNotFound without starting anything if
// the delegate is missing from PATH.
func Run(root string, forwarded []string) (int, error) {
	path, err := exec.LookPath(delegate)
	if err != nil {
		return 0, ErrPreCommitNotFound
	}

	argv := Argv(root, forwarded)
	cmd := exec.Command(path, argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code < 0 {
				code = 1
			}
			return code, nil
		}
		return 0, fmt.Errorf("running %s: %w", delegate, err)
	}
	return 0, nil
}
