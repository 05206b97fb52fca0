package git

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// IsRepo returns true if path is inside a git repository.
func IsRepo(path string) bool {
	cmd := exec.Command("git", "-C", path, "rev-parse", "--git-dir")
	return cmd.Run() == nil
}

// GitDir returns the absolute path of the git directory for the repo at path.
func GitDir(path string) (string, error) {
	cmd := exec.Command("git", "-C", path, "rev-parse", "--absolute-git-dir")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse --absolute-git-dir: %w\n%s", err, exitStderr(err))
	}
	return strings.TrimSpace(string(out)), nil
}

// RevParse resolves ref to a full commit SHA in the repo at path.
func RevParse(path, ref string) (string, error) {
	cmd := exec.Command("git", "-C", path, "rev-parse", ref)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse %s: %w\n%s", ref, err, exitStderr(err))
	}
	return strings.TrimSpace(string(out)), nil
}

// ShowFile returns the contents of file as committed at rev in the repo
// at path.
func ShowFile(path, rev, file string) (string, error) {
	cmd := exec.Command("git", "-C", path, "show", rev+":"+file)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git show %s:%s: %w\n%s", rev, file, err, exitStderr(err))
	}
	return string(out), nil
}

func exitStderr(err error) []byte {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Stderr
	}
	return nil
}
