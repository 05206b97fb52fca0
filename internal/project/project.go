// Package project locates the repository root and the directories
// hooksmith keeps state in.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DotDirName is the per-repository directory holding hooksmith state.
const DotDirName = ".hooksmith"

// FindRoot walks up from startPath to the first directory containing a
// .git entry (directory or worktree file) and returns it.
func FindRoot(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}
	dir := absPath
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not inside a git repository: no .git found above %s", startPath)
		}
		dir = parent
	}
}

// DotDir returns the hooksmith directory under root.
func DotDir(root string) string {
	return filepath.Join(root, DotDirName)
}

// CacheDir returns the user-level cache directory for hooksmith.
func CacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating user cache dir: %w", err)
	}
	return filepath.Join(base, "hooksmith"), nil
}

// EnsureExcluded adds the hooksmith directory to .git/info/exclude so local
// state never shows up in git status. Calling it again is a no-op.
func EnsureExcluded(root string) error {
	excludeFile := filepath.Join(root, ".git", "info", "exclude")
	entry := DotDirName + "/"

	if data, err := os.ReadFile(excludeFile); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) == entry {
				return nil
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(excludeFile), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(excludeFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString("# hooksmith local state\n" + entry + "\n")
	return err
}
