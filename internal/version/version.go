// Package version enforces that the working tree's declared version is a
// valid semver bump of the release branch's version, and repairs it via
// bump2version when it is not.
package version

import (
	"crypto/md5"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/blang/semver"

	"github.com/dycw/hooksmith/internal/git"
	"github.com/dycw/hooksmith/internal/project"
)

// ErrBumpToolNotFound is returned by Fix when the bump2version executable
// cannot be resolved on PATH.
var ErrBumpToolNotFound = errors.New("bump2version not found in PATH")

var versionPattern = regexp.MustCompile(`(?m)current_version = (\d+\.\d+\.\d+)$`)

// Runner executes external commands.
type Runner interface {
	CombinedOutput(name string, args ...string) ([]byte, error)
}

type execRunner struct {
	dir string
}

func (r execRunner) CombinedOutput(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = r.dir
	return cmd.CombinedOutput()
}

// Parse extracts the single current_version declaration in text.
func Parse(text string) (semver.Version, error) {
	matches := versionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) != 1 {
		return semver.Version{}, fmt.Errorf("expected exactly one current_version line, found %d", len(matches))
	}
	return semver.Parse(matches[0][1])
}

// Check compares the version declared in file against the one on branch.
// A current version that is the major, minor or patch bump of the branch
// version is compliant and Check returns nil. Anything else returns the
// patch-bumped branch version as the version to move to.
func Check(root, file, branch string) (*semver.Version, error) {
	data, err := os.ReadFile(filepath.Join(root, file))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	current, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	branchVer, err := branchVersion(root, file, branch)
	if err != nil {
		return nil, err
	}

	major := semver.Version{Major: branchVer.Major + 1}
	minor := semver.Version{Major: branchVer.Major, Minor: branchVer.Minor + 1}
	patch := semver.Version{Major: branchVer.Major, Minor: branchVer.Minor, Patch: branchVer.Patch + 1}
	if current.Equals(major) || current.Equals(minor) || current.Equals(patch) {
		return nil, nil
	}
	return &patch, nil
}

// Fix runs bump2version to move the repository to version v, then trims
// the trailing spaces bump2version leaves in the version file.
func Fix(r Runner, root, file string, v semver.Version) error {
	if r == nil {
		r = execRunner{dir: root}
	}
	args := []string{"--allow-dirty", "--new-version=" + v.String(), "patch"}
	out, err := r.CombinedOutput("bump2version", args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return ErrBumpToolNotFound
		}
		return fmt.Errorf("bump2version %s failed: %w\n%s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return trimTrailingSpaces(filepath.Join(root, file))
}

// branchVersion reads the version declared on branch, caching the result
// per (repository, commit) under the user cache dir. The cache key uses
// the resolved commit, so it never goes stale.
func branchVersion(root, file, branch string) (semver.Version, error) {
	commit, err := git.RevParse(root, branch)
	if err != nil {
		return semver.Version{}, err
	}

	cachePath, err := cacheFile(root, commit)
	if err == nil {
		if data, readErr := os.ReadFile(cachePath); readErr == nil {
			if v, parseErr := semver.Parse(strings.TrimSpace(string(data))); parseErr == nil {
				return v, nil
			}
		}
	}

	text, err := git.ShowFile(root, commit, file)
	if err != nil {
		return semver.Version{}, err
	}
	v, err := Parse(text)
	if err != nil {
		return semver.Version{}, fmt.Errorf("%s at %s: %w", file, branch, err)
	}

	if cachePath != "" {
		if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err == nil {
			os.WriteFile(cachePath, []byte(v.String()), 0644)
		}
	}
	return v, nil
}

func cacheFile(root, commit string) (string, error) {
	cacheDir, err := project.CacheDir()
	if err != nil {
		return "", err
	}
	repoKey := fmt.Sprintf("%x", md5.Sum([]byte(root)))
	return filepath.Join(cacheDir, "bump-version", repoKey, commit), nil
}

func trimTrailingSpaces(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.SplitAfter(string(data), "\n")
	for i, line := range lines {
		if strings.HasSuffix(line, "\n") {
			lines[i] = strings.TrimRight(strings.TrimSuffix(line, "\n"), " ") + "\n"
		} else {
			lines[i] = strings.TrimRight(line, " ")
		}
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "")), 0644)
}
