// Package settings validates a repository's tooling configuration files
// against the canonical templates, rewriting the ones that must match the
// remote byte for byte.
package settings

import (
	"errors"
	"path/filepath"
)

// Context carries the state shared by all checkers for one run.
type Context struct {
	Root   string
	Client *Client
}

// A Checker validates one of the repository's settings files.
type Checker interface {
	Name() string
	Check(ctx *Context) error
}

// ForFile returns the checker responsible for the given filename, or nil
// when the file has none. Filenames are repo-relative.
func ForFile(filename string) Checker {
	switch filepath.Base(filename) {
	case ".flake8":
		return syncChecker{file: ".flake8"}
	case ".gitignore":
		return gitignoreChecker{}
	case ".pre-commit-config.yaml":
		return preCommitConfigChecker{}
	case "pull-request.yml":
		return workflowChecker{
			file:      ".github/workflows/pull-request.yml",
			mandatory: []string{"pre-commit"},
			optional:  []string{"pytest"},
		}
	case "push.yml":
		return syncChecker{file: ".github/workflows/push.yml"}
	case "pyproject.toml":
		return pyprojectChecker{}
	case "pyrightconfig.json":
		return pyrightChecker{}
	default:
		return nil
	}
}

// CheckFiles runs the checker for every filename that has one. Files
// without a checker are skipped. Every file is checked even after an
// earlier one fails, and the failures are joined into a single error.
func CheckFiles(ctx *Context, filenames []string) error {
	var errs []error
	for _, filename := range filenames {
		checker := ForFile(filename)
		if checker == nil {
			continue
		}
		if err := checker.Check(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
