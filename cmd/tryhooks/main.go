// Command tryhooks runs this repository's hooks through pre-commit's
// try-repo facility. The repository root is taken to be the parent of the
// directory holding the tryhooks binary, so the command works from any
// working directory. All arguments are forwarded verbatim to pre-commit
// after the fixed run-pip-compile hook id; there are no flags of its own.
package main

import (
	"fmt"
	"os"

	"github.com/dycw/hooksmith/internal/tryrepo"
)

func main() {
	exe, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tryhooks: locating own executable: %v\n", err)
		os.Exit(1)
	}

	root, err := tryrepo.Root(exe)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tryhooks: %v\n", err)
		os.Exit(1)
	}

	code, err := tryrepo.Run(root, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "tryhooks: %v\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}
