package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dycw/hooksmith/internal/config"
	"github.com/dycw/hooksmith/internal/project"
	"github.com/dycw/hooksmith/internal/runlog"
	ver "github.com/dycw/hooksmith/internal/version"
)

var bumpVersionCmd = &cobra.Command{
	Use:   "run-version-bump [files...]",
	Short: "Ensure the declared version is a bump of the release branch",
	Long: `Compares the current_version declared in the version file against the
one on the release branch. A major, minor or patch bump passes. Anything
else is repaired by running bump2version to the patch bump, leaving the
change for pre-commit to flag.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		root, err := project.FindRoot(cwd)
		if err != nil {
			return err
		}
		cfg := config.LoadOrDefault(root)

		file := cfg.VersionFile
		if setupCfg, _ := cmd.Flags().GetBool("setup-cfg"); setupCfg {
			file = "setup.cfg"
		}

		start := time.Now()
		bumpErr := runVersionBump(root, file, cfg.ReleaseBranch)

		exitCode := 0
		if bumpErr != nil {
			exitCode = 1
		}
		runlog.Record(root, runlog.Run{
			Hook:      "run-version-bump",
			StartedAt: start,
			Duration:  time.Since(start),
			ExitCode:  exitCode,
			Files:     len(args),
		})
		return bumpErr
	},
}

func runVersionBump(root, file, branch string) error {
	target, err := ver.Check(root, file, branch)
	if err != nil {
		return err
	}
	if target == nil {
		return nil
	}
	if err := ver.Fix(nil, root, file, *target); err != nil {
		if errors.Is(err, ver.ErrBumpToolNotFound) {
			return fmt.Errorf("%w; is bump2version installed?", err)
		}
		return err
	}
	// The rewrite shows up as a modified file, which pre-commit flags.
	fmt.Printf("bumped %s to %s\n", file, target)
	return nil
}

func init() {
	bumpVersionCmd.Flags().Bool("setup-cfg", false, "Read setup.cfg instead of the configured version file")
	rootCmd.AddCommand(bumpVersionCmd)
}
