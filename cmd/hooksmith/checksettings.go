package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dycw/hooksmith/internal/config"
	"github.com/dycw/hooksmith/internal/project"
	"github.com/dycw/hooksmith/internal/runlog"
	"github.com/dycw/hooksmith/internal/settings"
)

var checkSettingsCmd = &cobra.Command{
	Use:   "check-settings [files...]",
	Short: "Check settings files against the canonical templates",
	Long: `Validates the settings files pre-commit passes in: .gitignore group
ordering, .pre-commit-config.yaml hook tables, workflow files against
the remote templates, and the pyproject/pyright tool sections. Files
that must match the remote byte for byte are rewritten when they drift,
and the hook fails so the rewrite lands in the next commit.`,
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

		ctx := &settings.Context{Root: root, Client: settings.NewClient(cfg)}
		start := time.Now()
		checkErr := settings.CheckFiles(ctx, args)

		exitCode := 0
		if checkErr != nil {
			exitCode = 1
		}
		runlog.Record(root, runlog.Run{
			Hook:      "check-settings",
			StartedAt: start,
			Duration:  time.Since(start),
			ExitCode:  exitCode,
			Files:     len(args),
		})
		return checkErr
	},
}

func init() {
	rootCmd.AddCommand(checkSettingsCmd)
}
