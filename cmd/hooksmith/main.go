package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "hooksmith",
	Short: "Pre-commit hooks that keep repositories on the house style",
	Long: `Hooksmith bundles the pre-commit hooks shared across repositories:
settings checks against canonical templates, semver bump enforcement
and the Python formatter and linter chain.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the hooksmith version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hooksmith %s\n", version)
	},
}

func main() {
	rootCmd.AddCommand(versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
