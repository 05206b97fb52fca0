package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/dycw/hooksmith/internal/config"
	gitpkg "github.com/dycw/hooksmith/internal/git"
	"github.com/dycw/hooksmith/internal/project"
)

const starterPreCommitConfig = `repos:
  - repo: https://github.com/dycw/hooksmith
    rev: master
    hooks:
      - id: check-settings
      - id: run-version-bump
`

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize hooksmith for a repository",
	Long: `Writes .hooksmith/config.json for a repository and adds the directory
to .git/info/exclude. Run from a terminal it asks for the settings
interactively; with flags or without a terminal the defaults apply.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		if !gitpkg.IsRepo(absPath) {
			return fmt.Errorf("%s is not a git repository", absPath)
		}

		force, _ := cmd.Flags().GetBool("force")
		configPath := filepath.Join(project.DotDir(absPath), config.ConfigFile)
		if _, err := os.Stat(configPath); err == nil && !force {
			return fmt.Errorf("hooksmith already initialized at %s (use --force to overwrite)", absPath)
		}

		cfg := config.DefaultConfig()
		templateURL, _ := cmd.Flags().GetString("template-url")
		versionFile, _ := cmd.Flags().GetString("version-file")
		releaseBranch, _ := cmd.Flags().GetString("release-branch")
		flagged := templateURL != "" || versionFile != "" || releaseBranch != ""
		if templateURL != "" {
			cfg.TemplateBaseURL = templateURL
		}
		if versionFile != "" {
			cfg.VersionFile = versionFile
		}
		if releaseBranch != "" {
			cfg.ReleaseBranch = releaseBranch
		}

		writeStarter := true
		if !flagged && isTerminalFile(os.Stdin) && isTerminalFile(os.Stdout) {
			if err := promptConfig(cfg, &writeStarter); err != nil {
				return err
			}
		}

		if err := config.Save(absPath, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		if err := project.EnsureExcluded(absPath); err != nil {
			return fmt.Errorf("updating .git/info/exclude: %w", err)
		}

		preCommitConfig := filepath.Join(absPath, ".pre-commit-config.yaml")
		if _, err := os.Stat(preCommitConfig); writeStarter && os.IsNotExist(err) {
			if err := os.WriteFile(preCommitConfig, []byte(starterPreCommitConfig), 0644); err != nil {
				return fmt.Errorf("writing starter .pre-commit-config.yaml: %w", err)
			}
			fmt.Println("Wrote starter .pre-commit-config.yaml")
		}

		fmt.Printf("Hooksmith initialized at %s\n", absPath)
		fmt.Printf("Templates: %s\n", cfg.TemplateBaseURL)
		return nil
	},
}

func promptConfig(cfg *config.Config, writeStarter *bool) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Template base URL").
				Description("Canonical settings files are fetched from here").
				Value(&cfg.TemplateBaseURL),
			huh.NewInput().
				Title("Version file").
				Description("File holding the current_version declaration").
				Value(&cfg.VersionFile),
			huh.NewSelect[string]().
				Title("Release branch").
				Options(huh.NewOptions("origin/master", "origin/main")...).
				Value(&cfg.ReleaseBranch),
			huh.NewConfirm().
				Title("Write starter .pre-commit-config.yaml?").
				Description("Skipped if the file already exists").
				Value(writeStarter),
		),
	)
	return form.Run()
}

func init() {
	initCmd.Flags().String("template-url", "", "Base URL for canonical settings templates")
	initCmd.Flags().String("version-file", "", "File holding the current_version declaration")
	initCmd.Flags().String("release-branch", "", "Ref the declared version is compared against")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config")
	rootCmd.AddCommand(initCmd)
}
