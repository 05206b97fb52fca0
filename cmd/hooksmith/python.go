package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dycw/hooksmith/internal/format"
	"github.com/dycw/hooksmith/internal/pipeline"
	"github.com/dycw/hooksmith/internal/project"
	"github.com/dycw/hooksmith/internal/runlog"
)

var pythonCmd = &cobra.Command{
	Use:   "run-python [files...]",
	Short: "Run the Python formatter and linter chain over files",
	Long: `Runs each file through the fixers (add-trailing-comma, autoflake,
pyupgrade, reorder-python-imports, yesqa, black) and then the linters
(flake8, mypy) with the packaged configs. A file stops at its first
failing tool; the remaining files still run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		root, err := project.FindRoot(cwd)
		if err != nil {
			return err
		}

		p, err := pipeline.New(nil)
		if err != nil {
			return err
		}
		defer p.Close()

		showProgress := len(args) > 1
		renderer := newProgressRenderer(os.Stderr, isTerminalFile(os.Stderr))

		start := time.Now()
		done := 0
		failures := p.Process(args, func(file string, failed bool) {
			done++
			if showProgress {
				renderer.Update(done*100/len(args), file)
			}
		})
		if showProgress {
			renderer.Done()
		}

		for _, f := range failures {
			fmt.Fprintf(os.Stderr, "%s%s: %s failed%s\n", format.Red, f.File, f.Tool, format.Reset)
			if len(f.Output) > 0 {
				os.Stderr.Write(f.Output)
				if !bytes.HasSuffix(f.Output, []byte("\n")) {
					fmt.Fprintln(os.Stderr)
				}
			}
		}

		var runErr error
		if len(failures) > 0 {
			runErr = fmt.Errorf("%d of %d files failed", len(failures), len(args))
		}
		runlog.Record(root, runlog.Run{
			Hook:      "run-python",
			StartedAt: start,
			Duration:  time.Since(start),
			ExitCode:  exitCodeFor(runErr),
			Files:     len(args),
		})
		return runErr
	},
}

func exitCodeFor(err error) int {
	if err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.AddCommand(pythonCmd)
}
