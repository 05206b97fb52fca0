package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dycw/hooksmith/internal/project"
	"github.com/dycw/hooksmith/internal/runlog"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recorded hook runs for this repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		root, err := project.FindRoot(cwd)
		if err != nil {
			return err
		}

		l, err := runlog.Open(root)
		if err != nil {
			return err
		}
		defer l.Close()

		stats, err := l.Stats()
		if err != nil {
			return err
		}

		jsonOut, _ := cmd.Flags().GetBool("json")
		if jsonOut {
			data, _ := json.MarshalIndent(stats, "", "  ")
			fmt.Println(string(data))
			return nil
		}

		if len(stats) == 0 {
			fmt.Println("No hook runs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "HOOK\tRUNS\tFAILURES\tAVG\tLAST RUN")
		for _, s := range stats {
			avg := time.Duration(s.AvgMillis * float64(time.Millisecond)).Round(time.Millisecond)
			fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n", s.Hook, s.Runs, s.Failures, avg, formatLastRun(s.LastRun))
		}
		w.Flush()
		return nil
	},
}

func formatLastRun(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func init() {
	statsCmd.Flags().Bool("json", false, "Output stats as JSON")
	rootCmd.AddCommand(statsCmd)
}
