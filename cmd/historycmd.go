package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"playlist-sync/internal/history"
	"playlist-sync/internal/util"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sync runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(history.DefaultPath())
		if err != nil {
			return err
		}
		runs, err := store.Recent(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			util.Default.Println("No runs recorded yet.")
			return nil
		}
		for _, run := range runs {
			status := "ok"
			if !run.Succeeded {
				status = "FAILED"
			}
			util.Default.Printf("%s  %-12s %-6s copied=%d updated=%d deleted=%d unchanged=%d %.1fs  %s\n",
				run.CreatedAt.Format(time.DateTime), run.Transport, status,
				run.Copied, run.Updated, run.Deleted, run.Matched,
				float64(run.DurationMS)/1000, run.ConfigPath)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of runs to show")
}
