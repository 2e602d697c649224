package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"playlist-sync/internal/config"
	"playlist-sync/internal/events"
	"playlist-sync/internal/runner"
	"playlist-sync/internal/syncer"
	"playlist-sync/internal/util"
)

var forceUpdate bool

var summaryStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1)

var rootCmd = &cobra.Command{
	Use:   "playlist-sync [config]",
	Short: "Reconcile a music library onto a remote from playlists",
	Long: `playlist-sync makes a remote music store contain exactly the files
implied by a set of playlists: missing files are copied, stale files
(by modification time) are updated, and everything else is deleted.
The remote is either another directory or a device reachable through
a remote shell. Lossless sources can be transcoded on the fly.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.DefaultConfigFile
		if len(args) > 0 {
			configPath = args[0]
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		subscribeProgress()
		start := time.Now()
		stats, err := runner.Run(cfg, configPath, forceUpdate)
		if err != nil {
			return err
		}
		printSummary(stats, time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&forceUpdate, "force-update", false,
		"re-copy every local file regardless of modification time")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
}

// subscribeProgress prints the reconcile progress trail the same way
// the reconciler emits it, one action per line.
func subscribeProgress() {
	events.GlobalBus.Subscribe(events.EventSyncAction, func(action, rel string, done, total int) {
		util.Default.Printf("(%d/%d) %s %s\n", done, total, action, rel)
	})
}

func printSummary(stats syncer.Stats, elapsed time.Duration) {
	line := fmt.Sprintf("copied %d  updated %d  deleted %d  unchanged %d  (%.1fs)",
		stats.Copied, stats.Updated, stats.Deleted, stats.Matched, elapsed.Seconds())
	util.Default.Println(summaryStyle.Render(line))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		util.Default.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}
