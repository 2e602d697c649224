package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"playlist-sync/internal/config"
	"playlist-sync/internal/runner"
	"playlist-sync/internal/util"
	"playlist-sync/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [config]",
	Short: "Re-run the sync whenever the local library changes",
	Args:  cobra.MaximumNArgs(1),
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

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return watch.Watch(ctx, []string{cfg.MusicSrc, cfg.PlaylistSrc}, func() error {
			stats, err := runner.Run(cfg, configPath, forceUpdate)
			if err != nil {
				return err
			}
			util.Default.Printf("synced: copied %d updated %d deleted %d unchanged %d\n",
				stats.Copied, stats.Updated, stats.Deleted, stats.Matched)
			return nil
		})
	},
}
