package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"playlist-sync/cmd"
)

func main() {
	level := slog.LevelWarn
	if os.Getenv("PLAYLIST_SYNC_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	cmd.Execute()
}
