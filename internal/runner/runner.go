// Package runner orchestrates one sync invocation: load playlists,
// build the local listing, open the transport, reconcile, push the
// playlist artifacts, record the run.
package runner

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"playlist-sync/internal/config"
	"playlist-sync/internal/history"
	"playlist-sync/internal/library"
	"playlist-sync/internal/remote"
	"playlist-sync/internal/sshclient"
	"playlist-sync/internal/syncer"
	"playlist-sync/internal/transcode"
	"playlist-sync/internal/util"
)

// Run performs a full sync per cfg. Pre-flight checks (playlist and
// track existence, transport self-test) all happen before the first
// remote mutation; after that any transport failure aborts with the
// remote left mid-state, and a rerun converges from live listings.
func Run(cfg *config.Config, configPath string, forceUpdate bool) (syncer.Stats, error) {
	start := time.Now()

	playlists, err := library.LoadPlaylists(cfg.PlaylistSrc, cfg.MusicSrc, cfg.Playlists)
	if err != nil {
		return syncer.Stats{}, err
	}
	for _, pl := range playlists {
		util.Default.Printf("Read %d items from %s\n", len(pl.Tracks), pl.Name)
	}

	required, err := library.Collect(cfg.MusicSrc, playlists)
	if err != nil {
		return syncer.Stats{}, err
	}
	util.Default.Printf("%d songs found!\n", len(required.Songs))
	util.Default.Printf("%d covers found!\n", len(required.Covers))
	util.Default.Printf("Formats: %s\n", strings.Join(required.Formats, " "))

	tp := library.TranscodePolicy{Enabled: cfg.Transcode, Format: cfg.TranscodeFormat}
	local, err := library.BuildListing(cfg.MusicSrc, required.All(), tp)
	if err != nil {
		return syncer.Stats{}, err
	}

	var tc remote.Transcoder
	if cfg.Transcode {
		t, err := transcode.New(cfg.TranscodeFormat, cfg.TranscodeArgs, cfg.TmpDir)
		if err != nil {
			return syncer.Stats{}, err
		}
		tc = t
	}

	fs, closeFS, err := openRemote(cfg, tc)
	if err != nil {
		return syncer.Stats{}, err
	}
	defer closeFS()

	remoteFiles, err := fs.ListDir(cfg.MusicDst)
	if err != nil {
		return syncer.Stats{}, err
	}
	slog.Debug("listings built", "local", len(local), "remote", len(remoteFiles))

	stats, err := syncer.Reconcile(fs, local, remoteFiles, cfg.MusicDst, forceUpdate)
	record(cfg, configPath, forceUpdate, stats, err == nil, start)
	if err != nil {
		return stats, err
	}

	if err := SyncPlaylists(fs, playlists, tp, cfg.TmpDir, cfg.PlaylistDst); err != nil {
		return stats, err
	}
	return stats, nil
}

// openRemote builds the transport the config asks for. The shell
// variant must pass the quoting self-test before it is trusted with a
// single path.
func openRemote(cfg *config.Config, tc remote.Transcoder) (syncer.RemoteFS, func(), error) {
	switch cfg.FileSystem {
	case config.FSLocal:
		return remote.NewLocalFS(tc), func() {}, nil

	case config.FSRemoteShell:
		var session remote.Session
		if cfg.DeviceID != "" {
			session = remote.NewAdbSession(cfg.DeviceID)
		} else {
			client, err := sshclient.NewClient(cfg.SSH.Username, cfg.SSH.PrivateKey, cfg.SSH.Host, cfg.SSH.Port)
			if err != nil {
				return nil, nil, err
			}
			if err := client.Connect(); err != nil {
				return nil, nil, err
			}
			session = client
		}
		fs := remote.NewShellFS(session, tc)
		if !fs.SelfTest() {
			session.Close()
			return nil, nil, errors.New("remote shell failed the argument-quoting self-test, refusing to sync")
		}
		return fs, func() { session.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unsupported file_system %q", cfg.FileSystem)
}

// record is best effort; a broken history DB never fails a sync.
func record(cfg *config.Config, configPath string, forceUpdate bool, stats syncer.Stats, succeeded bool, start time.Time) {
	store, err := history.Open(history.DefaultPath())
	if err != nil {
		slog.Warn("history unavailable", "err", err)
		return
	}
	err = store.Record(&history.Run{
		ConfigPath:  configPath,
		Transport:   cfg.FileSystem,
		ForceUpdate: forceUpdate,
		Copied:      stats.Copied,
		Updated:     stats.Updated,
		Deleted:     stats.Deleted,
		Matched:     stats.Matched,
		Succeeded:   succeeded,
		DurationMS:  time.Since(start).Milliseconds(),
	})
	if err != nil {
		slog.Warn("failed to record run", "err", err)
	}
}
