package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"playlist-sync/internal/library"
	"playlist-sync/internal/syncer"
	"playlist-sync/internal/util"
)

// SyncPlaylists rewrites each playlist with the transcode extension
// substitution and pushes it to the remote playlist root through the
// same copy primitive as regular files. Playlists are copied
// unconditionally; they are never diffed against remote state.
func SyncPlaylists(fs syncer.RemoteFS, playlists []library.Playlist, tp library.TranscodePolicy, tmpDir, playlistRoot string) error {
	for _, pl := range playlists {
		scratch := filepath.Join(tmpDir, pl.Name)
		if err := writePlaylist(scratch, pl, tp); err != nil {
			return err
		}

		util.Default.Printf("copying %s\n", pl.Name)
		rec := syncer.File{
			RelPath: pl.Name,
			ModTime: time.Now().Unix(),
			Mode:    syncer.ModeRegular | 0o644,
			SrcPath: scratch,
		}
		err := fs.Copy(rec, playlistRoot)
		os.Remove(scratch)
		if err != nil {
			return err
		}
	}
	return nil
}

func writePlaylist(path string, pl library.Playlist, tp library.TranscodePolicy) error {
	var b strings.Builder
	for _, rel := range pl.Tracks {
		b.WriteString(tp.TargetName(rel))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing playlist artifact %s: %v", path, err)
	}
	return nil
}
