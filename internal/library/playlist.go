// Package library turns playlists into the set of local files a sync
// run must place on the remote.
package library

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Playlist is an ordered track list. Tracks are posix-style paths
// relative to the music root, in playlist order; duplicates are kept
// because the playlist artifact is rewritten line for line.
type Playlist struct {
	Name   string
	Tracks []string
}

// LoadPlaylist parses one playlist file. Lines are absolute local
// paths under musicRoot; comment lines starting with '#' (the m3u
// header) and blank lines are skipped. Every referenced track must
// exist locally, checked here so the run fails before any remote
// mutation.
func LoadPlaylist(playlistPath, musicRoot string) (Playlist, error) {
	f, err := os.Open(playlistPath)
	if err != nil {
		return Playlist{}, fmt.Errorf("playlist %s not found: %v", playlistPath, err)
	}
	defer f.Close()

	pl := Playlist{Name: filepath.Base(playlistPath)}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rel, err := filepath.Rel(musicRoot, line)
		if err != nil || strings.HasPrefix(rel, "..") {
			return Playlist{}, fmt.Errorf("%s: track %q is outside the music root %s", pl.Name, line, musicRoot)
		}
		info, err := os.Stat(line)
		if err != nil || info.IsDir() {
			return Playlist{}, fmt.Errorf("%s: track %s not found", pl.Name, line)
		}
		pl.Tracks = append(pl.Tracks, filepath.ToSlash(rel))
	}
	if err := scanner.Err(); err != nil {
		return Playlist{}, fmt.Errorf("reading %s: %v", playlistPath, err)
	}
	return pl, nil
}

// LoadPlaylists loads every configured playlist from playlistDir.
func LoadPlaylists(playlistDir, musicRoot string, names []string) ([]Playlist, error) {
	playlists := make([]Playlist, 0, len(names))
	for _, name := range names {
		pl, err := LoadPlaylist(filepath.Join(playlistDir, name), musicRoot)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, pl)
	}
	return playlists, nil
}
