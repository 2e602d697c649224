package runner

import (
	"os"
	"testing"

	"playlist-sync/internal/library"
	"playlist-sync/internal/syncer"
)

// captureFS records playlist copies and snapshots the scratch file
// content before the caller deletes it.
type captureFS struct {
	copies map[string]string // relpath -> artifact content
	roots  []string
}

func (c *captureFS) ListDir(root string) ([]syncer.File, error) { return nil, nil }

func (c *captureFS) Copy(src syncer.File, root string) error {
	data, err := os.ReadFile(src.SrcPath)
	if err != nil {
		return err
	}
	if c.copies == nil {
		c.copies = map[string]string{}
	}
	c.copies[src.RelPath] = string(data)
	c.roots = append(c.roots, root)
	return nil
}

func (c *captureFS) Unlink(root, rel string) error    { return nil }
func (c *captureFS) RemoveDir(root, rel string) error { return nil }

func TestSyncPlaylistsRewritesExtensions(t *testing.T) {
	tmp := t.TempDir()
	playlists := []library.Playlist{
		{Name: "mix.m3u", Tracks: []string{"a/one.flac", "b/two.mp3", "a/one.flac"}},
		{Name: "road.m3u", Tracks: []string{"c/three.flac"}},
	}
	tp := library.TranscodePolicy{Enabled: true, Format: "mp3"}

	fs := &captureFS{}
	if err := SyncPlaylists(fs, playlists, tp, tmp, "/sdcard/Playlists"); err != nil {
		t.Fatal(err)
	}

	if got := fs.copies["mix.m3u"]; got != "a/one.mp3\nb/two.mp3\na/one.mp3\n" {
		t.Fatalf("mix.m3u content = %q", got)
	}
	if got := fs.copies["road.m3u"]; got != "c/three.mp3\n" {
		t.Fatalf("road.m3u content = %q", got)
	}
	for _, root := range fs.roots {
		if root != "/sdcard/Playlists" {
			t.Fatalf("copied to wrong root %s", root)
		}
	}

	// Scratch files are consumed and removed.
	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("scratch files left behind: %v", entries)
	}
}

func TestSyncPlaylistsNoTranscode(t *testing.T) {
	tmp := t.TempDir()
	playlists := []library.Playlist{
		{Name: "mix.m3u", Tracks: []string{"a/one.flac"}},
	}
	fs := &captureFS{}
	if err := SyncPlaylists(fs, playlists, library.TranscodePolicy{}, tmp, "/dst"); err != nil {
		t.Fatal(err)
	}
	if got := fs.copies["mix.m3u"]; got != "a/one.flac\n" {
		t.Fatalf("content = %q", got)
	}
}
