package library

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"playlist-sync/internal/syncer"
)

// coverNames are the cover-art files looked for next to any track.
var coverNames = []string{"cover.jpg", "cover.png"}

// losslessInputs are the source formats rewritten to the target format
// when transcoding is enabled.
var losslessInputs = map[string]bool{".flac": true}

// TranscodePolicy controls target-name rewriting. Only the naming is
// decided here; actual conversion happens at copy time inside the
// transport.
type TranscodePolicy struct {
	Enabled bool
	Format  string // target extension without the dot, e.g. "mp3"
}

// TargetName rewrites a relative path's extension per the policy.
// Playlist artifacts use the same substitution so their entries keep
// pointing at the files the sync actually placed.
func (tp TranscodePolicy) TargetName(rel string) string {
	if ext := path.Ext(rel); tp.Enabled && losslessInputs[ext] {
		return rel[:len(rel)-len(ext)] + "." + tp.Format
	}
	return rel
}

// RequiredSet is the union of everything a run must place on the
// remote: every track referenced by any playlist, discovered cover
// art, and every ancestor directory up to (excluding) the music root.
// Directories are first-class entries because the remote delete step
// enumerates and removes them individually.
type RequiredSet struct {
	Songs   []string
	Covers  []string
	Dirs    []string
	Formats []string // distinct track extensions, for the preamble print
}

// All returns the union as one path list.
func (rs RequiredSet) All() []string {
	all := make([]string, 0, len(rs.Songs)+len(rs.Covers)+len(rs.Dirs))
	all = append(all, rs.Dirs...)
	all = append(all, rs.Songs...)
	all = append(all, rs.Covers...)
	return all
}

// Collect derives the required set from the loaded playlists. Cover
// art is searched only in directories that directly contain a track.
func Collect(musicRoot string, playlists []Playlist) (RequiredSet, error) {
	songs := map[string]bool{}
	parents := map[string]bool{}
	formats := map[string]bool{}

	for _, pl := range playlists {
		for _, rel := range pl.Tracks {
			if songs[rel] {
				continue
			}
			songs[rel] = true
			formats[path.Ext(rel)] = true
			parents[path.Dir(rel)] = true
		}
	}

	covers := map[string]bool{}
	dirs := map[string]bool{}
	for dir := range parents {
		for _, name := range coverNames {
			rel := path.Join(dir, name)
			if info, err := os.Stat(filepath.Join(musicRoot, filepath.FromSlash(rel))); err == nil && !info.IsDir() {
				covers[rel] = true
			}
		}
		// Every ancestor up to the root; the root itself ('.') stays out
		// of the listing.
		for d := dir; d != "." && d != "/"; d = path.Dir(d) {
			dirs[d] = true
		}
	}

	rs := RequiredSet{
		Songs:   sortedKeys(songs),
		Covers:  sortedKeys(covers),
		Dirs:    sortedKeys(dirs),
		Formats: sortedKeys(formats),
	}
	return rs, nil
}

// BuildListing maps the required paths to File records, one per path,
// with ModTime and Mode taken from a fresh local stat. Output order is
// unspecified; sorting is the reconciler's job.
func BuildListing(musicRoot string, rels []string, tp TranscodePolicy) ([]syncer.File, error) {
	files := make([]syncer.File, 0, len(rels))
	for _, rel := range rels {
		abs := filepath.Join(musicRoot, filepath.FromSlash(rel))
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %v", abs, err)
		}
		mode := syncer.ModeRegular | uint32(info.Mode().Perm())
		name := rel
		if info.IsDir() {
			mode = syncer.ModeDir | uint32(info.Mode().Perm())
		} else {
			name = tp.TargetName(rel)
		}
		files = append(files, syncer.File{
			RelPath: name,
			ModTime: info.ModTime().Unix(),
			Mode:    mode,
			SrcPath: abs,
		})
	}
	return files, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
