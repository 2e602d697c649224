package syncer

import (
	"playlist-sync/internal/events"
)

// RemoteFS is the capability set the reconciler drives. Both transport
// variants (native filesystem and remote shell) implement it. Roots are
// passed per call because a run touches two remote roots: the music
// tree and the playlist directory.
type RemoteFS interface {
	// ListDir recursively enumerates every file and directory under
	// root, returning paths relative to it. The root entry itself is
	// not listed.
	ListDir(root string) ([]File, error)
	// Copy transfers src to root + src.RelPath, creating intermediate
	// directories and restoring the source modification time. When the
	// source and destination extensions differ the transport runs the
	// configured converter first.
	Copy(src File, root string) error
	// Unlink removes a single remote file.
	Unlink(root, rel string) error
	// RemoveDir removes a single remote directory, which must be
	// empty. The reconciler orders deletions so children go first.
	RemoveDir(root, rel string) error
}

// Stats summarizes the operations a reconcile run performed.
type Stats struct {
	Copied  int
	Updated int
	Deleted int
	Matched int
}

func (s Stats) Operations() int {
	return s.Copied + s.Updated + s.Deleted
}

// Reconcile merges the local and remote listings and applies the
// copy/update/delete sequence that makes the remote tree under root
// mirror the local set.
//
// Both listings are consumed from the greatest element backwards.
// Descendants sort after their parent directory (longer strings
// sharing the prefix), so they are popped and deleted first and
// RemoveDir never sees a directory left non-empty by this run.
//
// Any transport failure aborts immediately; the remote keeps whatever
// intermediate state the failed operation produced. Rerunning re-lists
// both sides and resumes from the true current state.
func Reconcile(fs RemoteFS, local, remote []File, root string, forceUpdate bool) (Stats, error) {
	SortFiles(local)
	SortFiles(remote)

	total := len(local)
	var stats Stats

	for len(local) > 0 || len(remote) > 0 {
		done := total - len(local)

		switch {
		case len(local) == 0 || (len(remote) > 0 && local[len(local)-1].RelPath < remote[len(remote)-1].RelPath):
			// Remote entry with no local counterpart.
			r := remote[len(remote)-1]
			report(ActionDelete, r.RelPath, done, total)
			var err error
			if r.IsDir() {
				err = fs.RemoveDir(root, r.RelPath)
			} else {
				err = fs.Unlink(root, r.RelPath)
			}
			if err != nil {
				return stats, err
			}
			stats.Deleted++
			remote = remote[:len(remote)-1]

		case forceUpdate || len(remote) == 0 || local[len(local)-1].Compare(remote[len(remote)-1]) > 0:
			l := local[len(local)-1]
			if len(remote) > 0 && remote[len(remote)-1].RelPath == l.RelPath {
				report(ActionUpdate, l.RelPath, done, total)
				stats.Updated++
				remote = remote[:len(remote)-1]
			} else {
				report(ActionCopy, l.RelPath, done, total)
				stats.Copied++
			}
			if err := fs.Copy(l, root); err != nil {
				return stats, err
			}
			local = local[:len(local)-1]

		default:
			// Equal path, remote not older: already in sync.
			stats.Matched++
			local = local[:len(local)-1]
			remote = remote[:len(remote)-1]
		}
	}

	return stats, nil
}

// Action names published with each reconcile step.
const (
	ActionCopy   = "copying"
	ActionUpdate = "updating"
	ActionDelete = "deleting"
)

func report(action, rel string, done, total int) {
	events.GlobalBus.Publish(events.EventSyncAction, action, rel, done, total)
}
