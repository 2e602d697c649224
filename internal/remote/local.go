package remote

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"playlist-sync/internal/syncer"
)

// LocalFS is the native-filesystem transport: the remote root is just
// another directory reachable through direct filesystem calls.
type LocalFS struct {
	tc Transcoder // nil when transcoding is disabled
}

func NewLocalFS(tc Transcoder) *LocalFS {
	return &LocalFS{tc: tc}
}

func (l *LocalFS) ListDir(root string) ([]syncer.File, error) {
	var files []syncer.File
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, syncer.File{
			RelPath: filepath.ToSlash(rel),
			ModTime: info.ModTime().Unix(),
			Mode:    unixMode(info),
		})
		return nil
	})
	if err != nil {
		return nil, &TransportError{Op: "list", Path: root, Err: err}
	}
	return files, nil
}

func (l *LocalFS) Copy(src syncer.File, root string) error {
	dst := filepath.Join(root, filepath.FromSlash(src.RelPath))
	mtime := time.Unix(src.ModTime, 0)

	if src.IsDir() {
		if err := os.MkdirAll(dst, fs.FileMode(src.Mode&0o777)); err != nil {
			return &TransportError{Op: "mkdir", Path: dst, Err: err}
		}
		if err := os.Chtimes(dst, mtime, mtime); err != nil {
			return &TransportError{Op: "chtimes", Path: dst, Err: err}
		}
		return nil
	}

	local := src.SrcPath
	if path.Ext(local) != path.Ext(src.RelPath) {
		if l.tc == nil {
			return &TransportError{Op: "copy", Path: src.RelPath, Err: errors.New("format differs but no converter configured")}
		}
		artifact, err := l.tc.Convert(local)
		if err != nil {
			return &TransportError{Op: "copy", Path: src.RelPath, Err: err}
		}
		defer os.Remove(artifact)
		local = artifact
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return &TransportError{Op: "mkdir", Path: filepath.Dir(dst), Err: err}
	}
	if err := copyContents(local, dst); err != nil {
		return &TransportError{Op: "copy", Path: dst, Err: err}
	}
	if err := os.Chtimes(dst, mtime, mtime); err != nil {
		return &TransportError{Op: "chtimes", Path: dst, Err: err}
	}
	return nil
}

func (l *LocalFS) Unlink(root, rel string) error {
	dst := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.Remove(dst); err != nil {
		return &TransportError{Op: "rm", Path: dst, Err: err}
	}
	return nil
}

// RemoveDir keeps rmdir semantics: removing a non-empty directory
// fails rather than recursing.
func (l *LocalFS) RemoveDir(root, rel string) error {
	dst := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.Remove(dst); err != nil {
		return &TransportError{Op: "rmdir", Path: dst, Err: err}
	}
	return nil
}

func copyContents(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// unixMode composes an st_mode-layout word from os.FileInfo so local
// records compare uniformly with remote stat output.
func unixMode(info fs.FileInfo) uint32 {
	perm := uint32(info.Mode().Perm())
	if info.IsDir() {
		return syncer.ModeDir | perm
	}
	return syncer.ModeRegular | perm
}
