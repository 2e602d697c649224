package remote

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"playlist-sync/internal/syncer"
)

// statFormat is the wire contract shared with the remote stat binary:
// characters [0:10] are the decimal modification time, [11:15] the hex
// st_mode word, and [17:len-1] the path (%N single-quotes it). The
// fixed-width parse in parseListing depends on this exact format.
const statFormat = "%Y %f %N"

// ShellFS drives a remote filesystem through single quoted shell
// command invocations over a Session. It offers no atomic primitives;
// the reconciler's ordering is the only thing keeping deletes safe.
type ShellFS struct {
	session Session
	tc      Transcoder // nil when transcoding is disabled
}

func NewShellFS(session Session, tc Transcoder) *ShellFS {
	return &ShellFS{session: session, tc: tc}
}

// ListDir issues one recursive find-and-stat command and parses one
// line per remote entry, directories included.
func (s *ShellFS) ListDir(root string) ([]syncer.File, error) {
	cmd := "find " + QuoteArgument(root) + " -exec stat -c '" + statFormat + "' '{}' +"
	out, err := s.session.Run(cmd)
	if err != nil {
		return nil, &TransportError{Op: "list", Path: root, Err: err}
	}
	files, err := parseListing(out, root)
	if err != nil {
		return nil, &TransportError{Op: "list", Path: root, Err: err}
	}
	return files, nil
}

func parseListing(out, root string) ([]syncer.File, error) {
	// Some transports (adb against older devices) emit CRLF.
	out = strings.ReplaceAll(out, "\r", "")

	var files []syncer.File
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if line == "" {
			continue
		}
		if len(line) < 19 {
			return nil, fmt.Errorf("malformed listing line %q", line)
		}
		mtime, err := strconv.ParseInt(line[:10], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad mtime in listing line %q: %v", line, err)
		}
		mode, err := strconv.ParseUint(line[11:15], 16, 32)
		if err != nil {
			return nil, fmt.Errorf("bad mode in listing line %q: %v", line, err)
		}
		abs := line[17 : len(line)-1]
		if abs == root {
			continue
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(abs, root), "/")
		files = append(files, syncer.File{
			RelPath: rel,
			ModTime: mtime,
			Mode:    uint32(mode),
		})
	}
	return files, nil
}

// Copy pushes a local file to root + src.RelPath and restores its
// modification time with a quoted touch command. Directories are a
// no-op: they materialize through mkdir -p and their timestamps are
// not synchronized on this transport.
func (s *ShellFS) Copy(src syncer.File, root string) error {
	if src.IsDir() {
		return nil
	}

	local := src.SrcPath
	if path.Ext(local) != path.Ext(src.RelPath) {
		if s.tc == nil {
			return &TransportError{Op: "copy", Path: src.RelPath, Err: errors.New("format differs but no converter configured")}
		}
		artifact, err := s.tc.Convert(local)
		if err != nil {
			return &TransportError{Op: "copy", Path: src.RelPath, Err: err}
		}
		defer os.Remove(artifact)
		local = artifact
	}

	dst := path.Join(root, src.RelPath)
	if _, err := s.session.Run("mkdir -p " + QuoteArgument(path.Dir(dst))); err != nil {
		return &TransportError{Op: "mkdir", Path: path.Dir(dst), Err: err}
	}
	if err := s.session.Push(local, dst); err != nil {
		return &TransportError{Op: "push", Path: dst, Err: err}
	}
	stamp := time.Unix(src.ModTime, 0).UTC().Format("200601021504.05")
	if _, err := s.session.Run("TZ=UTC touch -mt " + stamp + " " + QuoteArgument(dst)); err != nil {
		return &TransportError{Op: "touch", Path: dst, Err: err}
	}
	return nil
}

func (s *ShellFS) Unlink(root, rel string) error {
	dst := path.Join(root, rel)
	if _, err := s.session.Run("rm " + QuoteArgument(dst)); err != nil {
		return &TransportError{Op: "rm", Path: dst, Err: err}
	}
	return nil
}

func (s *ShellFS) RemoveDir(root, rel string) error {
	dst := path.Join(root, rel)
	if _, err := s.session.Run("rmdir " + QuoteArgument(dst)); err != nil {
		return &TransportError{Op: "rmdir", Path: dst, Err: err}
	}
	return nil
}

// selfTestProbes should contain all possible evil, but no percent
// signs: the probes ride through `date +FORMAT`, and date just hands
// a directive-free format string to strftime. echo would be the
// obvious choice but does its own backslash handling on top of the
// shell's, which is exactly what the probe must not tolerate.
var selfTestProbes = []string{
	"(",
	`!@#$^&*()<>;/?\'"`,
	"(;  #`ls`$PATH'\"(\\\\\\\\){};!\xc0\xaf\xff\xc2\xbf",
}

// SelfTest round-trips adversarial strings through the quoting path
// and a remote echo-equivalent. A false return means the transport
// mangles arguments and is unsafe to use.
func (s *ShellFS) SelfTest() bool {
	for _, probe := range selfTestProbes {
		out, err := s.session.Run("date +" + QuoteArgument(probe))
		if err != nil {
			return false
		}
		good := false
		for _, line := range strings.Split(strings.ReplaceAll(out, "\r", ""), "\n") {
			if line == probe {
				good = true
			}
		}
		if !good {
			return false
		}
	}
	return true
}
