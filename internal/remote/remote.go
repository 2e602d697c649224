// Package remote implements the two transport variants behind the
// syncer.RemoteFS capability set: a native filesystem and a remote
// shell driven one command at a time over a session handle.
package remote

import "fmt"

// TransportError wraps any failed external command or filesystem call
// made during list/copy/delete. It is fatal: nothing retries it, the
// run aborts and the remote keeps its intermediate state.
type TransportError struct {
	Op   string
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Session is a persistent handle to a remote device or host. Run
// executes one shell command line and returns its stdout; Push
// transfers a local file byte-for-byte to an absolute remote path.
type Session interface {
	Run(cmd string) (string, error)
	Push(localPath, remotePath string) error
	Close() error
}

// Transcoder converts a local audio file into the configured target
// format, producing a scratch artifact that carries the source's
// modification time. The transports invoke it at copy time whenever
// the source and destination extensions differ, and delete the
// artifact after the transfer.
type Transcoder interface {
	Convert(srcPath string) (string, error)
}
