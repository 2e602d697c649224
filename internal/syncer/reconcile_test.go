package syncer

import (
	"fmt"
	"testing"
)

// fakeFS records the operation sequence and mutates a simulated remote
// tree so convergence can be checked by re-listing.
type fakeFS struct {
	ops   []string
	state map[string]File
}

func newFakeFS(remote []File) *fakeFS {
	state := map[string]File{}
	for _, f := range remote {
		state[f.RelPath] = f
	}
	return &fakeFS{state: state}
}

func (f *fakeFS) ListDir(root string) ([]File, error) {
	var files []File
	for _, file := range f.state {
		files = append(files, file)
	}
	return files, nil
}

func (f *fakeFS) Copy(src File, root string) error {
	f.ops = append(f.ops, "copy "+src.RelPath)
	f.state[src.RelPath] = File{RelPath: src.RelPath, ModTime: src.ModTime, Mode: src.Mode}
	return nil
}

func (f *fakeFS) Unlink(root, rel string) error {
	f.ops = append(f.ops, "rm "+rel)
	delete(f.state, rel)
	return nil
}

func (f *fakeFS) RemoveDir(root, rel string) error {
	for other := range f.state {
		if len(other) > len(rel) && other[:len(rel)] == rel && other[len(rel)] == '/' {
			return fmt.Errorf("rmdir %s: directory not empty", rel)
		}
	}
	f.ops = append(f.ops, "rmdir "+rel)
	delete(f.state, rel)
	return nil
}

func file(rel string, mtime int64) File {
	return File{RelPath: rel, ModTime: mtime, Mode: ModeRegular | 0o644, SrcPath: "/src/" + rel}
}

func dir(rel string, mtime int64) File {
	return File{RelPath: rel, ModTime: mtime, Mode: ModeDir | 0o755, SrcPath: "/src/" + rel}
}

func TestReconcileScenario(t *testing.T) {
	// Local wants a.mp3 and b/cover.jpg; remote holds a.mp3 (current)
	// and a stray c.mp3.
	local := []File{
		file("a.mp3", 100),
		dir("b", 100),
		file("b/cover.jpg", 50),
	}
	remote := []File{
		file("a.mp3", 100),
		file("c.mp3", 10),
	}

	fs := newFakeFS(remote)
	stats, err := Reconcile(fs, local, remote, "/dst", false)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"rm c.mp3", "copy b/cover.jpg", "copy b"}
	if len(fs.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", fs.ops, want)
	}
	for i := range want {
		if fs.ops[i] != want[i] {
			t.Fatalf("ops[%d] = %s, want %s (full: %v)", i, fs.ops[i], want[i], fs.ops)
		}
	}
	if stats.Matched != 1 || stats.Copied != 2 || stats.Deleted != 1 || stats.Updated != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestReconcileConvergence(t *testing.T) {
	local := []File{
		dir("albums", 10),
		dir("albums/x", 10),
		file("albums/x/1.mp3", 500),
		file("albums/x/cover.jpg", 400),
		file("single.mp3", 900),
	}
	remote := []File{
		file("stale.mp3", 5),
		dir("gone", 5),
		file("gone/track.mp3", 5),
		file("albums/x/1.mp3", 100), // stale, updated
	}

	fs := newFakeFS(remote)
	if _, err := Reconcile(fs, local, remote, "/dst", false); err != nil {
		t.Fatal(err)
	}

	if len(fs.state) != len(local) {
		t.Fatalf("remote has %d entries after reconcile, want %d: %v", len(fs.state), len(local), fs.state)
	}
	for _, l := range local {
		got, ok := fs.state[l.RelPath]
		if !ok {
			t.Fatalf("remote missing %s after reconcile", l.RelPath)
		}
		if !got.Equal(l) {
			t.Fatalf("remote %s not within tolerance of local: %d vs %d", l.RelPath, got.ModTime, l.ModTime)
		}
	}
}

func TestReconcileIdempotent(t *testing.T) {
	local := []File{
		dir("a", 10),
		file("a/1.flac", 100),
		file("a/2.flac", 200),
	}
	fs := newFakeFS(nil)
	if _, err := Reconcile(fs, append([]File(nil), local...), nil, "/dst", false); err != nil {
		t.Fatal(err)
	}

	secondRemote, _ := fs.ListDir("/dst")
	fs.ops = nil
	stats, err := Reconcile(fs, append([]File(nil), local...), secondRemote, "/dst", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(fs.ops) != 0 {
		t.Fatalf("second run performed operations: %v", fs.ops)
	}
	if stats.Matched != len(local) {
		t.Fatalf("second run matched %d, want %d", stats.Matched, len(local))
	}
}

func TestReconcileDeletesChildrenBeforeParent(t *testing.T) {
	remote := []File{
		dir("d", 10),
		file("d/x", 10),
		dir("d/sub", 10),
		file("d/sub/y", 10),
	}
	fs := newFakeFS(remote)
	if _, err := Reconcile(fs, nil, remote, "/dst", false); err != nil {
		t.Fatal(err)
	}

	if len(fs.ops) != 4 {
		t.Fatalf("expected 4 deletions, got %v", fs.ops)
	}
	pos := map[string]int{}
	for i, op := range fs.ops {
		pos[op] = i
	}
	if pos["rm d/x"] > pos["rmdir d"] || pos["rmdir d/sub"] > pos["rmdir d"] {
		t.Fatalf("parent deleted before children: %v", fs.ops)
	}
	if pos["rm d/sub/y"] > pos["rmdir d/sub"] {
		t.Fatalf("d/sub removed before its child: %v", fs.ops)
	}
	if len(fs.state) != 0 {
		t.Fatalf("remote not emptied: %v", fs.state)
	}
}

func TestReconcileForceUpdate(t *testing.T) {
	local := []File{file("a.mp3", 100), file("b.mp3", 100)}
	remote := []File{file("a.mp3", 100), file("b.mp3", 100)}

	fs := newFakeFS(remote)
	stats, err := Reconcile(fs, append([]File(nil), local...), append([]File(nil), remote...), "/dst", true)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Updated != 2 || len(fs.ops) != 2 {
		t.Fatalf("force update should re-copy everything, got stats %+v ops %v", stats, fs.ops)
	}

	fs = newFakeFS(remote)
	stats, err = Reconcile(fs, append([]File(nil), local...), append([]File(nil), remote...), "/dst", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(fs.ops) != 0 || stats.Matched != 2 {
		t.Fatalf("no-drift run should be a no-op, got stats %+v ops %v", stats, fs.ops)
	}
}

func TestReconcileToleranceSkipsNearlyEqual(t *testing.T) {
	local := []File{file("a.mp3", 145)}
	remote := []File{file("a.mp3", 100)}

	fs := newFakeFS(remote)
	if _, err := Reconcile(fs, local, remote, "/dst", false); err != nil {
		t.Fatal(err)
	}
	if len(fs.ops) != 0 {
		t.Fatalf("45s drift should be within tolerance, got %v", fs.ops)
	}

	local = []File{file("a.mp3", 175)}
	remote = []File{file("a.mp3", 100)}
	fs = newFakeFS(remote)
	stats, err := Reconcile(fs, local, remote, "/dst", false)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Updated != 1 {
		t.Fatalf("75s drift should update, got stats %+v ops %v", stats, fs.ops)
	}
}

func TestReconcileRemoteNewerIsLeftAlone(t *testing.T) {
	// Remote ahead of local: not stale, nothing to do.
	local := []File{file("a.mp3", 100)}
	remote := []File{file("a.mp3", 500)}

	fs := newFakeFS(remote)
	stats, err := Reconcile(fs, local, remote, "/dst", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(fs.ops) != 0 || stats.Matched != 1 {
		t.Fatalf("remote-newer entry should match, got stats %+v ops %v", stats, fs.ops)
	}
}
