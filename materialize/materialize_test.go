package materialize

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/showtak/pdumpfs/classify"
	"github.com/showtak/pdumpfs/meta"
)

// fakeAdapter implements meta.Adapter using straightforward os calls, for
// tests that don't need real POSIX ownership semantics.
type fakeAdapter struct{}

func (fakeAdapter) Lstat(path string) (*meta.Info, error) { return nil, nil }
func (fakeAdapter) Stat(path string) (*meta.Info, error)  { return nil, nil }

func (fakeAdapter) ForceLink(dst, src string) error {
	_ = os.Remove(dst)
	return os.Link(src, dst)
}

func (fakeAdapter) ForceSymlink(dst, target string) error {
	_ = os.Remove(dst)
	return os.Symlink(target, dst)
}

func (fakeAdapter) ReadSymlink(path string) (string, error) { return os.Readlink(path) }

func (fakeAdapter) Utime(path string, atime, mtime time.Time) error {
	return os.Chtimes(path, atime, mtime)
}

func (fakeAdapter) Chmod(path string, mode fs.FileMode) error { return os.Chmod(path, mode) }

func (fakeAdapter) ChownIfRoot(path string, uid, gid uint32, forSymlink bool) error { return nil }

func (fakeAdapter) ApplyXattr(path string, x map[string]string, forSymlink bool) error { return nil }

func (fakeAdapter) FilesystemType(path string) (string, error) { return "fake", nil }

func (fakeAdapter) SupportsHardLinks(path string) (bool, error) { return true, nil }

var _ meta.Adapter = fakeAdapter{}

func TestMaterializeNewFileCopiesContentAndMetadata(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(src, []byte("hello world"), 0644); err != nil {
		t.Fatalf("write src: %s", err)
	}
	mtime := time.Unix(1700000000, 0)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatalf("chtimes: %s", err)
	}

	st, err := os.Stat(src)
	if err != nil {
		t.Fatalf("stat: %s", err)
	}
	srcInfo := &meta.Info{Kind: meta.TypeFile, Size: st.Size(), Mode: 0644, Mtime: mtime, Atime: mtime}

	dst := filepath.Join(dir, "out", "a.txt")
	if err := os.MkdirAll(filepath.Dir(dst), 0770); err != nil {
		t.Fatalf("mkdir: %s", err)
	}

	m := &Materializer{Adapter: fakeAdapter{}}
	if err := m.Materialize(classify.NewFile, src, dst, "", srcInfo); err != nil {
		t.Fatalf("materialize: %s", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %s", err)
	}
	if string(got) != "hello world" {
		t.Fatalf("content mismatch: %q", got)
	}
	if m.BytesWritten != int64(len("hello world")) {
		t.Fatalf("bytes written: got %d want %d", m.BytesWritten, len("hello world"))
	}

	dstInfo, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat dst: %s", err)
	}
	if !dstInfo.ModTime().Equal(mtime) {
		t.Fatalf("mtime not restored: got %s want %s", dstInfo.ModTime(), mtime)
	}
}

func TestMaterializeUnchangedHardLinks(t *testing.T) {
	dir := t.TempDir()
	prior := filepath.Join(dir, "prior.txt")
	if err := os.WriteFile(prior, []byte("same"), 0644); err != nil {
		t.Fatalf("write prior: %s", err)
	}

	dst := filepath.Join(dir, "today.txt")
	m := &Materializer{Adapter: fakeAdapter{}}
	if err := m.Materialize(classify.Unchanged, "", dst, prior, nil); err != nil {
		t.Fatalf("materialize: %s", err)
	}

	priorStat, _ := os.Stat(prior)
	dstStat, _ := os.Stat(dst)
	if !os.SameFile(priorStat, dstStat) {
		t.Fatalf("unchanged file must be a hard link to the prior snapshot's file")
	}
	if dstStat.Size() != priorStat.Size() {
		t.Fatalf("hard-linked file should have identical size")
	}
}

func TestMaterializeDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	os.WriteFile(src, []byte("hello"), 0644)
	dst := filepath.Join(dir, "b.txt")

	reported := false
	m := &Materializer{
		Adapter: fakeAdapter{},
		DryRun:  true,
		Report: func(tag classify.Tag, path string) {
			reported = true
		},
	}
	srcInfo := &meta.Info{Kind: meta.TypeFile, Size: 5, Mode: 0644}
	if err := m.Materialize(classify.NewFile, src, dst, "", srcInfo); err != nil {
		t.Fatalf("materialize: %s", err)
	}
	if !reported {
		t.Fatal("reporter must still fire on dry run")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatal("dry run must not create any file")
	}
	if m.BytesWritten != 0 {
		t.Fatal("dry run must not advance byte counter")
	}
}

func TestMaterializeSymlinkRecreatesTargetText(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "link")
	if err := os.Symlink("a.txt", src); err != nil {
		t.Fatalf("symlink: %s", err)
	}
	dst := filepath.Join(dir, "out-link")

	m := &Materializer{Adapter: fakeAdapter{}}
	if err := m.Materialize(classify.Symlink, src, dst, "", nil); err != nil {
		t.Fatalf("materialize: %s", err)
	}

	got, err := os.Readlink(dst)
	if err != nil {
		t.Fatalf("readlink: %s", err)
	}
	if got != "a.txt" {
		t.Fatalf("got target %q want %q", got, "a.txt")
	}
}

func TestCopyBlocksInvokesIntervalCallback(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "big.bin")
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i)
	}
	os.WriteFile(src, data, 0644)

	dst := filepath.Join(dir, "big-copy.bin")
	calls := 0
	m := &Materializer{
		Adapter:  fakeAdapter{},
		Interval: func() { calls++ },
	}
	srcInfo := &meta.Info{Kind: meta.TypeFile, Size: int64(len(data)), Mode: 0644, PreferredBlockSize: 10}
	if err := m.Materialize(classify.NewFile, src, dst, "", srcInfo); err != nil {
		t.Fatalf("materialize: %s", err)
	}

	// 1000 bytes / 10-byte blocks = 100 blocks; interval fires every 10 blocks.
	if calls != 10 {
		t.Fatalf("interval calls: got %d want 10", calls)
	}
}
