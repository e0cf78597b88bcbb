package classify

import (
	"testing"
	"time"

	"github.com/showtak/pdumpfs/meta"
)

func mkInfo(kind meta.Type, size int64, mtime time.Time) *meta.Info {
	return &meta.Info{Kind: kind, Size: size, Mtime: mtime}
}

func TestClassifyDirectory(t *testing.T) {
	src := mkInfo(meta.TypeDir, 0, time.Time{})
	if got := Classify(src, nil); got != Directory {
		t.Fatalf("got %v want Directory", got)
	}
}

func TestClassifyUnchangedAndUpdated(t *testing.T) {
	t0 := time.Unix(1000, 0)
	prior := mkInfo(meta.TypeFile, 10, t0)

	same := mkInfo(meta.TypeFile, 10, t0)
	if got := Classify(same, prior); got != Unchanged {
		t.Fatalf("identical size+mtime should be Unchanged, got %v", got)
	}

	changed := mkInfo(meta.TypeFile, 15, time.Unix(2000, 0))
	if got := Classify(changed, prior); got != Updated {
		t.Fatalf("different size+mtime should be Updated, got %v", got)
	}

	sameSizeDiffMtime := mkInfo(meta.TypeFile, 10, time.Unix(2000, 0))
	if got := Classify(sameSizeDiffMtime, prior); got != Updated {
		t.Fatalf("mtime alone differing should still be Updated, got %v", got)
	}
}

func TestClassifyNewFileAndSymlinkNoPrior(t *testing.T) {
	f := mkInfo(meta.TypeFile, 1, time.Now())
	if got := Classify(f, nil); got != NewFile {
		t.Fatalf("got %v want NewFile", got)
	}

	l := mkInfo(meta.TypeSymlink, 0, time.Now())
	if got := Classify(l, nil); got != Symlink {
		t.Fatalf("got %v want Symlink", got)
	}
}

func TestClassifyTypeChangeFallsBackToCopyOrSymlink(t *testing.T) {
	t0 := time.Unix(1000, 0)
	prior := mkInfo(meta.TypeFile, 10, t0)

	// source is now a symlink where a regular file used to be.
	l := mkInfo(meta.TypeSymlink, 0, time.Now())
	if got := Classify(l, prior); got != Symlink {
		t.Fatalf("got %v want Symlink (type change)", got)
	}
}

func TestClassifyPriorNotRealRegularFileFallsBackToNew(t *testing.T) {
	priorDir := mkInfo(meta.TypeDir, 0, time.Time{})
	f := mkInfo(meta.TypeFile, 1, time.Now())
	if got := Classify(f, priorDir); got != NewFile {
		t.Fatalf("prior being a dir must force NewFile, got %v", got)
	}

	priorLink := mkInfo(meta.TypeSymlink, 0, time.Time{})
	if got := Classify(f, priorLink); got != NewFile {
		t.Fatalf("prior being a symlink must force NewFile, got %v", got)
	}
}

func TestClassifyUnsupported(t *testing.T) {
	prior := mkInfo(meta.TypeFile, 10, time.Unix(1000, 0))
	other := mkInfo(meta.TypeOther, 0, time.Now())
	if got := Classify(other, prior); got != Unsupported {
		t.Fatalf("got %v want Unsupported", got)
	}
	if got := Classify(other, nil); got != Unsupported {
		t.Fatalf("got %v want Unsupported (no prior)", got)
	}
}

func TestSameFileRequiresBothRegular(t *testing.T) {
	t0 := time.Unix(1000, 0)
	a := mkInfo(meta.TypeFile, 10, t0)
	b := mkInfo(meta.TypeDir, 10, t0)
	if SameFile(a, b) {
		t.Fatal("a directory can never be 'same file' as a regular file")
	}
}
