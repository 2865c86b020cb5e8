package hshex

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ironsheep/hshex-tools/internal/raster"
)

// writeTestFile writes content to name inside a fresh temp dir and returns
// its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestReadFile(t *testing.T) {
	path := writeTestFile(t, "in.hshex", "HSHEX 1 2\nff 80 0\n1 2 3\n")

	img, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if img.Shape() != (raster.Shape{Width: 1, Height: 2}) {
		t.Errorf("shape: got %s, want 1x2", img.Shape())
	}
	if img.Pixel(0) != (raster.Pixel{Red: 0xff, Green: 0x80, Blue: 0}) {
		t.Errorf("pixel 0: got %+v", img.Pixel(0))
	}
}

func TestReadFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.hshex")

	_, err := ReadFile(path)
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("got %T (%v), want *IOError", err, err)
	}
	if ioErr.Op != "open" || ioErr.Path != path {
		t.Errorf("got Op=%q Path=%q", ioErr.Op, ioErr.Path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("IOError should wrap fs.ErrNotExist")
	}
}

func TestReadFile_FormatError(t *testing.T) {
	path := writeTestFile(t, "bad.hshex", "HSHEX 2\n")
	if _, err := ReadFile(path); !IsKind(err, KindInvalidHeader) {
		t.Errorf("got %v, want InvalidHeader", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.hshex")
	img := patternRaster(t, 3, 3)

	if err := WriteFile(path, img); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !got.Equal(img) {
		t.Error("file content differs from written raster")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the output file, found %d entries", len(entries))
	}
}

func TestWriteFile_Overwrite(t *testing.T) {
	path := writeTestFile(t, "out.hshex", "old content that is much longer than the new image\n")
	img := newRaster(t, 1, 1, raster.Pixel{Red: 1, Green: 2, Blue: 3})

	if err := WriteFile(path, img); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "HSHEX 1 1\n1 2 3\n" {
		t.Errorf("got %q", data)
	}
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.hshex")

	err := WriteFile(path, patternRaster(t, 2, 2))
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("got %T (%v), want *IOError", err, err)
	}
	if ioErr.Path != path {
		t.Errorf("Path: got %q, want %q", ioErr.Path, path)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, fs.ErrNotExist) {
		t.Error("no output file should exist after a failed write")
	}
}

func TestWriteFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.hshex")

	if err := WriteFile(path, nil); !errors.Is(err, raster.ErrMalformed) {
		t.Errorf("got %v, want ErrMalformed", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("no file should be created, found %d entries", len(entries))
	}
}

func TestCache_Load(t *testing.T) {
	path := writeTestFile(t, "in.hshex", "HSHEX 1 1\na b c\n")
	cache := NewCache()

	first, cached, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cached {
		t.Error("first load should read from disk")
	}

	// The file is gone, so a second load can only succeed from the cache.
	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	second, cached, err := cache.Load(path)
	if err != nil {
		t.Fatalf("cached Load failed: %v", err)
	}
	if !cached {
		t.Error("second load should come from the cache")
	}
	if !first.Equal(second) {
		t.Error("cached raster differs from the first load")
	}
}

func TestCache_ReturnsClones(t *testing.T) {
	path := writeTestFile(t, "in.hshex", "HSHEX 1 1\na b c\n")
	cache := NewCache()

	first, _, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	first.SetPixel(0, raster.Pixel{})

	second, _, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if second.Pixel(0) != (raster.Pixel{Red: 0xa, Green: 0xb, Blue: 0xc}) {
		t.Errorf("cache was modified through a handed-out raster: %+v", second.Pixel(0))
	}
}

func TestCache_EvictAndClear(t *testing.T) {
	path := writeTestFile(t, "in.hshex", "HSHEX 1 1\n1 1 1\n")
	cache := NewCache()

	if _, _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", cache.Len())
	}

	// Rewrite the file, then evict using an equivalent but unclean path.
	if err := WriteFile(path, newRaster(t, 1, 1, raster.Pixel{Red: 2, Green: 2, Blue: 2})); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	sep := string(filepath.Separator)
	cache.Evict(filepath.Dir(path) + sep + "." + sep + filepath.Base(path))

	img, cached, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load after evict failed: %v", err)
	}
	if cached {
		t.Error("load after evict should read from disk")
	}
	if img.Pixel(0).Red != 2 {
		t.Errorf("stale content after evict: %+v", img.Pixel(0))
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len after Clear: got %d, want 0", cache.Len())
	}
}

func TestCache_EvictThroughSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	if err := os.WriteFile(filepath.Join(target, "in.hshex"), []byte("HSHEX 1 1\n1 1 1\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	cache := NewCache()

	viaLink := filepath.Join(link, "in.hshex")
	if _, _, err := cache.Load(viaLink); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	direct := filepath.Join(target, "in.hshex")
	if err := WriteFile(direct, newRaster(t, 1, 1, raster.Pixel{Red: 7, Green: 7, Blue: 7})); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	cache.Evict(direct)

	img, cached, err := cache.Load(viaLink)
	if err != nil {
		t.Fatalf("Load after evict failed: %v", err)
	}
	if cached {
		t.Error("evicting the target should evict the symlinked entry")
	}
	if img.Pixel(0).Red != 7 {
		t.Errorf("stale content after evict: %+v", img.Pixel(0))
	}
}

func TestCanonicalPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.hshex")
	if err := os.WriteFile(path, []byte("HSHEX 0 0\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	want := CanonicalPath(path)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		t.Skipf("no relative path to temp dir: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"absolute", path},
		{"relative", rel},
		{"unclean", dir + string(filepath.Separator) + "." + string(filepath.Separator) + "in.hshex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalPath(tt.path); got != want {
				t.Errorf("CanonicalPath(%q) = %q, want %q", tt.path, got, want)
			}
		})
	}

	// A file that does not exist yet resolves through its directory.
	missing := filepath.Join(dir, "new.hshex")
	if got := CanonicalPath(missing); got != filepath.Join(filepath.Dir(want), "new.hshex") {
		t.Errorf("CanonicalPath(%q) = %q", missing, got)
	}
}

func TestCache_FailuresNotCached(t *testing.T) {
	path := writeTestFile(t, "bad.hshex", "nonsense\n")
	cache := NewCache()

	if _, _, err := cache.Load(path); err == nil {
		t.Fatal("Load should fail")
	}
	if cache.Len() != 0 {
		t.Errorf("failed load was cached")
	}
}

func TestCache_Concurrent(t *testing.T) {
	path := writeTestFile(t, "in.hshex", "HSHEX 2 1\n1 2 3\n4 5 6\n")
	cache := NewCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, _, err := cache.Load(path)
			if err != nil {
				t.Errorf("Load failed: %v", err)
				return
			}
			img.SetPixel(0, raster.Pixel{})
		}()
	}
	wg.Wait()

	img, _, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Pixel(0) != (raster.Pixel{Red: 1, Green: 2, Blue: 3}) {
		t.Errorf("cached raster was mutated: %+v", img.Pixel(0))
	}
}
