package hshex

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/ironsheep/hshex-tools/internal/raster"
)

// ReadFile opens path and decodes it as HSHEX.
//
// Returns *IOError if the file cannot be opened or read, and the errors
// documented on Decode for malformed content. The file is closed on every
// path.
func ReadFile(path string) (*raster.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) && ioErr.Path == "" {
			ioErr.Path = path
		}
		return nil, err
	}
	return img, nil
}

// WriteFile encodes img to path atomically.
//
// The image is written to a temporary file in the destination directory,
// synced, and renamed over path. On any failure the temporary file is
// removed and path is left untouched, so readers never observe a partially
// written image.
//
// Parameters:
//   - path: Destination file. An existing file is replaced; its directory
//     must already exist.
//   - img: The raster to encode. Channels are written as lowercase hex at
//     the raster's own depth.
//
// Returns:
//   - error: Nil once the new content is in place under path.
//
// Callers holding a Cache must Evict path after a write, otherwise later
// loads keep returning the old pixels.
//
// # Errors
//
//   - Returns raster.ErrMalformed if img is nil or its pixel count does not
//     match its shape
//   - Returns *IOError with Op "open" if the temporary file cannot be created
//   - Returns *IOError with Op "write", "close" or "rename" if the content
//     cannot be flushed or moved into place
//
// # Example Usage
//
//	gray, err := imaging.Grayscale(img)
//	if err != nil {
//	    return err
//	}
//	if err := hshex.WriteFile("out.hshex", gray); err != nil {
//	    log.Printf("Failed to save image: %v", err)
//	}
func WriteFile(path string, img *raster.Raster) (err error) {
	if err := img.Validate(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = Encode(tmp, img); err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
		}
		return err
	}
	if err = tmp.Sync(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err = os.Rename(tmpName, path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// Cache keeps decoded rasters keyed by file path so a file named several
// times in one run is parsed once.
//
// Every raster handed out is a fresh clone, so callers own what they get and
// may modify it freely without affecting the cache or each other.
//
// Cache is safe for concurrent use by multiple goroutines.
type Cache struct {
	mu      sync.RWMutex
	rasters map[string]*raster.Raster
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		rasters: make(map[string]*raster.Raster),
	}
}

// CanonicalPath returns the key the cache stores path under: the absolute
// path with symlinks resolved. A file that does not exist yet is resolved
// through its directory. When resolution fails the absolute path is used,
// and the cleaned path when even that is unavailable.
func CanonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		return filepath.Join(dir, filepath.Base(abs))
	}
	return abs
}

// Load returns the raster decoded from path, reading the file only when it
// is not cached. The second result reports whether the value came from the
// cache. Failed decodes are not cached.
//
// Entries are keyed by CanonicalPath, so relative, absolute and symlinked
// spellings of one file share an entry.
func (c *Cache) Load(path string) (*raster.Raster, bool, error) {
	key := CanonicalPath(path)

	c.mu.RLock()
	if img, ok := c.rasters[key]; ok {
		c.mu.RUnlock()
		return img.Clone(), true, nil
	}
	c.mu.RUnlock()

	img, err := ReadFile(path)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	c.rasters[key] = img
	c.mu.Unlock()

	return img.Clone(), false, nil
}

// Evict drops path from the cache. It must be called whenever the file at
// path is rewritten. Any spelling of the file that Load would resolve to the
// same entry evicts it.
func (c *Cache) Evict(path string) {
	key := CanonicalPath(path)
	c.mu.Lock()
	delete(c.rasters, key)
	c.mu.Unlock()
}

// Clear removes every cached raster.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.rasters = make(map[string]*raster.Raster)
	c.mu.Unlock()
}

// Len returns the number of cached rasters.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rasters)
}
