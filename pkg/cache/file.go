package cache

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// FileCache stores entries as files under a directory, sharded by the first
// two hex digits of the key hash.
//
// Each file holds a header line with the expiry as Unix seconds (0 for
// none) followed by the raw artifact bytes, so PNGs are stored unencoded.
type FileCache struct {
	dir string
	now func() time.Time
}

const entryExt = ".entry"

// NewFileCache creates a cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache root directory.
func (c *FileCache) Dir() string { return c.dir }

// Get returns the entry for key. Expired and unreadable entries are removed
// and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data, expires, ok := decodeEntry(raw)
	if !ok || (!expires.IsZero() && c.now().After(expires)) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes the entry atomically, so concurrent readers never see a
// partial file.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = c.now().Add(ttl)
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(encodeEntry(data, expires)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes key. A missing entry is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Close is a no-op.
func (c *FileCache) Close() error { return nil }

// Clear removes every entry and shard directory and returns the number of
// entries removed. The root directory is kept.
func (c *FileCache) Clear() (int, error) {
	count := 0
	var shards []string
	err := c.walk(func(path string, d fs.DirEntry) {
		if d.IsDir() {
			shards = append(shards, path)
			return
		}
		if os.Remove(path) == nil && filepath.Ext(path) == entryExt {
			count++
		}
	})
	for _, dir := range shards {
		_ = os.Remove(dir)
	}
	return count, err
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries int
	Expired int
	Bytes   int64
}

// Stats counts entries and their total size on disk. Expired entries are
// counted but not removed.
func (c *FileCache) Stats() (Stats, error) {
	var s Stats
	now := c.now()
	err := c.walk(func(path string, d fs.DirEntry) {
		if d.IsDir() || filepath.Ext(path) != entryExt {
			return
		}
		info, err := d.Info()
		if err != nil {
			return
		}
		s.Entries++
		s.Bytes += info.Size()
		if expires, ok := readExpiry(path); ok && !expires.IsZero() && now.After(expires) {
			s.Expired++
		}
	})
	return s, err
}

// walk calls fn for every file and shard directory below the root.
// Unreadable paths are skipped.
func (c *FileCache) walk(fn func(path string, d fs.DirEntry)) error {
	return filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == c.dir {
			return nil
		}
		fn(path, d)
		return nil
	})
}

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

func encodeEntry(data []byte, expires time.Time) []byte {
	var unix int64
	if !expires.IsZero() {
		unix = expires.Unix()
	}
	header := strconv.FormatInt(unix, 10) + "\n"
	return append([]byte(header), data...)
}

func decodeEntry(raw []byte) ([]byte, time.Time, bool) {
	i := bytes.IndexByte(raw, '\n')
	if i < 0 {
		return nil, time.Time{}, false
	}
	expires, ok := parseExpiry(raw[:i])
	if !ok {
		return nil, time.Time{}, false
	}
	return raw[i+1:], expires, true
}

func parseExpiry(b []byte) (time.Time, bool) {
	unix, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil || unix < 0 {
		return time.Time{}, false
	}
	if unix == 0 {
		return time.Time{}, true
	}
	return time.Unix(unix, 0), true
}

// readExpiry reads only the header line of the entry at path.
func readExpiry(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()
	buf := make([]byte, 24)
	n, _ := f.Read(buf)
	i := bytes.IndexByte(buf[:n], '\n')
	if i < 0 {
		return time.Time{}, false
	}
	return parseExpiry(buf[:i])
}

var _ Cache = (*FileCache)(nil)
