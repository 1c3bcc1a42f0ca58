package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/lingnexus/lingnexus/internal/models"
)

// entryExt is the file extension of a cache entry.
const entryExt = ".json.zst"

const tmpExt = ".tmp"

// Cache stores descriptor results on disk, one zstd-compressed JSON file per
// entry.
type Cache struct {
	dir string
	mu  sync.Mutex
}

// New creates a new cache instance with the specified directory. An empty dir
// disables the cache.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Key generates the cache key for an identifier computed by the named
// descriptor provider.
func Key(providerID string, id models.CandidateIdentifier) (string, error) {
	h := sha256.New()

	if err := writeString(h, providerID); err != nil {
		return "", err
	}
	if err := writeString(h, string(id)); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

type entry struct {
	Identifier models.CandidateIdentifier `json:"identifier"`
	Result     models.DescriptorResult    `json:"result"`
}

// Get retrieves a cached descriptor result if it exists
func (c *Cache) Get(key string) (models.DescriptorResult, bool) {
	if c.dir == "" {
		return models.DescriptorResult{}, false
	}

	// Entries are written by rename, so reads need no lock.
	data, err := os.ReadFile(c.cachePath(key))
	if err != nil {
		// Cache miss
		return models.DescriptorResult{}, false
	}

	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return models.DescriptorResult{}, false
	}
	defer dec.Close()

	var e entry
	if err := json.NewDecoder(dec).Decode(&e); err != nil {
		// Invalid cache entry, treat as miss
		return models.DescriptorResult{}, false
	}

	return e.Result, true
}

// Put stores a descriptor result in the cache
func (c *Cache) Put(key string, id models.CandidateIdentifier, result models.DescriptorResult) error {
	if c.dir == "" {
		return nil
	}

	raw, err := json.Marshal(entry{Identifier: id, Result: result})
	if err != nil {
		return fmt.Errorf("marshaling descriptor result: %w", err)
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if _, err := enc.Write(raw); err != nil {
		_ = enc.Close()
		return fmt.Errorf("compressing cache entry: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("compressing cache entry: %w", err)
	}

	// The lock orders writes against Clear.
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, key+".*"+tmpExt)
	if err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.cachePath(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing cache file: %w", err)
	}

	return nil
}

// Clear removes all cached results
func (c *Cache) Clear() error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(c.dir); os.IsNotExist(err) {
		return nil
	}

	// Only remove directories that hold nothing but cache entries.
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}

	if len(entries) > 0 {
		for _, entry := range entries {
			if entry.IsDir() {
				return fmt.Errorf("cache directory contains subdirectories - refusing to delete for safety")
			}
			// Interrupted writes leave temp files behind.
			if !strings.HasSuffix(entry.Name(), entryExt) && !strings.HasSuffix(entry.Name(), tmpExt) {
				return fmt.Errorf("cache directory contains non-cache files - refusing to delete for safety")
			}
		}
	}

	return os.RemoveAll(c.dir)
}

// Len returns the number of entries on disk.
func (c *Cache) Len() int {
	if c.dir == "" {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(c.dir, "*"+entryExt))
	if err != nil {
		return 0
	}
	return len(matches)
}

func (c *Cache) cachePath(key string) string {
	return filepath.Join(c.dir, key+entryExt)
}

func writeString(w io.Writer, s string) error {
	// Null byte delimiter prevents hash collisions between adjacent fields
	_, err := w.Write([]byte(s + "\x00"))
	return err
}
