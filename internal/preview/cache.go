package preview

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jordanwest/sitekeeper/internal/types"
)

// Cache persists the fingerprint each preview source had when it was
// last synchronized. It is the only state the synchronizer owns; losing
// it forces a full resync, never incorrect data.
//
// The file is loaded and saved whole, never partially patched.
type Cache struct {
	path    string
	entries map[string]types.PreviewCacheEntry
}

// cacheFile is the on-disk shape of the cache.
type cacheFile struct {
	Entries map[string]types.PreviewCacheEntry `json:"entries"`
}

// LoadCache reads the cache file at path. A missing file yields an
// empty cache; it is created on first save.
func LoadCache(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]types.PreviewCacheEntry),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	var f cacheFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing cache file: %w", err)
	}
	if f.Entries != nil {
		c.entries = f.Entries
	}

	return c, nil
}

// Get returns the cache entry for a source id.
func (c *Cache) Get(sourceID string) (types.PreviewCacheEntry, bool) {
	entry, ok := c.entries[sourceID]
	return entry, ok
}

// Put records the fingerprint a source had when its preview was written.
// The change is in memory only until Save is called.
func (c *Cache) Put(sourceID, fingerprint string, syncedAt time.Time) {
	c.entries[sourceID] = types.PreviewCacheEntry{
		SourceID:    sourceID,
		Fingerprint: fingerprint,
		SyncedAt:    syncedAt,
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Save writes the whole cache atomically via temp file and rename.
func (c *Cache) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(cacheFile{Entries: c.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing cache: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up on error (best effort)
		return fmt.Errorf("committing cache file: %w", err)
	}

	return nil
}
