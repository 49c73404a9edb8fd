package preview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanwest/sitekeeper/internal/store"
	"github.com/jordanwest/sitekeeper/internal/types"
)

const syncHub = `<html><body>
<section id="install-preview"><h2>Install</h2></section>
<section id="api-preview"><h2>API</h2></section>
</body></html>`

const syncInstallDoc = `# Install

Download the latest release for your platform and unpack it somewhere on your PATH.
`

func newSyncFixture(t *testing.T) (*store.FSStore, *Cache, string) {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"index.html":      syncHub,
		"docs/install.md": syncInstallDoc,
		"docs/api.md":     "# API\n\nThe HTTP API exposes every maintenance operation over a small JSON surface.\n",
	}
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}

	fs, err := store.NewFSStore(root, "index.html", "docs")
	require.NoError(t, err)

	cache, err := LoadCache(filepath.Join(root, ".sitekeeper", "preview-cache.json"))
	require.NoError(t, err)

	return fs, cache, root
}

func testMappings() []types.PreviewMapping {
	return []types.PreviewMapping{
		{SourceID: "docs/install", InsertionPointID: "install-preview", MaxLength: 200, LinkText: "Install guide"},
		{SourceID: "docs/api", InsertionPointID: "api-preview", MaxLength: 200},
	}
}

func TestNewSynchronizer_RejectsDuplicateInsertionPoints(t *testing.T) {
	fs, cache, _ := newSyncFixture(t)

	mappings := []types.PreviewMapping{
		{SourceID: "docs/install", InsertionPointID: "p", MaxLength: 100},
		{SourceID: "docs/api", InsertionPointID: "p", MaxLength: 100},
	}

	_, err := NewSynchronizer(fs, cache, "index", mappings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insertion point")
}

func TestSyncAll_InitialSyncWritesAllPreviews(t *testing.T) {
	fs, cache, _ := newSyncFixture(t)

	sync, err := NewSynchronizer(fs, cache, "index", testMappings())
	require.NoError(t, err)

	stats, err := sync.SyncAll(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, &types.SyncStats{Updated: 2}, stats)

	hub, err := fs.GetDocument(context.Background(), "index")
	require.NoError(t, err)
	assert.Contains(t, hub.Body, "Download the latest release")
	assert.Contains(t, hub.Body, `<a href="/docs/install">Install guide</a>`)
	assert.Contains(t, hub.Body, `<a href="/docs/api">Read more</a>`)
	assert.Equal(t, 2, cache.Len())
}

func TestSyncAll_SecondRunSkips(t *testing.T) {
	fs, cache, _ := newSyncFixture(t)

	sync, err := NewSynchronizer(fs, cache, "index", testMappings())
	require.NoError(t, err)

	_, err = sync.SyncAll(context.Background(), false)
	require.NoError(t, err)

	stats, err := sync.SyncAll(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, &types.SyncStats{Skipped: 2}, stats)
}

// A cache entry exists with the old fingerprint; the source changes; a
// sync rewrites the preview and a subsequent NeedsSync is false.
func TestSyncAll_SourceChangeTriggersResync(t *testing.T) {
	fs, cache, root := newSyncFixture(t)

	sync, err := NewSynchronizer(fs, cache, "index", testMappings())
	require.NoError(t, err)

	_, err = sync.SyncAll(context.Background(), false)
	require.NoError(t, err)

	changed := "# Install\n\nInstallation now happens through the bundled setup wizard instead.\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs/install.md"), []byte(changed), 0644))

	source, err := fs.GetDocument(context.Background(), "docs/install")
	require.NoError(t, err)
	assert.True(t, sync.NeedsSync(testMappings()[0], source))

	stats, err := sync.SyncAll(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 1, stats.Skipped)

	source, err = fs.GetDocument(context.Background(), "docs/install")
	require.NoError(t, err)
	assert.False(t, sync.NeedsSync(testMappings()[0], source))

	hub, err := fs.GetDocument(context.Background(), "index")
	require.NoError(t, err)
	assert.Contains(t, hub.Body, "setup wizard")
	assert.NotContains(t, hub.Body, "Download the latest release")
}

func TestSyncAll_MissingSourceCountsFailed(t *testing.T) {
	fs, cache, _ := newSyncFixture(t)

	mappings := append(testMappings(), types.PreviewMapping{
		SourceID: "docs/ghost", InsertionPointID: "ghost-preview", MaxLength: 100,
	})

	sync, err := NewSynchronizer(fs, cache, "index", mappings)
	require.NoError(t, err)

	stats, err := sync.SyncAll(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Updated)
	assert.Equal(t, 1, stats.Failed)
}

func TestSyncAll_MissingInsertionPointRetriedNextRun(t *testing.T) {
	fs, cache, _ := newSyncFixture(t)

	mappings := []types.PreviewMapping{
		{SourceID: "docs/install", InsertionPointID: "nowhere", MaxLength: 100},
	}

	sync, err := NewSynchronizer(fs, cache, "index", mappings)
	require.NoError(t, err)

	stats, err := sync.SyncAll(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, cache.Len())

	// No error state persists: the mapping is simply stale again.
	source, err := fs.GetDocument(context.Background(), "docs/install")
	require.NoError(t, err)
	assert.True(t, sync.NeedsSync(mappings[0], source))
}

func TestSyncAll_DryRunWritesNothing(t *testing.T) {
	fs, cache, _ := newSyncFixture(t)

	sync, err := NewSynchronizer(fs, cache, "index", testMappings())
	require.NoError(t, err)

	stats, err := sync.SyncAll(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Updated)
	assert.Equal(t, 0, cache.Len())

	hub, err := fs.GetDocument(context.Background(), "index")
	require.NoError(t, err)
	assert.Equal(t, syncHub, hub.Body)
}

// failingHubStore wraps a content store and fails the hub write-back.
type failingHubStore struct {
	store.ContentStore
}

func (f *failingHubStore) WriteHub(ctx context.Context, body string) error {
	return errors.New("disk full")
}

func TestSyncAll_HubWriteFailureKeepsCacheUnchanged(t *testing.T) {
	fs, cache, _ := newSyncFixture(t)

	sync, err := NewSynchronizer(&failingHubStore{ContentStore: fs}, cache, "index", testMappings())
	require.NoError(t, err)

	stats, err := sync.SyncAll(context.Background(), false)
	require.Error(t, err)
	assert.Equal(t, 0, stats.Updated)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 0, cache.Len())
}

func TestCache_Persistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	c, err := LoadCache(path)
	require.NoError(t, err)
	c.Put("docs/install", "f1", time.Now())
	require.NoError(t, c.Save())

	reloaded, err := LoadCache(path)
	require.NoError(t, err)
	entry, ok := reloaded.Get("docs/install")
	require.True(t, ok)
	assert.Equal(t, "f1", entry.Fingerprint)
	assert.Equal(t, "docs/install", entry.SourceID)
}

func TestLoadCache_CorruptFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadCache(path)
	assert.Error(t, err)
}
