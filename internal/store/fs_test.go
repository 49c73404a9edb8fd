package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanwest/sitekeeper/internal/types"
)

// writeSite builds a minimal content tree for store tests.
func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}
	return root
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("hello")
	b := Fingerprint("hello")
	c := Fingerprint("hello!")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64) // hex sha256
}

func TestFSStore_ListDocuments(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html":        "<html><body>hub</body></html>",
		"docs/install.md":   "# Install\n\nRun the installer.",
		"docs/api/auth.md":  "# Auth\n\nToken based.",
		"docs/notes.txt":    "not a document",
		"docs/styles.css":   "body {}",
	})

	s, err := NewFSStore(root, "index.html", "docs")
	require.NoError(t, err)

	all, err := s.ListDocuments(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	ids := make(map[string]types.DocumentRole)
	for _, d := range all {
		ids[d.ID] = d.Role
	}
	assert.Equal(t, types.RoleHub, ids["index"])
	assert.Equal(t, types.RoleSection, ids["docs/install"])
	assert.Equal(t, types.RoleSection, ids["docs/api/auth"])

	sections, err := s.ListDocuments(context.Background(), types.RoleSection)
	require.NoError(t, err)
	assert.Len(t, sections, 2)
}

func TestFSStore_GetDocument(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html":      "<html></html>",
		"docs/install.md": "# Install",
	})

	s, err := NewFSStore(root, "index.html", "docs")
	require.NoError(t, err)

	doc, err := s.GetDocument(context.Background(), "docs/install")
	require.NoError(t, err)
	assert.Equal(t, "docs/install", doc.ID)
	assert.Equal(t, types.FormatMarkdown, doc.Format)
	assert.Equal(t, "# Install", doc.Body)
	assert.Equal(t, Fingerprint("# Install"), doc.Fingerprint)
	assert.False(t, doc.LastModifiedAt.IsZero())

	hub, err := s.GetDocument(context.Background(), "index")
	require.NoError(t, err)
	assert.Equal(t, types.RoleHub, hub.Role)
	assert.Equal(t, types.FormatHTML, hub.Format)
}

func TestFSStore_GetDocument_NotFound(t *testing.T) {
	root := writeSite(t, map[string]string{"index.html": ""})

	s, err := NewFSStore(root, "index.html", "docs")
	require.NoError(t, err)

	_, err = s.GetDocument(context.Background(), "docs/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSStore_WriteHub(t *testing.T) {
	root := writeSite(t, map[string]string{"index.html": "old"})

	s, err := NewFSStore(root, "index.html", "docs")
	require.NoError(t, err)

	require.NoError(t, s.WriteHub(context.Background(), "new body"))

	hub, err := s.GetDocument(context.Background(), "index")
	require.NoError(t, err)
	assert.Equal(t, "new body", hub.Body)

	// No temp file left behind.
	_, err = os.Stat(filepath.Join(root, "index.html.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestFSStore_FingerprintChangesWithBody(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html":      "",
		"docs/install.md": "first",
	})

	s, err := NewFSStore(root, "index.html", "docs")
	require.NoError(t, err)

	before, err := s.GetDocument(context.Background(), "docs/install")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "docs/install.md"), []byte("second"), 0644))

	after, err := s.GetDocument(context.Background(), "docs/install")
	require.NoError(t, err)
	assert.NotEqual(t, before.Fingerprint, after.Fingerprint)
}
