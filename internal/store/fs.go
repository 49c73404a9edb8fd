package store

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jordanwest/sitekeeper/internal/types"
)

// FSStore reads documents from a directory tree. Section documents live
// under the docs directory; the hub is a single well-known file.
//
// Document ids are slash-separated paths relative to the content root
// with the markup extension stripped, e.g. "docs/install" for
// "docs/install.md" and "index" for "index.html".
type FSStore struct {
	// Root is the content repository root directory.
	Root string

	// HubPath is the hub file path relative to Root (e.g. "index.html").
	HubPath string

	// DocsDir is the documentation root relative to Root (e.g. "docs").
	DocsDir string
}

// markupExts are the extensions the store recognizes as documents.
var markupExts = []string{".md", ".html"}

// NewFSStore creates a filesystem-backed content store.
// Returns an error if the root cannot be resolved to an absolute path.
func NewFSStore(root, hubPath, docsDir string) (*FSStore, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid content root %q: %w", root, err)
	}
	if hubPath == "" {
		return nil, fmt.Errorf("hub path is required")
	}
	if docsDir == "" {
		return nil, fmt.Errorf("docs directory is required")
	}

	return &FSStore{
		Root:    absRoot,
		HubPath: filepath.ToSlash(hubPath),
		DocsDir: filepath.ToSlash(docsDir),
	}, nil
}

// HubID returns the document id of the hub.
func (s *FSStore) HubID() string {
	return idForPath(s.HubPath)
}

// ListDocuments implements ContentStore.
func (s *FSStore) ListDocuments(ctx context.Context, role types.DocumentRole) ([]*types.Document, error) {
	var docs []*types.Document

	if role == "" || role == types.RoleHub {
		hub, err := s.readDocument(s.HubPath, types.RoleHub)
		if err != nil {
			return nil, fmt.Errorf("reading hub document: %w", err)
		}
		docs = append(docs, hub)
	}

	if role == "" || role == types.RoleSection {
		docsRoot := filepath.Join(s.Root, filepath.FromSlash(s.DocsDir))
		err := filepath.WalkDir(docsRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if d.IsDir() || !hasMarkupExt(path) {
				return nil
			}

			rel, err := filepath.Rel(s.Root, path)
			if err != nil {
				return nil
			}

			doc, err := s.readDocument(filepath.ToSlash(rel), types.RoleSection)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking docs directory: %w", err)
		}
	}

	return docs, nil
}

// GetDocument implements ContentStore.
func (s *FSStore) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if id == s.HubID() {
		return s.readDocument(s.HubPath, types.RoleHub)
	}

	// Section ids carry no extension; probe the known markup extensions.
	for _, ext := range markupExts {
		rel := filepath.FromSlash(id) + ext
		if _, err := os.Stat(filepath.Join(s.Root, rel)); err == nil {
			return s.readDocument(filepath.ToSlash(rel), types.RoleSection)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// WriteHub implements ContentStore. The hub file is rewritten atomically
// via a temp file and rename so a crash never leaves a torn body.
func (s *FSStore) WriteHub(ctx context.Context, body string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	path := filepath.Join(s.Root, filepath.FromSlash(s.HubPath))
	return writeFileAtomic(path, []byte(body))
}

// readDocument reads the file at the given root-relative path and builds
// a Document with a fresh fingerprint.
func (s *FSStore) readDocument(rel string, role types.DocumentRole) (*types.Document, error) {
	path := filepath.Join(s.Root, filepath.FromSlash(rel))

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return nil, fmt.Errorf("stat %s: %w", rel, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}

	body := string(data)
	return &types.Document{
		ID:             idForPath(rel),
		Role:           role,
		Format:         formatForPath(rel),
		Body:           body,
		Fingerprint:    Fingerprint(body),
		LastModifiedAt: info.ModTime(),
	}, nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Clean up on error (best effort)
		return fmt.Errorf("committing %s: %w", path, err)
	}

	return nil
}

// idForPath converts a root-relative file path to a document id.
func idForPath(rel string) string {
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}

// formatForPath infers the markup dialect from the file extension.
func formatForPath(rel string) types.DocumentFormat {
	if strings.HasSuffix(rel, ".html") {
		return types.FormatHTML
	}
	return types.FormatMarkdown
}

func hasMarkupExt(path string) bool {
	for _, ext := range markupExts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
