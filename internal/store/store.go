package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/jordanwest/sitekeeper/internal/types"
)

// ErrNotFound indicates a requested document id does not exist in the store.
var ErrNotFound = errors.New("document not found")

// ContentStore is a read-only view over the content repository, plus the
// one write operation the preview synchronizer needs. All other
// components stay read-only, which keeps them trivially testable.
type ContentStore interface {
	// ListDocuments returns documents with the given role.
	// An empty role returns every document.
	ListDocuments(ctx context.Context, role types.DocumentRole) ([]*types.Document, error)

	// GetDocument resolves an id to its current text and fingerprint.
	// Returns ErrNotFound when the id does not exist.
	GetDocument(ctx context.Context, id string) (*types.Document, error)

	// WriteHub replaces the hub document's body. This is the single
	// write path into the store; it is used only by the synchronizer.
	WriteHub(ctx context.Context, body string) error
}

// Fingerprint computes the deterministic content hash used to detect
// body changes. Identical bodies yield identical fingerprints, even
// across different ids.
func Fingerprint(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}
