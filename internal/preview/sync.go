package preview

import (
	"context"
	"fmt"
	"time"

	"github.com/jordanwest/sitekeeper/internal/store"
	"github.com/jordanwest/sitekeeper/internal/types"
)

// Synchronizer keeps hub previews in sync with their source sections.
// A preview is rewritten only when the source fingerprint no longer
// matches the cached fingerprint from the last sync.
//
// The same hub document is targeted by every mapping, so all pending
// rewrites are applied to one in-memory body and written back once per
// run; a mapping can never overwrite another's insertion.
type Synchronizer struct {
	store    store.ContentStore
	cache    *Cache
	hubID    string
	mappings []types.PreviewMapping
}

// NewSynchronizer creates a synchronizer over the given mappings.
// Insertion points must be unique per mapping: at most one live preview
// occupies an insertion point at a time.
func NewSynchronizer(cs store.ContentStore, cache *Cache, hubID string, mappings []types.PreviewMapping) (*Synchronizer, error) {
	if cs == nil {
		return nil, fmt.Errorf("content store is required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache is required")
	}

	seen := make(map[string]string, len(mappings))
	for _, m := range mappings {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("mapping for %q: %w", m.SourceID, err)
		}
		if prev, dup := seen[m.InsertionPointID]; dup {
			return nil, fmt.Errorf("insertion point %q claimed by both %q and %q",
				m.InsertionPointID, prev, m.SourceID)
		}
		seen[m.InsertionPointID] = m.SourceID
	}

	return &Synchronizer{
		store:    cs,
		cache:    cache,
		hubID:    hubID,
		mappings: mappings,
	}, nil
}

// NeedsSync reports whether a mapping's preview is stale: no cache
// entry exists for the source, or the source's live fingerprint differs
// from the fingerprint recorded at the last sync.
func (s *Synchronizer) NeedsSync(mapping types.PreviewMapping, source *types.Document) bool {
	entry, ok := s.cache.Get(mapping.SourceID)
	if !ok {
		return true
	}
	return entry.Fingerprint != source.Fingerprint
}

// pendingWrite tracks a mapping applied to the in-memory hub body but
// not yet committed.
type pendingWrite struct {
	mapping     types.PreviewMapping
	fingerprint string
}

// SyncAll regenerates every stale preview and writes the hub back once.
// Failed mappings are counted and skipped with their cache entries
// untouched, so they are retried on the next run; there is no persistent
// error state. With dryRun set, nothing is written and Updated counts
// what would have been rewritten.
func (s *Synchronizer) SyncAll(ctx context.Context, dryRun bool) (*types.SyncStats, error) {
	stats := &types.SyncStats{}

	hub, err := s.store.GetDocument(ctx, s.hubID)
	if err != nil {
		return stats, fmt.Errorf("reading hub document: %w", err)
	}

	hubBody := hub.Body
	var pending []pendingWrite

	for _, mapping := range s.mappings {
		source, err := s.store.GetDocument(ctx, mapping.SourceID)
		if err != nil {
			stats.Failed++
			continue
		}

		if !s.NeedsSync(mapping, source) {
			stats.Skipped++
			continue
		}

		text := BuildPreview(source.Body, mapping.MaxLength, StripperFor(source.Format))
		block := renderBlock(hub.Format, mapping, text)

		newBody, err := WritePreview(hubBody, mapping.InsertionPointID, block)
		if err != nil {
			stats.Failed++
			continue
		}

		hubBody = newBody
		pending = append(pending, pendingWrite{mapping: mapping, fingerprint: source.Fingerprint})
	}

	if len(pending) == 0 {
		return stats, nil
	}

	if dryRun {
		stats.Updated = len(pending)
		return stats, nil
	}

	if err := s.store.WriteHub(ctx, hubBody); err != nil {
		// Cache entries stay unchanged so every pending mapping is
		// retried next run.
		stats.Failed += len(pending)
		return stats, fmt.Errorf("writing hub document: %w", err)
	}

	now := time.Now()
	for _, p := range pending {
		s.cache.Put(p.mapping.SourceID, p.fingerprint, now)
	}
	if err := s.cache.Save(); err != nil {
		return stats, fmt.Errorf("saving preview cache: %w", err)
	}

	stats.Updated = len(pending)
	return stats, nil
}

// renderBlock renders the preview text plus its read-more link in the
// hub's markup dialect.
func renderBlock(format types.DocumentFormat, mapping types.PreviewMapping, text string) string {
	linkText := mapping.LinkText
	if linkText == "" {
		linkText = "Read more"
	}

	if format == types.FormatHTML {
		return fmt.Sprintf("<p>%s</p>\n<p><a href=\"/%s\">%s</a></p>", text, mapping.SourceID, linkText)
	}
	return fmt.Sprintf("%s\n\n[%s](/%s)", text, linkText, mapping.SourceID)
}
