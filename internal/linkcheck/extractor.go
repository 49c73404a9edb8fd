package linkcheck

import (
	"strings"

	"github.com/jordanwest/sitekeeper/internal/types"
)

// Extractor scans a document body for cross-document references.
// Implementations own one markup dialect; the extraction strategy (and
// its known limitations, such as fragment targets not being validated)
// is swappable without touching the validator.
type Extractor interface {
	// Extract returns the references found in the document plus any
	// parse warnings for reference syntax it could not interpret.
	Extract(doc *types.Document) ([]types.Reference, []types.ParseWarning)
}

// CompositeExtractor dispatches to a dialect-specific extractor based on
// the document's format.
type CompositeExtractor struct {
	Markdown Extractor
	HTML     Extractor
}

// NewCompositeExtractor wires the default markdown and HTML extractors.
func NewCompositeExtractor() *CompositeExtractor {
	return &CompositeExtractor{
		Markdown: &MarkdownExtractor{},
		HTML:     &HTMLExtractor{},
	}
}

// Extract implements Extractor.
func (e *CompositeExtractor) Extract(doc *types.Document) ([]types.Reference, []types.ParseWarning) {
	if doc.Format == types.FormatHTML {
		return e.HTML.Extract(doc)
	}
	return e.Markdown.Extract(doc)
}

// normalizeTarget reduces a raw link target to a document id.
// Returns ok=false for targets outside the store's internal id scheme
// (external URLs, mail links, pure fragment anchors).
//
// Fragments are stripped before matching; fragment existence is not
// validated.
func normalizeTarget(target string) (string, bool) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", false
	}

	if strings.Contains(target, "://") ||
		strings.HasPrefix(target, "mailto:") ||
		strings.HasPrefix(target, "tel:") ||
		strings.HasPrefix(target, "//") {
		return "", false
	}

	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	if i := strings.IndexByte(target, '?'); i >= 0 {
		target = target[:i]
	}
	if target == "" {
		// Pure fragment anchor into the same document.
		return "", false
	}

	target = strings.TrimPrefix(target, "./")
	target = strings.TrimPrefix(target, "/")
	target = strings.TrimSuffix(target, "/")

	for _, ext := range []string{".md", ".html"} {
		if strings.HasSuffix(target, ext) {
			target = strings.TrimSuffix(target, ext)
			break
		}
	}

	if target == "" {
		return "", false
	}
	return target, true
}
