package linkcheck

import (
	"regexp"
	"strings"

	"github.com/jordanwest/sitekeeper/internal/types"
)

// MarkdownExtractor finds inline links of the form [text](target) in
// markdown bodies. Reference-style links and autolinks are outside its
// id scheme and ignored.
type MarkdownExtractor struct{}

// linkRe matches a complete inline link. The target stops at the first
// closing paren or whitespace (titles are tolerated but discarded).
var linkRe = regexp.MustCompile(`(!?)\[([^\]]*)\]\(\s*([^)\s]*)(?:\s+"[^"]*")?\s*\)`)

// danglingRe matches link syntax that opens a target but never closes
// it, e.g. "[text](docs/install". These are parse warnings, not links.
var danglingRe = regexp.MustCompile(`\[[^\]]*\]\([^)]*$`)

// Extract implements Extractor.
func (e *MarkdownExtractor) Extract(doc *types.Document) ([]types.Reference, []types.ParseWarning) {
	var refs []types.Reference
	var warnings []types.ParseWarning

	body := stripCodeFences(doc.Body)

	for _, m := range linkRe.FindAllStringSubmatch(body, -1) {
		if m[1] == "!" {
			// Image, not a reference.
			continue
		}
		anchor, target := m[2], m[3]
		if target == "" {
			warnings = append(warnings, types.ParseWarning{
				SourceID: doc.ID,
				Snippet:  snippet(m[0]),
				Reason:   "empty link target",
			})
			continue
		}

		id, ok := normalizeTarget(target)
		if !ok {
			continue
		}
		refs = append(refs, types.Reference{
			SourceID:   doc.ID,
			TargetID:   id,
			AnchorText: anchor,
		})
	}

	// Scan line by line for link syntax the pattern could not close.
	for _, line := range strings.Split(body, "\n") {
		if m := danglingRe.FindString(line); m != "" {
			warnings = append(warnings, types.ParseWarning{
				SourceID: doc.ID,
				Snippet:  snippet(m),
				Reason:   "unterminated link syntax",
			})
		}
	}

	return refs, warnings
}

// stripCodeFences blanks out fenced code blocks so link-shaped text in
// examples is not treated as a reference.
func stripCodeFences(body string) string {
	var out strings.Builder
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			out.WriteString("\n")
			continue
		}
		if inFence {
			out.WriteString("\n")
			continue
		}
		out.WriteString(line)
		out.WriteString("\n")
	}
	return out.String()
}

// snippet bounds the amount of raw syntax carried into a warning.
func snippet(s string) string {
	const max = 80
	if len(s) > max {
		return s[:max]
	}
	return s
}
