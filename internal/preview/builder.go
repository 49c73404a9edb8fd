package preview

import (
	"strings"
)

const (
	// minSubstance is the minimum length for a paragraph to qualify as
	// preview material. Near-empty fragments are discarded.
	minSubstance = 40

	// ellipsis marks a truncated preview.
	ellipsis = "..."

	// fallbackPreview is used when no paragraph meets the substance
	// threshold. Previews must never be empty.
	fallbackPreview = "See the full documentation for details."
)

// BuildPreview produces a bounded-length extractive preview of a source
// body. The body is stripped of markup, split into paragraph-like
// units, and the first unit with enough substance is truncated to
// maxLength at a word boundary.
//
// The result is never empty and never longer than maxLength plus the
// ellipsis marker.
func BuildPreview(body string, maxLength int, stripper Stripper) string {
	text := stripper.Strip(body)

	var chosen string
	for _, para := range splitParagraphs(text) {
		if len(para) >= minSubstance {
			chosen = para
			break
		}
	}
	if chosen == "" {
		return fallbackPreview
	}

	return truncateAtWord(chosen, maxLength)
}

// splitParagraphs breaks stripped text into paragraph-like units on
// blank lines, collapsing internal whitespace.
func splitParagraphs(text string) []string {
	var paras []string
	for _, block := range strings.Split(text, "\n\n") {
		para := strings.Join(strings.Fields(block), " ")
		if para != "" {
			paras = append(paras, para)
		}
	}
	return paras
}

// truncateAtWord cuts text to at most max bytes at a word boundary and
// appends the ellipsis marker when anything was dropped.
func truncateAtWord(text string, max int) string {
	if len(text) <= max {
		return text
	}

	cut := text[:max]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	cut = strings.TrimRight(cut, " ,;:.")

	if cut == "" {
		// A single word longer than max; hard cut.
		cut = text[:max]
	}

	return cut + ellipsis
}
