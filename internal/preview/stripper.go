package preview

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/jordanwest/sitekeeper/internal/types"
)

// Stripper reduces a markup body to plain prose so previews carry
// content, not syntax. Like the reference extractor, the strategy is
// pluggable per markup dialect.
type Stripper interface {
	Strip(body string) string
}

// StripperFor returns the stripper for a document format.
func StripperFor(format types.DocumentFormat) Stripper {
	if format == types.FormatHTML {
		return &HTMLStripper{}
	}
	return &MarkdownStripper{}
}

// MarkdownStripper removes structural markdown: headings, code fences,
// emphasis markers, list bullets, blockquotes. Link syntax is reduced to
// its anchor text.
type MarkdownStripper struct{}

var (
	mdImageRe    = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mdLinkRe     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdEmphasisRe = regexp.MustCompile("[*_`]+")
	mdBulletRe   = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+`)
)

// Strip implements Stripper.
func (s *MarkdownStripper) Strip(body string) string {
	var out []string
	inFence := false

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}

		line = mdImageRe.ReplaceAllString(line, "")
		line = mdLinkRe.ReplaceAllString(line, "$1")
		line = mdBulletRe.ReplaceAllString(line, "")
		line = strings.TrimPrefix(strings.TrimSpace(line), "> ")
		line = mdEmphasisRe.ReplaceAllString(line, "")

		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// HTMLStripper extracts the text content of an HTML body, skipping
// script and style elements.
type HTMLStripper struct{}

// Strip implements Stripper.
func (s *HTMLStripper) Strip(body string) string {
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return body
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head", "h1", "h2", "h3", "h4", "h5", "h6":
				return
			case "p", "div", "section", "li", "br":
				// Block boundaries become paragraph breaks.
				sb.WriteString("\n\n")
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return sb.String()
}
