package linkcheck

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/jordanwest/sitekeeper/internal/types"
)

// HTMLExtractor finds anchor elements in HTML bodies and resolves their
// href attributes against the store's id scheme.
type HTMLExtractor struct{}

// Extract implements Extractor.
func (e *HTMLExtractor) Extract(doc *types.Document) ([]types.Reference, []types.ParseWarning) {
	root, err := html.Parse(strings.NewReader(doc.Body))
	if err != nil {
		// html.Parse is extremely tolerant; a hard failure means the
		// body is not HTML at all.
		return nil, []types.ParseWarning{{
			SourceID: doc.ID,
			Snippet:  snippet(doc.Body),
			Reason:   "unparseable HTML: " + err.Error(),
		}}
	}

	var refs []types.Reference
	var warnings []types.ParseWarning

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href, found := attrValue(n, "href")
			if !found || strings.TrimSpace(href) == "" {
				warnings = append(warnings, types.ParseWarning{
					SourceID: doc.ID,
					Snippet:  snippet(renderAnchor(n)),
					Reason:   "anchor without href",
				})
			} else if id, ok := normalizeTarget(href); ok {
				refs = append(refs, types.Reference{
					SourceID:   doc.ID,
					TargetID:   id,
					AnchorText: strings.TrimSpace(nodeText(n)),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return refs, warnings
}

// attrValue returns the value of the named attribute on an element node.
func attrValue(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// nodeText collects the text content beneath a node.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// renderAnchor produces a short textual form of an anchor for warnings.
func renderAnchor(n *html.Node) string {
	text := strings.TrimSpace(nodeText(n))
	if text == "" {
		return "<a>"
	}
	return "<a>" + text + "</a>"
}
