package linkcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanwest/sitekeeper/internal/store"
	"github.com/jordanwest/sitekeeper/internal/types"
)

func mdDoc(id, body string) *types.Document {
	return &types.Document{
		ID:          id,
		Role:        types.RoleSection,
		Format:      types.FormatMarkdown,
		Body:        body,
		Fingerprint: store.Fingerprint(body),
	}
}

func htmlHub(body string) *types.Document {
	return &types.Document{
		ID:          "index",
		Role:        types.RoleHub,
		Format:      types.FormatHTML,
		Body:        body,
		Fingerprint: store.Fingerprint(body),
	}
}

func TestMarkdownExtractor_Extract(t *testing.T) {
	doc := mdDoc("docs/guide", `
See [the installer](/docs/install) and [auth docs](docs/api/auth.md).
External [site](https://example.com) and [mail](mailto:x@y.z) are skipped.
Images like ![diagram](/img/arch.png) are not references.
Self anchors [here](#setup) are skipped too.
`)

	refs, warnings := (&MarkdownExtractor{}).Extract(doc)
	require.Empty(t, warnings)
	require.Len(t, refs, 2)
	assert.Equal(t, "docs/install", refs[0].TargetID)
	assert.Equal(t, "the installer", refs[0].AnchorText)
	assert.Equal(t, "docs/api/auth", refs[1].TargetID)
	assert.Equal(t, "docs/guide", refs[1].SourceID)
}

func TestMarkdownExtractor_FragmentStripped(t *testing.T) {
	doc := mdDoc("docs/guide", "[setup](/docs/install#setup)")

	refs, _ := (&MarkdownExtractor{}).Extract(doc)
	require.Len(t, refs, 1)
	// Fragment is stripped before matching; its existence is not checked.
	assert.Equal(t, "docs/install", refs[0].TargetID)
}

func TestMarkdownExtractor_ParseWarnings(t *testing.T) {
	doc := mdDoc("docs/guide", `
A dangling link [broken syntax](docs/install
and an empty one [nothing]().
`)

	refs, warnings := (&MarkdownExtractor{}).Extract(doc)
	assert.Empty(t, refs)
	require.Len(t, warnings, 2)

	reasons := []string{warnings[0].Reason, warnings[1].Reason}
	assert.Contains(t, reasons, "unterminated link syntax")
	assert.Contains(t, reasons, "empty link target")
}

func TestMarkdownExtractor_CodeFencesIgnored(t *testing.T) {
	doc := mdDoc("docs/guide", "```\n[not a link](/docs/fake)\n```\n[real](/docs/install)\n")

	refs, warnings := (&MarkdownExtractor{}).Extract(doc)
	assert.Empty(t, warnings)
	require.Len(t, refs, 1)
	assert.Equal(t, "docs/install", refs[0].TargetID)
}

func TestHTMLExtractor_Extract(t *testing.T) {
	doc := htmlHub(`<html><body>
<a href="/docs/install">Install</a>
<a href="/docs/install#requirements">Requirements</a>
<a href="https://example.com">External</a>
<a>No target</a>
</body></html>`)

	refs, warnings := (&HTMLExtractor{}).Extract(doc)
	require.Len(t, refs, 2)
	assert.Equal(t, "docs/install", refs[0].TargetID)
	assert.Equal(t, "Install", refs[0].AnchorText)
	assert.Equal(t, "docs/install", refs[1].TargetID)

	require.Len(t, warnings, 1)
	assert.Equal(t, "anchor without href", warnings[0].Reason)
}

// Hub references install and quickstart; api is defined but never
// referenced by any document.
func TestValidator_OrphanDetection(t *testing.T) {
	docs := []*types.Document{
		htmlHub(`<a href="/docs/install">Install</a> <a href="/docs/quickstart">Quickstart</a>`),
		mdDoc("docs/install", "# Install"),
		mdDoc("docs/quickstart", "# Quickstart"),
		mdDoc("docs/api", "# API"),
	}

	result := NewValidator(nil).Validate(docs)

	assert.Empty(t, result.Broken)
	assert.Len(t, result.Resolvable, 2)
	assert.Equal(t, []string{"docs/api"}, result.Orphaned)
}

func TestValidator_BrokenLinks(t *testing.T) {
	docs := []*types.Document{
		htmlHub(`<a href="/docs/install">Install</a> <a href="/docs/removed">Gone</a>`),
		mdDoc("docs/install", "# Install"),
	}

	result := NewValidator(nil).Validate(docs)

	require.Len(t, result.Broken, 1)
	assert.Equal(t, "docs/removed", result.Broken[0].TargetID)
	require.Len(t, result.Resolvable, 1)
	assert.Equal(t, "docs/install", result.Resolvable[0].TargetID)
}

func TestValidator_SectionToSectionReferencesCountForOrphans(t *testing.T) {
	// A section referenced only from another section is not orphaned.
	docs := []*types.Document{
		htmlHub(`<a href="/docs/guide">Guide</a>`),
		mdDoc("docs/guide", "See the [API](/docs/api)."),
		mdDoc("docs/api", "# API"),
	}

	result := NewValidator(nil).Validate(docs)

	assert.Empty(t, result.Orphaned)
	assert.Empty(t, result.Broken)
}

func TestValidator_ParseWarningsAreNotBrokenLinks(t *testing.T) {
	docs := []*types.Document{
		htmlHub(`<a href="/docs/guide">Guide</a>`),
		mdDoc("docs/guide", "Dangling [link](docs/install"),
	}

	result := NewValidator(nil).Validate(docs)

	assert.Empty(t, result.Broken)
	require.Len(t, result.ParseWarnings, 1)
	assert.Equal(t, "docs/guide", result.ParseWarnings[0].SourceID)
}
