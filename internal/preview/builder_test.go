package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const installBody = `# Installation Guide

Download the latest release for your platform and unpack it somewhere
on your PATH. The binary is self-contained and needs no runtime.

## Requirements

A 64-bit OS is assumed throughout.
`

func TestBuildPreview_FirstSubstantialParagraph(t *testing.T) {
	got := BuildPreview(installBody, 500, &MarkdownStripper{})

	assert.True(t, strings.HasPrefix(got, "Download the latest release"))
	assert.NotContains(t, got, "#")
	assert.NotContains(t, got, "Installation Guide")
}

func TestBuildPreview_TruncatesAtWordBoundary(t *testing.T) {
	got := BuildPreview(installBody, 40, &MarkdownStripper{})

	assert.LessOrEqual(t, len(got), 40+len(ellipsis))
	assert.True(t, strings.HasSuffix(got, ellipsis))
	// No mid-word cut before the marker.
	base := strings.TrimSuffix(got, ellipsis)
	assert.False(t, strings.HasSuffix(base, " "))
	assert.Contains(t, installBody, base)
}

func TestBuildPreview_NeverEmpty(t *testing.T) {
	cases := []string{
		"",
		"# Only a heading\n",
		"short\n\ntiny\n",
		"```\ncode only\n```\n",
	}
	for _, body := range cases {
		got := BuildPreview(body, 200, &MarkdownStripper{})
		assert.Equal(t, fallbackPreview, got)
		assert.NotEmpty(t, got)
	}
}

func TestBuildPreview_BoundedLength(t *testing.T) {
	long := strings.Repeat("word ", 200)
	for _, max := range []int{10, 40, 100, 1000} {
		got := BuildPreview(long, max, &MarkdownStripper{})
		assert.LessOrEqual(t, len(got), max+len(ellipsis), "max=%d", max)
		assert.NotEmpty(t, got)
	}
}

func TestBuildPreview_SingleLongWord(t *testing.T) {
	body := strings.Repeat("x", 100)
	got := BuildPreview(body, 20, &MarkdownStripper{})

	assert.LessOrEqual(t, len(got), 20+len(ellipsis))
	assert.NotEmpty(t, got)
}

func TestMarkdownStripper_Strip(t *testing.T) {
	body := "# Title\n\nSome *emphasized* text with a [link](/docs/install) and `code`.\n\n- bullet one\n- bullet two\n\n> quoted line\n"

	got := (&MarkdownStripper{}).Strip(body)

	assert.NotContains(t, got, "# Title")
	assert.NotContains(t, got, "*")
	assert.NotContains(t, got, "`")
	assert.Contains(t, got, "Some emphasized text with a link and code.")
	assert.Contains(t, got, "bullet one")
	assert.NotContains(t, got, "- bullet")
	assert.Contains(t, got, "quoted line")
	assert.NotContains(t, got, "> quoted")
}

func TestMarkdownStripper_LinkReducedToAnchorText(t *testing.T) {
	got := (&MarkdownStripper{}).Strip("Read [the guide](/docs/guide) first.")
	assert.Equal(t, "Read the guide first.", strings.TrimSpace(got))
}

func TestHTMLStripper_Strip(t *testing.T) {
	body := `<html><head><title>x</title><style>p{}</style></head><body>
<h1>Heading dropped</h1>
<p>First paragraph of real content.</p>
<script>var x = 1;</script>
<p>Second paragraph.</p>
</body></html>`

	got := (&HTMLStripper{}).Strip(body)

	assert.Contains(t, got, "First paragraph of real content.")
	assert.Contains(t, got, "Second paragraph.")
	assert.NotContains(t, got, "Heading dropped")
	assert.NotContains(t, got, "var x")
	assert.NotContains(t, got, "p{}")
}

func TestBuildPreview_HTMLSource(t *testing.T) {
	body := `<h1>API</h1><p>The HTTP API exposes every maintenance operation over a small JSON surface.</p>`

	got := BuildPreview(body, 500, &HTMLStripper{})
	require.NotEmpty(t, got)
	assert.True(t, strings.HasPrefix(got, "The HTTP API exposes"))
}
