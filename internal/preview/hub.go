package preview

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrSectionNotFound indicates the hub contains neither insertion
// markers nor a locatable section container for an insertion point.
// Silent insertion into the wrong place is worse than failing loudly,
// so the section is never auto-created.
var ErrSectionNotFound = errors.New("insertion section not found in hub")

func beginMarker(id string) string {
	return fmt.Sprintf("<!-- sitekeeper:begin %s -->", id)
}

func endMarker(id string) string {
	return fmt.Sprintf("<!-- sitekeeper:end %s -->", id)
}

// WritePreview places a rendered preview block at the named insertion
// point inside the hub body and returns the new body.
//
// If begin/end markers for the insertion point already exist, the
// content between them is replaced, so repeated syncs never duplicate a
// block. Otherwise the marked block is appended at the end of the named
// section container: an HTML <section id=...> element, or a markdown
// section introduced by a heading whose slug matches the id.
func WritePreview(hubBody, insertionPointID, block string) (string, error) {
	begin := beginMarker(insertionPointID)
	end := endMarker(insertionPointID)

	if bi := strings.Index(hubBody, begin); bi >= 0 {
		ei := strings.Index(hubBody[bi:], end)
		if ei < 0 {
			return "", fmt.Errorf("begin marker for %q has no matching end marker", insertionPointID)
		}
		ei += bi
		return hubBody[:bi+len(begin)] + "\n" + block + "\n" + hubBody[ei:], nil
	}

	marked := begin + "\n" + block + "\n" + end

	if newBody, ok := appendToHTMLSection(hubBody, insertionPointID, marked); ok {
		return newBody, nil
	}
	if newBody, ok := appendToMarkdownSection(hubBody, insertionPointID, marked); ok {
		return newBody, nil
	}

	return "", fmt.Errorf("%w: %s", ErrSectionNotFound, insertionPointID)
}

// appendToHTMLSection inserts content before the closing tag of
// <section id="..."> when present.
func appendToHTMLSection(body, id, content string) (string, bool) {
	openRe := regexp.MustCompile(`<section\b[^>]*\bid="` + regexp.QuoteMeta(id) + `"[^>]*>`)
	loc := openRe.FindStringIndex(body)
	if loc == nil {
		return "", false
	}

	closeIdx := strings.Index(body[loc[1]:], "</section>")
	if closeIdx < 0 {
		return "", false
	}
	closeIdx += loc[1]

	return body[:closeIdx] + content + "\n" + body[closeIdx:], true
}

// appendToMarkdownSection inserts content at the end of the section
// introduced by a heading whose slug matches the id. The section ends
// at the next heading of the same or higher level, or at end of body.
func appendToMarkdownSection(body, id, content string) (string, bool) {
	lines := strings.Split(body, "\n")

	start := -1
	level := 0
	for i, line := range lines {
		l, title := headingOf(line)
		if l > 0 && slugify(title) == id {
			start = i
			level = l
			break
		}
	}
	if start < 0 {
		return "", false
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if l, _ := headingOf(lines[i]); l > 0 && l <= level {
			end = i
			break
		}
	}

	var out []string
	out = append(out, lines[:end]...)
	out = append(out, content)
	out = append(out, lines[end:]...)
	return strings.Join(out, "\n"), true
}

// headingOf returns the level and title of a markdown ATX heading line,
// or level 0 for any other line.
func headingOf(line string) (int, string) {
	trimmed := strings.TrimSpace(line)
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level == len(trimmed) || trimmed[level] != ' ' {
		return 0, ""
	}
	return level, strings.TrimSpace(trimmed[level:])
}

var slugCleanRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify reduces a heading title to the anchor form used as an
// insertion point id.
func slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugCleanRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
