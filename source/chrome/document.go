package chrome

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Class names applied by RenderMarkdown.
const (
	SectionClass = "resume-section"
	ItemClass    = "resume-item"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderMarkdown converts a markdown resume to an HTML fragment.
//
// Each level-2 heading starts a <section class="resume-section"> that runs
// until the next one; content before the first heading (typically the name
// and contact line) forms its own section. Each level-3 heading likewise
// starts a <div class="resume-item"> inside its section.
func RenderMarkdown(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	head, sections := splitBefore(buf.String(), "<h2")
	if strings.TrimSpace(head) != "" {
		sections = append([]string{head}, sections...)
	}

	var out strings.Builder
	for _, section := range sections {
		out.WriteString(`<section class="` + SectionClass + `">`)

		intro, items := splitBefore(section, "<h3")
		out.WriteString(intro)
		for _, item := range items {
			out.WriteString(`<div class="` + ItemClass + `">` + item + `</div>`)
		}

		out.WriteString("</section>\n")
	}

	return out.String(), nil
}

// splitBefore cuts s before every occurrence of tag. head is the text
// preceding the first occurrence; each chunk starts with tag.
func splitBefore(s, tag string) (head string, chunks []string) {
	idx := strings.Index(s, tag)
	if idx < 0 {
		return s, nil
	}
	head, s = s[:idx], s[idx:]

	for {
		next := strings.Index(s[len(tag):], tag)
		if next < 0 {
			return head, append(chunks, s)
		}
		next += len(tag)
		chunks = append(chunks, s[:next])
		s = s[next:]
	}
}

// Document wraps an HTML fragment in a standalone page whose content root
// carries the given id. The body has no margin and boxes use border-box
// sizing; stylesheet is appended after those defaults.
func Document(fragment, contentID, stylesheet string) string {
	var b strings.Builder
	b.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>Resume</title><style>")
	b.WriteString("html,body{margin:0;padding:0;background:#fff;} *{box-sizing:border-box;} ")
	b.WriteString("#" + contentID + "{display:flow-root;} ")
	b.WriteString(stylesheet)
	b.WriteString("</style></head><body><div id=\"" + html.EscapeString(contentID) + "\">")
	b.WriteString(fragment)
	b.WriteString("</div></body></html>")

	return b.String()
}
