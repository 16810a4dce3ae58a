package render

import (
	"html"
	"strings"
)

// HTML renders blocks as an HTML fragment. Every span is escaped; the only
// tags emitted are the ones produced for the block and span kinds.
func HTML(blocks []Block) string {
	var sb strings.Builder
	inList := false

	for _, b := range blocks {
		if b.Kind != BlockBullet && inList {
			sb.WriteString("</ul>\n")
			inList = false
		}

		switch b.Kind {
		case BlockBullet:
			if !inList {
				sb.WriteString("<ul>\n")
				inList = true
			}
			sb.WriteString("<li>")
			writeHTMLSpans(&sb, b.Spans)
			sb.WriteString("</li>\n")
		case BlockParagraph:
			sb.WriteString("<p>")
			writeHTMLSpans(&sb, b.Spans)
			sb.WriteString("</p>\n")
		default:
			sb.WriteString("<br>\n")
		}
	}

	if inList {
		sb.WriteString("</ul>\n")
	}
	return sb.String()
}

func writeHTMLSpans(sb *strings.Builder, spans []Span) {
	for _, s := range spans {
		text := html.EscapeString(s.Text)
		if s.Kind == SpanEmphasis {
			sb.WriteString("<strong>")
			sb.WriteString(text)
			sb.WriteString("</strong>")
			continue
		}
		sb.WriteString(text)
	}
}
