package render

import (
	"strings"
	"unicode"
)

// BlockKind identifies the display structure of a transcript line
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockBullet
	BlockLineBreak
)

// String implements fmt.Stringer
func (k BlockKind) String() string {
	switch k {
	case BlockParagraph:
		return "paragraph"
	case BlockBullet:
		return "bullet"
	case BlockLineBreak:
		return "linebreak"
	default:
		return "unknown"
	}
}

// SpanKind identifies how a run of text is emphasized
type SpanKind int

const (
	SpanPlain SpanKind = iota
	SpanEmphasis
)

// String implements fmt.Stringer
func (k SpanKind) String() string {
	if k == SpanEmphasis {
		return "emphasis"
	}
	return "plain"
}

// Span is the smallest typed unit of rendered text
type Span struct {
	Kind SpanKind
	Text string
}

// Block is one rendered line: a paragraph, a bullet item or a line break
type Block struct {
	Kind  BlockKind
	Spans []Span
}

const (
	bulletMarker = "* "
	boldDelim    = "**"
)

// Parse splits answer text into display blocks.
//
// Only two constructs are recognized: lines starting with "* " become
// bullets, and "**text**" pairs become emphasis spans. Everything else is
// plain text; the result never contains markup taken from the input.
func Parse(text string) []Block {
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, bulletMarker):
			blocks = append(blocks, Block{
				Kind:  BlockBullet,
				Spans: parseSpans(stripBullet(line)),
			})
		case trimmed != "":
			blocks = append(blocks, Block{
				Kind:  BlockParagraph,
				Spans: parseSpans(line),
			})
		default:
			blocks = append(blocks, Block{Kind: BlockLineBreak})
		}
	}

	return blocks
}

// stripBullet removes leading whitespace, the "*" marker and the whitespace after it
func stripBullet(line string) string {
	s := strings.TrimLeftFunc(line, unicode.IsSpace)
	s = strings.TrimPrefix(s, "*")
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

// parseSpans applies the bold rule: non-overlapping "**" pairs, scanned left
// to right, enclose emphasis. An unmatched delimiter stays literal.
func parseSpans(s string) []Span {
	var spans []Span

	for {
		open := strings.Index(s, boldDelim)
		if open < 0 {
			break
		}
		rest := s[open+len(boldDelim):]
		end := strings.Index(rest, boldDelim)
		if end < 0 {
			break
		}

		spans = appendSpan(spans, SpanPlain, s[:open])
		spans = appendSpan(spans, SpanEmphasis, rest[:end])
		s = rest[end+len(boldDelim):]
	}

	return appendSpan(spans, SpanPlain, s)
}

// appendSpan drops empty text and merges adjacent plain runs. Every
// emphasis pair keeps its own span.
func appendSpan(spans []Span, kind SpanKind, text string) []Span {
	if text == "" {
		return spans
	}
	if n := len(spans); n > 0 && kind == SpanPlain && spans[n-1].Kind == SpanPlain {
		spans[n-1].Text += text
		return spans
	}
	return append(spans, Span{Kind: kind, Text: text})
}

// PlainText joins the span texts of a block without any decoration
func (b Block) PlainText() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}
