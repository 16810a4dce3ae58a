package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Styles controls how blocks are drawn in the terminal
type Styles struct {
	Text     lipgloss.Style
	Emphasis lipgloss.Style
	Bullet   lipgloss.Style

	// BulletGlyph is drawn before bullet items
	BulletGlyph string
}

// DefaultStyles returns styles derived from the active TUI theme
func DefaultStyles() Styles {
	theme := GetTUITheme()
	return Styles{
		Text:        lipgloss.NewStyle().Foreground(theme.Text),
		Emphasis:    lipgloss.NewStyle().Foreground(theme.Text).Bold(true),
		Bullet:      lipgloss.NewStyle().Foreground(theme.TextDim),
		BulletGlyph: "•",
	}
}

// PlainStyles renders without colors or attributes
func PlainStyles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle(),
		Emphasis:    lipgloss.NewStyle(),
		Bullet:      lipgloss.NewStyle(),
		BulletGlyph: "•",
	}
}

// Terminal draws blocks as terminal lines. Span text is sanitized first so
// escape sequences coming from the backend or the user are shown inert.
func Terminal(blocks []Block, styles Styles) string {
	lines := make([]string, 0, len(blocks))

	for _, b := range blocks {
		switch b.Kind {
		case BlockBullet:
			lines = append(lines, styles.Bullet.Render(styles.BulletGlyph)+" "+renderSpans(b.Spans, styles))
		case BlockParagraph:
			lines = append(lines, renderSpans(b.Spans, styles))
		default:
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n")
}

func renderSpans(spans []Span, styles Styles) string {
	var sb strings.Builder
	for _, s := range spans {
		text := Sanitize(s.Text)
		if text == "" {
			continue
		}
		if s.Kind == SpanEmphasis {
			sb.WriteString(styles.Emphasis.Render(text))
		} else {
			sb.WriteString(styles.Text.Render(text))
		}
	}
	return sb.String()
}

// Sanitize strips ANSI escape sequences and control characters (except tab)
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
