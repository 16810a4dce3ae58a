// Package render turns assistant answers into display blocks and draws
// them for the terminal. It also wraps glamour for the few places that
// render trusted, built-in markdown (the shortcuts overlay).
package render

// Markdown renders trusted markdown content for terminal display with a
// pooled glamour renderer.
func Markdown(content string, opts Options) (string, error) {
	tr, err := renderers.borrow(opts)
	if err != nil {
		return "", err
	}
	defer renderers.giveBack(opts, tr)

	return tr.Render(content)
}

// MarkdownWithWidth renders with the default options at the given width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}
