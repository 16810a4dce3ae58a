package render

// overlayWidth is the wrap width used before the window size is known
const overlayWidth = 80

// Options selects how the shortcuts overlay is drawn by glamour. The value
// is comparable and doubles as the renderer pool key.
type Options struct {
	Width int

	// Style names a glamour standard style or a JSON style file.
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
}

// DefaultOptions draws the overlay with the dark style, keeping the line
// breaks of the generated table.
func DefaultOptions() Options {
	return Options{
		Width:            overlayWidth,
		Style:            "dark",
		PreserveNewLines: true,
	}
}

// WithWidth returns a copy wrapping at width cells; non-positive widths
// fall back to the default.
func (o Options) WithWidth(width int) Options {
	if width <= 0 {
		width = overlayWidth
	}
	o.Width = width
	return o
}

// WithStyle returns a copy using style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
