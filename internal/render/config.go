package render

import (
	"os"

	"github.com/diogo/projassist/internal/config"
)

// OptionsFromConfig builds glamour options from the user's markdown settings.
// The GLAMOUR_STYLE environment variable takes precedence for the style.
func OptionsFromConfig(md config.MarkdownConfig) Options {
	opts := DefaultOptions()

	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}

	return opts
}
