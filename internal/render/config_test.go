package render

import (
	"testing"

	"github.com/diogo/projassist/internal/config"
)

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	opts := OptionsFromConfig(config.MarkdownConfig{Style: "light", EnableEmoji: true})

	if opts.Style != "light" {
		t.Errorf("Style = %s, want light", opts.Style)
	}
	if !opts.EnableEmoji {
		t.Error("EnableEmoji should follow config")
	}
	if opts.Width != 80 {
		t.Errorf("Width = %d, want default 80", opts.Width)
	}
}

func TestOptionsFromConfig_EmptyStyleKeepsDefault(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	opts := OptionsFromConfig(config.MarkdownConfig{})
	if opts.Style != "dark" {
		t.Errorf("Style = %s, want dark", opts.Style)
	}
}

func TestOptionsFromConfig_EnvOverride(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "notty")

	opts := OptionsFromConfig(config.MarkdownConfig{Style: "light"})
	if opts.Style != "notty" {
		t.Errorf("Style = %s, want notty from env", opts.Style)
	}
}
