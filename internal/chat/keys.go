package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyEvent is a key press with its modifiers, independent of the terminal
// library that produced it.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
}

// String spells the event the way key bindings are written, e.g. "ctrl+k"
func (e KeyEvent) String() string {
	var sb strings.Builder
	if e.Ctrl {
		sb.WriteString("ctrl+")
	}
	if e.Alt {
		sb.WriteString("alt+")
	}
	if e.Meta {
		sb.WriteString("meta+")
	}
	if e.Shift {
		sb.WriteString("shift+")
	}
	sb.WriteString(e.Key)
	return sb.String()
}

// ParseKey reads a spelling such as "shift+enter" or "ctrl+k" into a KeyEvent
func ParseKey(s string) KeyEvent {
	var ev KeyEvent
	for {
		switch {
		case strings.HasPrefix(s, "ctrl+") && len(s) > len("ctrl+"):
			ev.Ctrl = true
			s = s[len("ctrl+"):]
		case strings.HasPrefix(s, "alt+") && len(s) > len("alt+"):
			ev.Alt = true
			s = s[len("alt+"):]
		case strings.HasPrefix(s, "meta+") && len(s) > len("meta+"):
			ev.Meta = true
			s = s[len("meta+"):]
		case strings.HasPrefix(s, "cmd+") && len(s) > len("cmd+"):
			ev.Meta = true
			s = s[len("cmd+"):]
		case strings.HasPrefix(s, "shift+") && len(s) > len("shift+"):
			ev.Shift = true
			s = s[len("shift+"):]
		default:
			ev.Key = s
			return ev
		}
	}
}

// Action tells the caller what a key press did
type Action int

const (
	// ActionNone leaves the key to the focused input field
	ActionNone Action = iota
	ActionSubmit
	ActionNewline
	ActionFocus
	ActionToggleHelp
	ActionCloseHelp
	ActionClear
	ActionCopy
	ActionQuit
	ActionScrollUp
	ActionScrollDown
	ActionPageUp
	ActionPageDown
)

var actionNames = map[Action]string{
	ActionNone:       "none",
	ActionSubmit:     "submit",
	ActionNewline:    "newline",
	ActionFocus:      "focus",
	ActionToggleHelp: "toggle-help",
	ActionCloseHelp:  "close-help",
	ActionClear:      "clear",
	ActionCopy:       "copy",
	ActionQuit:       "quit",
	ActionScrollUp:   "scroll-up",
	ActionScrollDown: "scroll-down",
	ActionPageUp:     "page-up",
	ActionPageDown:   "page-down",
}

// String implements fmt.Stringer
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// KeyMap defines the keyboard shortcuts of the chat
type KeyMap struct {
	Submit     key.Binding
	Newline    key.Binding
	Focus      key.Binding
	Help       key.Binding
	Escape     key.Binding
	Copy       key.Binding
	Quit       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
}

// DefaultKeyMap returns the standard bindings. Terminals rarely report
// shift+enter, so alt+enter and ctrl+j also insert a newline. Cmd+K reaches
// a terminal program as alt+k when Cmd/Option is mapped to meta; meta+k
// matches events built with ParseKey("cmd+k").
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send message"),
		),
		Newline: key.NewBinding(
			key.WithKeys("shift+enter", "alt+enter", "ctrl+j"),
			key.WithHelp("shift+enter", "new line"),
		),
		Focus: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "focus input"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+k", "alt+k", "meta+k"),
			key.WithHelp("ctrl+k", "toggle shortcuts"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close shortcuts / clear input"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy last answer"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Newline, k.Help, k.Quit}
}

// FullHelp returns every binding, grouped for the shortcuts overlay
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Newline, k.Focus, k.Escape},
		{k.Help, k.Copy, k.Quit},
		{k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown},
	}
}

// ShortcutsMarkdown renders the key map as a markdown table for the overlay
func ShortcutsMarkdown(k KeyMap) string {
	var sb strings.Builder
	sb.WriteString("# Keyboard shortcuts\n\n")
	sb.WriteString("| Key | Action |\n|---|---|\n")
	for _, group := range k.FullHelp() {
		for _, b := range group {
			h := b.Help()
			fmt.Fprintf(&sb, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
	sb.WriteString("\nPress `esc` or `ctrl+k` to close.\n")
	return sb.String()
}
