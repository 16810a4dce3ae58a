package tui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/projassist/internal/chat"
	"github.com/diogo/projassist/internal/history"
	"github.com/diogo/projassist/internal/models"
	"github.com/diogo/projassist/internal/render"
)

// Message types for the TUI
type (
	turnSettledMsg struct {
		turn chat.Turn
		resp *models.AssistantResponse
		err  error
	}
	clipboardMsg struct {
		err error
	}
)

// Options configures the chat model
type Options struct {
	// Endpoint is shown in the header, usually the gateway URL
	Endpoint        string
	SmoothScroll    bool
	CopyToClipboard bool
	Markdown        render.Options
	Logger          *zap.Logger
	Context         context.Context
}

// Model represents the TUI state
type Model struct {
	ctx      context.Context
	ctrl     *chat.Controller
	store    *history.Store
	registry *chat.Registry
	scroll   *autoscroller
	logger   *zap.Logger
	copyFn   func(string) error

	endpoint string
	autoCopy bool
	mdOpts   render.Options

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	help   string
	notice string
	err    error
	ready  bool

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a chat model with a fresh transcript that starts
// with the greeting.
func NewChatModel(asker chat.Asker, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	scroll := newAutoscroller(opts.SmoothScroll)
	store := history.NewStore(models.Greeting)
	store.Subscribe(func(models.Message) { scroll.request() })

	ctrl := chat.NewController(store, asker,
		chat.WithLogger(logger),
		chat.WithStateListener(func(chat.State) { scroll.request() }),
	)
	registry := chat.NewRegistry()
	ctrl.Mount(registry)

	ta := textarea.New()
	ta.Placeholder = "Ask about your projects... (ctrl+k for shortcuts)"
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.Focus()

	// Enter is handled by the controller; newline insertion happens explicitly
	ta.KeyMap.InsertNewline.SetEnabled(false)

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle
	ta.BlurredStyle.Base = lipgloss.NewStyle().Foreground(colorTextDim)

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	mdOpts := opts.Markdown
	if mdOpts.Style == "" {
		mdOpts = render.DefaultOptions()
	}

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		store:    store,
		registry: registry,
		scroll:   scroll,
		logger:   logger,
		copyFn:   clipboard.WriteAll,
		endpoint: opts.Endpoint,
		autoCopy: opts.CopyToClipboard,
		mdOpts:   mdOpts,
		textarea: ta,
		spinner:  s,
	}
}

// Controller returns the turn engine behind the model
func (m Model) Controller() *chat.Controller {
	return m.ctrl
}

// Close releases the global key registration
func (m Model) Close() {
	m.ctrl.Unmount()
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.scroll.request()

	case tea.KeyMsg:
		var quit bool
		cmd, quit = m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)

	case turnSettledMsg:
		if _, ok := m.ctrl.Settle(msg.turn, msg.resp, msg.err); ok && m.autoCopy && msg.err == nil {
			cmds = append(cmds, m.copyLastAnswer())
		}

	case clipboardMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.notice = "Copied last answer to clipboard"
		}

	case spinner.TickMsg:
		if m.ctrl.State() == chat.StatePending {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.refreshTranscript()
		}

	case scrollTickMsg:
		cmds = append(cmds, m.scroll.Step(&m.viewport))
	}

	if m.ready && m.scroll.Pending() {
		m.refreshTranscript()
		cmds = append(cmds, m.scroll.Follow(&m.viewport))
	}

	return m, tea.Batch(cmds...)
}

// handleKey routes a key press through the global key registry. Keys the
// controller does not claim go to the input field when it can take them.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	pending := m.ctrl.State() == chat.StatePending
	editable := m.ctrl.Focused() && !pending && !m.ctrl.HelpOpen()

	if msg.Paste {
		if !editable {
			return nil, false
		}
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		m.ctrl.SetBuffer(m.textarea.Value())
		return cmd, false
	}

	m.ctrl.SetBuffer(m.textarea.Value())
	m.notice = ""

	var cmd tea.Cmd
	switch m.registry.Dispatch(chat.ParseKey(msg.String())) {
	case chat.ActionQuit:
		m.ctrl.Unmount()
		return nil, true

	case chat.ActionSubmit:
		cmd = m.startTurn()

	case chat.ActionNewline:
		if editable {
			m.textarea.InsertString("\n")
		}
		m.ctrl.SetBuffer(m.textarea.Value())

	case chat.ActionFocus:
		cmd = m.textarea.Focus()

	case chat.ActionClear:
		m.textarea.Reset()
		m.textarea.Blur()

	case chat.ActionToggleHelp, chat.ActionCloseHelp:
		m.refreshHelp()

	case chat.ActionCopy:
		cmd = m.copyLastAnswer()

	case chat.ActionScrollUp:
		m.scroll.Stop()
		m.viewport.LineUp(1)

	case chat.ActionScrollDown:
		m.scroll.Stop()
		m.viewport.LineDown(1)

	case chat.ActionPageUp:
		m.scroll.Stop()
		m.viewport.ViewUp()

	case chat.ActionPageDown:
		m.scroll.Stop()
		m.viewport.ViewDown()

	case chat.ActionNone:
		if editable {
			m.textarea, cmd = m.textarea.Update(msg)
			m.ctrl.SetBuffer(m.textarea.Value())
		}
	}

	return cmd, false
}

// startTurn begins a turn from the input and dispatches the request
func (m *Model) startTurn() tea.Cmd {
	turn, ok := m.ctrl.Begin()
	if !ok {
		return nil
	}
	m.textarea.Reset()
	m.err = nil
	return tea.Batch(m.askCmd(turn), m.spinner.Tick)
}

// askCmd runs the request off the update loop and reports back
func (m Model) askCmd(turn chat.Turn) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		resp, err := ctrl.Ask(ctx, turn)
		return turnSettledMsg{turn: turn, resp: resp, err: err}
	}
}

// copyLastAnswer copies the newest assistant message to the clipboard
func (m Model) copyLastAnswer() tea.Cmd {
	msg, ok := m.store.LastOfType(models.MessageAssistant)
	if !ok {
		return nil
	}
	copyFn := m.copyFn
	return func() tea.Msg {
		return clipboardMsg{err: copyFn(msg.Content)}
	}
}

// contentWidth is the inner width of the bordered panels
func (m Model) contentWidth() int {
	return max(20, m.width-2)
}

// layout sizes the components from the window dimensions
func (m *Model) layout() {
	const (
		headerHeight = 3 // one line plus border
		inputHeight  = 6 // label, three textarea lines, border
		statusHeight = 1
		panelBorder  = 2
	)

	vpHeight := max(3, m.height-headerHeight-inputHeight-statusHeight-panelBorder)
	vpWidth := m.contentWidth() - 2

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(m.contentWidth() - 2)
	m.refreshHelp()
}

// refreshTranscript re-renders the message list into the viewport
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	pending := m.ctrl.State() == chat.StatePending
	m.viewport.SetContent(renderTranscript(m.store.Snapshot(), m.viewport.Width, pending, m.spinner.View()))
}

// refreshHelp renders the shortcuts overlay when it is open
func (m *Model) refreshHelp() {
	if !m.ctrl.HelpOpen() {
		m.help = ""
		return
	}
	md := chat.ShortcutsMarkdown(m.ctrl.KeyMap())
	out, err := render.Markdown(md, m.mdOpts.WithWidth(m.contentWidth()-4))
	if err != nil {
		m.logger.Debug("shortcuts overlay fell back to plain text", zap.Error(err))
		out = md
	}
	m.help = strings.TrimRight(out, "\n")
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	width := m.contentWidth()
	var sections []string

	// Header
	headerParts := []string{titleStyle.Render("✦ Project Assistant")}
	if m.endpoint != "" {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(m.endpoint),
		)
	}
	header := headerStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Center, headerParts...))
	sections = append(sections, header)

	// Transcript, or the shortcuts overlay in its place
	body := m.viewport.View()
	style := messagesAreaStyle
	if m.help != "" {
		body = m.help
		style = overlayStyle
	}
	sections = append(sections, style.Width(width).Height(m.viewport.Height).Render(body))

	// Input
	var input string
	if m.ctrl.State() == chat.StatePending {
		input = lipgloss.JoinVertical(lipgloss.Left,
			inputLabelStyle.Render("Ask"),
			loadingStyle.Render(m.spinner.View()+" waiting for the assistant..."),
		)
	} else {
		input = lipgloss.JoinVertical(lipgloss.Left,
			inputLabelStyle.Render("Ask"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(width).Render(input))

	sections = append(sections, m.renderStatusBar(width))

	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	if m.notice != "" {
		return statusBarStyle.Width(width).Align(lipgloss.Center).Render(noticeStyle.Render(m.notice))
	}

	var items []string
	for _, b := range m.ctrl.KeyMap().ShortHelp() {
		h := b.Help()
		items = append(items, statusKeyStyle.Render(h.Key)+statusDescStyle.Render(" "+h.Desc))
	}
	if !m.ctrl.Focused() {
		items = append(items, statusKeyStyle.Render("/")+statusDescStyle.Render(" focus input"))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat TUI
func RunChat(asker chat.Asker, opts Options) error {
	m := NewChatModel(asker, opts)
	defer m.Close()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
