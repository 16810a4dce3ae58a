// Package chat implements the turn engine of the assistant chat: input
// buffer, submit guard, key handling and the single in-flight request.
package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"go.uber.org/zap"

	"github.com/diogo/projassist/internal/history"
	"github.com/diogo/projassist/internal/models"
)

// Asker sends a question to the assistant
type Asker interface {
	Ask(ctx context.Context, question string) (*models.AssistantResponse, error)
}

// AskerFunc adapts a function to the Asker interface
type AskerFunc func(ctx context.Context, question string) (*models.AssistantResponse, error)

// Ask implements Asker
func (f AskerFunc) Ask(ctx context.Context, question string) (*models.AssistantResponse, error) {
	return f(ctx, question)
}

// Turn identifies one submitted question
type Turn struct {
	ID       uint64
	Question string
	User     models.Message
}

// DefaultOwner is the registry owner used by a Controller
const DefaultOwner = "composer"

// Controller owns the composition buffer and the Idle/Composing/Pending
// state machine. At most one turn is pending at a time.
type Controller struct {
	mu       sync.Mutex
	store    *history.Store
	asker    Asker
	logger   *zap.Logger
	keys     KeyMap
	owner    string
	onChange func(State)

	buffer   string
	pending  bool
	turnID   uint64
	focused  bool
	helpOpen bool
	sub      *Subscription
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithKeyMap replaces the default key bindings
func WithKeyMap(keys KeyMap) Option {
	return func(c *Controller) {
		c.keys = keys
	}
}

// WithOwner sets the name used for the global key registration
func WithOwner(owner string) Option {
	return func(c *Controller) {
		c.owner = owner
	}
}

// WithStateListener is called after every Idle/Pending transition
func WithStateListener(fn func(State)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// NewController creates a Controller appending to store and asking asker.
// The composition field starts focused.
func NewController(store *history.Store, asker Asker, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		asker:   asker,
		logger:  zap.NewNop(),
		keys:    DefaultKeyMap(),
		owner:   DefaultOwner,
		focused: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the transcript the controller appends to
func (c *Controller) Store() *history.Store {
	return c.store
}

// KeyMap returns the active bindings
func (c *Controller) KeyMap() KeyMap {
	return c.keys
}

// State reports the current turn state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	switch {
	case c.pending:
		return StatePending
	case c.buffer != "":
		return StateComposing
	default:
		return StateIdle
	}
}

// SetBuffer replaces the composition buffer
func (c *Controller) SetBuffer(s string) {
	c.mu.Lock()
	c.buffer = s
	c.mu.Unlock()
}

// Buffer returns the composition buffer
func (c *Controller) Buffer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer
}

// InsertNewline appends a line break to the buffer
func (c *Controller) InsertNewline() {
	c.mu.Lock()
	c.buffer += "\n"
	c.mu.Unlock()
}

// ClearBuffer empties the buffer
func (c *Controller) ClearBuffer() {
	c.SetBuffer("")
}

// Focus gives focus to the composition field
func (c *Controller) Focus() {
	c.mu.Lock()
	c.focused = true
	c.mu.Unlock()
}

// Blur releases focus from the composition field
func (c *Controller) Blur() {
	c.mu.Lock()
	c.focused = false
	c.mu.Unlock()
}

// Focused reports whether the composition field has focus
func (c *Controller) Focused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focused
}

// ToggleHelp opens or closes the shortcuts overlay
func (c *Controller) ToggleHelp() {
	c.mu.Lock()
	c.helpOpen = !c.helpOpen
	c.mu.Unlock()
}

// CloseHelp closes the shortcuts overlay
func (c *Controller) CloseHelp() {
	c.mu.Lock()
	c.helpOpen = false
	c.mu.Unlock()
}

// HelpOpen reports whether the shortcuts overlay is visible
func (c *Controller) HelpOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.helpOpen
}

// Begin starts a turn from the buffer. It refuses when a turn is pending or
// the trimmed buffer is empty; otherwise the user message is appended, the
// buffer cleared and the controller enters Pending.
func (c *Controller) Begin() (Turn, bool) {
	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return Turn{}, false
	}
	question := strings.TrimSpace(c.buffer)
	if question == "" {
		c.mu.Unlock()
		return Turn{}, false
	}
	c.buffer = ""
	c.pending = true
	c.turnID++
	turn := Turn{ID: c.turnID, Question: question}
	c.mu.Unlock()

	turn.User = c.store.Append(models.MessageUser, question)
	c.logger.Debug("turn started", zap.Uint64("turn", turn.ID), zap.String("message_id", turn.User.ID))
	c.notify(StatePending)

	return turn, true
}

// Ask runs the asker for a begun turn
func (c *Controller) Ask(ctx context.Context, turn Turn) (*models.AssistantResponse, error) {
	return c.asker.Ask(ctx, turn.Question)
}

// Settle ends a pending turn with exactly one assistant message and returns
// to Idle. A transport error selects the connection fallback text. Settling
// a turn that is not the pending one does nothing.
func (c *Controller) Settle(turn Turn, resp *models.AssistantResponse, err error) (models.Message, bool) {
	c.mu.Lock()
	if !c.pending || turn.ID != c.turnID {
		c.mu.Unlock()
		c.logger.Debug("ignoring stale turn", zap.Uint64("turn", turn.ID))
		return models.Message{}, false
	}
	c.pending = false
	c.mu.Unlock()

	text := models.FallbackConnectionMessage
	if err != nil {
		c.logger.Warn("assistant request failed", zap.Uint64("turn", turn.ID), zap.Error(err))
	} else {
		text = resp.Text()
	}

	msg := c.store.Append(models.MessageAssistant, text)
	c.notify(StateIdle)
	return msg, true
}

// Submit runs a whole turn synchronously. It returns false when the submit
// was refused.
func (c *Controller) Submit(ctx context.Context) bool {
	turn, ok := c.Begin()
	if !ok {
		return false
	}
	resp, err := c.Ask(ctx, turn)
	c.Settle(turn, resp, err)
	return true
}

func (c *Controller) notify(s State) {
	if c.onChange != nil {
		c.onChange(s)
	}
}

// HandleKey applies the keyboard contract and reports what happened.
// Submit is only reported; the caller starts the turn so the request can
// run asynchronously.
func (c *Controller) HandleKey(ev KeyEvent) Action {
	k := c.keys

	switch {
	case key.Matches(ev, k.Quit):
		return ActionQuit

	case key.Matches(ev, k.Help):
		c.ToggleHelp()
		return ActionToggleHelp

	case key.Matches(ev, k.Escape):
		if c.HelpOpen() {
			c.CloseHelp()
			return ActionCloseHelp
		}
		if c.Focused() {
			c.ClearBuffer()
			c.Blur()
			return ActionClear
		}
		return ActionNone

	case key.Matches(ev, k.Copy):
		return ActionCopy
	}

	if c.Focused() {
		switch {
		case key.Matches(ev, k.Newline):
			c.InsertNewline()
			return ActionNewline
		case key.Matches(ev, k.Submit):
			return ActionSubmit
		}
		return ActionNone
	}

	switch {
	case key.Matches(ev, k.Focus):
		c.Focus()
		return ActionFocus
	case key.Matches(ev, k.ScrollUp):
		return ActionScrollUp
	case key.Matches(ev, k.ScrollDown):
		return ActionScrollDown
	case key.Matches(ev, k.PageUp):
		return ActionPageUp
	case key.Matches(ev, k.PageDown):
		return ActionPageDown
	}
	return ActionNone
}

// Mount registers the controller's key handler with reg, replacing any
// earlier registration it held.
func (c *Controller) Mount(reg *Registry) {
	sub := reg.Subscribe(c.owner, c.HandleKey)

	c.mu.Lock()
	old := c.sub
	c.sub = sub
	c.mu.Unlock()

	if old != nil && old != sub {
		old.Release()
	}
}

// Unmount releases the key registration. It is safe to call repeatedly.
func (c *Controller) Unmount() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	sub.Release()
}
