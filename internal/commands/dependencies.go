package commands

import (
	"context"
	"os"

	"github.com/atotto/clipboard"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/projassist/internal/api"
	"github.com/diogo/projassist/internal/chat"
	"github.com/diogo/projassist/internal/config"
	"github.com/diogo/projassist/internal/gateway"
	"github.com/diogo/projassist/internal/server"
	"github.com/diogo/projassist/internal/tui"
)

// Dependencies holds the external collaborators of the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// LoadConfig returns the configuration before flag overrides.
	LoadConfig func() (config.Config, error)

	// NewAsker builds the asker for chat and ask. Direct mode skips the
	// gateway and talks to the backend in-process.
	NewAsker func(cfg config.Config, direct bool, logger *zap.Logger) (chat.Asker, error)

	// RunChat starts the interactive transcript.
	RunChat func(asker chat.Asker, opts tui.Options) error

	// Serve runs the gateway router until ctx is done.
	Serve func(ctx context.Context, addr string, router *gin.Engine, logger *zap.Logger) error

	// IsTerminal reports whether stdout is a terminal.
	IsTerminal func() bool

	// TerminalWidth returns the stdout width in cells.
	TerminalWidth func() int

	// Copy writes text to the system clipboard.
	Copy func(text string) error
}

// NewDependencies creates a Dependencies struct with production implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		LoadConfig:    config.LoadConfig,
		NewAsker:      newAsker,
		RunChat:       tui.RunChat,
		Serve:         server.Run,
		IsTerminal:    isStdoutTTY,
		TerminalWidth: getTerminalWidth,
		Copy:          clipboard.WriteAll,
	}
}

func newAsker(cfg config.Config, direct bool, logger *zap.Logger) (chat.Asker, error) {
	if direct {
		fwd, err := gateway.NewForwarder(cfg.BackendURL, cfg.Timeout(), gateway.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return fwd, nil
	}

	client, err := api.NewClient(cfg.GatewayURL, api.WithTimeout(cfg.Timeout()), api.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return client, nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
