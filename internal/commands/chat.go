package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/projassist/internal/logging"
	"github.com/diogo/projassist/internal/render"
	"github.com/diogo/projassist/internal/tui"
)

func newChatCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	var (
		direct   bool
		noSmooth bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the project assistant.

Press Enter to send, Shift+Enter for a new line and Ctrl+K to list every
shortcut. Press Ctrl+C to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(deps, flags)
			if err != nil {
				return err
			}

			logger, err := logging.NewTUI(cfg.Verbose, logPath(cfg))
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			asker, err := deps.NewAsker(cfg, direct, logger)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			endpoint := cfg.GatewayURL
			if direct {
				endpoint = cfg.BackendURL
			}

			return deps.RunChat(asker, tui.Options{
				Endpoint:        endpoint,
				SmoothScroll:    cfg.SmoothScroll && !noSmooth,
				CopyToClipboard: cfg.CopyToClipboard,
				Markdown:        render.OptionsFromConfig(cfg.Markdown),
				Logger:          logger,
				Context:         cmd.Context(),
			})
		},
	}

	cmd.Flags().BoolVar(&direct, "direct", false, "Talk to the backend in-process instead of through the gateway")
	cmd.Flags().BoolVar(&noSmooth, "no-smooth", false, "Jump to new messages instead of animating the scroll")

	return cmd
}
