// Package commands provides CLI commands for projassist.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diogo/projassist/internal/config"
	"github.com/diogo/projassist/internal/render"
	"github.com/diogo/projassist/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootFlags are the persistent flags shared by every subcommand
type rootFlags struct {
	gateway string
	verbose bool
	version bool
}

// NewRootCmd creates the projassist command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "projassist",
		Short: "Chat with your project status assistant",
		Long: `projassist is a terminal chat client for the project status assistant.
Questions go to a gateway that forwards them to the assistant backend and
normalizes the answers.

Examples:
  projassist serve                       Run the gateway on :3000
  projassist chat                        Start the interactive transcript
  projassist chat --direct               Chat without a running gateway
  projassist ask "Which projects are late?"
  projassist ask -f question.md --html   Render the answer as HTML
  echo "status of Apollo" | projassist ask`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.version {
				fmt.Fprintf(cmd.OutOrStdout(), "projassist %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&flags.gateway, "gateway", "", "Gateway URL (overrides gateway_url)")
	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Enable verbose logging")
	cmd.Flags().BoolVarP(&flags.version, "version", "v", false, "Show version and exit")

	cmd.AddCommand(
		newChatCmd(deps, flags),
		newServeCmd(deps, flags),
		newAskCmd(deps, flags),
		newConfigCmd(deps, flags),
	)

	return cmd
}

var rootCmd = NewRootCmd(nil)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.FormatError(err))
		os.Exit(1)
	}
}

// loadSettings returns the configuration with flag overrides applied and
// activates its theme.
func loadSettings(deps *Dependencies, flags *rootFlags) (config.Config, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	if flags.gateway != "" {
		cfg.GatewayURL = flags.gateway
	}
	if flags.verbose {
		cfg.Verbose = true
	}

	if !render.SetTUITheme(cfg.TUITheme) {
		render.SetTUITheme(config.DefaultConfig().TUITheme)
	}
	tui.UpdateTheme()

	return cfg, nil
}

// logPath returns where the chat UI writes its log when verbose
func logPath(cfg config.Config) string {
	if cfg.LogFile != "" {
		return cfg.LogFile
	}
	dir, err := config.GetConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "projassist.log")
}
