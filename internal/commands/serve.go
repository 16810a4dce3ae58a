package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/projassist/internal/gateway"
	"github.com/diogo/projassist/internal/logging"
	"github.com/diogo/projassist/internal/server"
)

func newServeCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	var (
		listen  string
		backend string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the assistant gateway",
		Long: `Run the HTTP gateway that accepts POST /api/ask, forwards the question
to the assistant backend and relays its JSON answer. Non-JSON or unreachable
backends produce a 500 INTERNAL_ERROR envelope.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(deps, flags)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.ListenAddr = listen
			}
			if backend != "" {
				cfg.BackendURL = backend
			}

			logger, err := logging.NewServer(cfg.Verbose)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			fwd, err := gateway.NewForwarder(cfg.BackendURL, cfg.Timeout(), gateway.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("failed to create forwarder: %w", err)
			}

			if !cfg.Verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			router := server.NewRouter(logger, fwd)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("gateway configured",
				zap.String("listen", cfg.ListenAddr),
				zap.String("backend", fwd.BackendURL()),
				zap.Duration("timeout", cfg.Timeout()),
			)
			return deps.Serve(ctx, cfg.ListenAddr, router, logger)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on (overrides listen_addr)")
	cmd.Flags().StringVar(&backend, "backend", "", "Assistant backend URL (overrides backend_url)")

	return cmd
}
