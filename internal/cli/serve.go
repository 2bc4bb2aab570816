package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/askdeck/askdeck/internal/server"
)

// NewServeCmd creates the 'serve' command running the HTTP API.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the askdeck HTTP API",
		Long: `Start an HTTP server exposing the chat assistant.

Endpoints:
  POST /api/chat              process a user message
  POST /api/feedback          record feedback for a session
  GET  /api/traces            list recent execution traces
  GET  /api/traces/:id        export one trace as JSON
  GET  /api/learning/export   export learning data
  GET  /api/learning/patterns learning pattern summary
  GET  /ws/traces             WebSocket stream of completed traces`,
		Example: `  askdeck serve
  askdeck serve --addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config, :8080)")

	return cmd
}

// runServe starts the HTTP server with signal handling. Shuts down
// gracefully on SIGINT/SIGTERM/SIGQUIT, draining in-flight requests.
func runServe(addr string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.close()

	if addr == "" {
		addr = app.cfg.ServerAddr
	}
	srv := server.NewServer(app.agent, app.learn, app.tracer, app.log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run(addr)
	}()

	select {
	case sig := <-sigChan:
		app.log.WithField("signal", sig.String()).Info("Shutting down gracefully")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			app.log.WithError(err).Error("Error during shutdown")
			return err
		}

		app.log.Info("Shutdown complete")
		return nil

	case err := <-errChan:
		return err
	}
}
