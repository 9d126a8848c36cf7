package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/visitor-register/internal/config"
	"github.com/evcraddock/visitor-register/internal/email"
	"github.com/evcraddock/visitor-register/internal/feedback"
	"github.com/evcraddock/visitor-register/internal/logging"
	"github.com/evcraddock/visitor-register/internal/metrics"
	"github.com/evcraddock/visitor-register/internal/prereg"
	"github.com/evcraddock/visitor-register/internal/visitor"
	"github.com/evcraddock/visitor-register/internal/web"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		port    int
		envFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP API server. Settings come from VR_* environment variables and an optional .env file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port, envFile)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides VR_PORT)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load")

	return cmd
}

func runServe(ctx context.Context, port int, envFile string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if port != 0 {
		if port < 0 || port > 65535 {
			return fmt.Errorf("invalid --port %d", port)
		}
		cfg.SetPort(port)
	}

	logging.Setup(cfg.DevMode)

	database, err := openDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("closing database", "error", err)
		}
	}()

	if !cfg.DevMode && !cfg.SMTP.IsConfigured() {
		slog.Warn("SMTP not configured; feedback and pre-registration notifications will fail")
	}
	notifier := email.NewNotifier(cfg.SMTP, cfg.NotifyTo, cfg.DevMode)

	srv := web.NewServer(
		web.Config{BaseURL: cfg.BaseURL, AdminToken: cfg.AdminToken},
		visitor.NewService(database, cfg.ExportDir),
		prereg.NewService(database, notifier),
		feedback.NewService(database, notifier),
		metrics.New(),
	)
	httpServer := web.NewHTTPServer(cfg.Addr(), srv)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.Addr(), "base_url", cfg.BaseURL, "dev_mode", cfg.DevMode)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
