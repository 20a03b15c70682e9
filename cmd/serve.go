package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/database"
	"github.com/bagucv/bagbot-engine/pkg/handlers"
	"github.com/bagucv/bagbot-engine/pkg/middleware"
	"github.com/bagucv/bagbot-engine/pkg/session"
)

const shutdownTimeout = 15 * time.Second

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat HTTP server",
	Long: `Start the chat HTTP server.

Example:
  bagbot serve --config ./config.yaml
  GROQ_API_KEY=... SESSION_SECRET=... bagbot serve --migrate`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply database migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.db.Close()

	if serveMigrate {
		if err := database.RunMigrations(ctx, a.db, logger); err != nil {
			return err
		}
	}

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)),
		zap.String("llm_base_url", cfg.LLM.BaseURL),
		zap.String("llm_model", cfg.LLM.Model),
		zap.Strings("allowed_tables", cfg.Library.AllowedTables))

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, a.db, logger).RegisterRoutes(mux)
	handlers.NewChatHandler(a.chat, session.NewStore(cfg.Session.Secret, cfg.Session.Secure, cfg.Session.MaxAge), logger).RegisterRoutes(mux)
	handlers.NewSummaryHandler(a.summary, logger).RegisterRoutes(mux)
	if cfg.Metrics.Enabled {
		mux.Handle("GET /metrics", a.metrics.Handler())
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           middleware.RequestID(middleware.RequestLogger(logger, a.metrics)(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting bagbot-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server shutdown complete")
	return nil
}
