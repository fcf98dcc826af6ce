package main

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

	"github.com/raysh454/sitecheck/internal/logging"
	"github.com/raysh454/sitecheck/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve starts the analysis API.

Endpoints:
  POST /api/analyze       analyze one URL or a batch
  GET  /api/reports       list stored report summaries
  GET  /api/reports/{id}  fetch one stored report
  GET  /ws/analyze        WebSocket with per-analysis progress events
  GET  /healthz           liveness probe`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", "", "Listen address (default from config)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.ListenAddr = addr
	}

	logger := logging.NewWriterLogger("sitecheck", cmd.ErrOrStderr())

	s, err := server.NewServer(server.Config{
		ListenAddr: cfg.ListenAddr,
		AppConfig:  cfg,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	httpServer := s.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", logging.Field{Key: "addr", Value: cfg.ListenAddr})
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigCh:
		logger.Info("received shutdown signal, stopping...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	}
}
