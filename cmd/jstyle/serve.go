package main

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

	"github.com/codewithboateng/jstyle/internal/api"
	"github.com/codewithboateng/jstyle/internal/shared"
	"github.com/codewithboateng/jstyle/internal/storage"
)

var (
	serveAddr string
	serveDB   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (host:port)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	dbPath := serveDB
	if dbPath == "" {
		dbPath = cfg.Database.DSN
	}

	db, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if n, err := db.PurgeExpiredSessions(); err == nil && n > 0 {
		slog.Debug("purged expired sessions", "count", n)
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	srv := &api.Server{
		DB:              db,
		UserStore:       db,
		Registry:        reg,
		Logger:          slog.Default(),
		AllowedOrigins:  cfg.Server.Origins,
		SessionDuration: time.Duration(cfg.Server.SessionTTLMinutes) * time.Minute,
	}
	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("api listening", "addr", addr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}
