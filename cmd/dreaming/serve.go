package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/divizend/dreaming/db"
	"github.com/divizend/dreaming/internal/auth"
	"github.com/divizend/dreaming/internal/router"
	"github.com/divizend/dreaming/internal/scheduler"
	"github.com/divizend/dreaming/internal/services"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := auth.InitJWTSecret(cfg.JWTSecret); err != nil {
		return err
	}

	if err := connect(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobs := scheduler.NewScheduler()
	jobs.Add("purge-expired-sessions", cfg.SweepInterval, func(ctx context.Context) error {
		removed, err := services.PurgeExpiredSessions(ctx, db.DB, time.Now().UTC())
		if err != nil {
			return err
		}
		if removed > 0 {
			slog.Info("Purged expired sessions", "count", removed)
		}
		return nil
	})
	defer jobs.Stop()

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.NewRouter(cfg, services.NewDivizendClient(cfg.IdentityBaseURL)),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
