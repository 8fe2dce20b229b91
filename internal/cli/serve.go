package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/order-analytics/internal/api"
	"github.com/eshaffer321/order-analytics/internal/application/service"
	"github.com/eshaffer321/order-analytics/internal/infrastructure/logging"
)

const cleanupInterval = time.Minute

// RunServe loads the orders once and serves the API until SIGINT/SIGTERM.
func RunServe(app *App, flags ServeFlags) error {
	logger := logging.WithSystem(app.Logger, "api")

	port := app.Config.Server.Port
	if flags.Port > 0 {
		port = flags.Port
	}

	// a failed startup load still leaves a usable (possibly cached) state
	ctx, cancel := context.WithTimeout(context.Background(), app.Config.Dashboard.RefreshTimeout)
	if _, err := app.Service.Refresh(ctx, service.TriggerStartup); err != nil {
		logger.Warn("startup load skipped", slog.Any("error", err))
	}
	cancel()

	app.Service.StartBackgroundCleanup(cleanupInterval)
	defer app.Service.StopBackgroundCleanup()

	server := api.NewServer(api.Config{
		Port:           port,
		AllowedOrigins: app.Config.Server.AllowedOrigins,
	}, app.Service, app.Metrics, logger)

	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// blocks until shutdown
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
