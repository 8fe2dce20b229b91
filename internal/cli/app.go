package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/eshaffer321/order-analytics/internal/adapters/source"
	"github.com/eshaffer321/order-analytics/internal/application/dashboard"
	"github.com/eshaffer321/order-analytics/internal/application/loader"
	"github.com/eshaffer321/order-analytics/internal/application/service"
	"github.com/eshaffer321/order-analytics/internal/domain/filter"
	"github.com/eshaffer321/order-analytics/internal/domain/order"
	"github.com/eshaffer321/order-analytics/internal/infrastructure/config"
	"github.com/eshaffer321/order-analytics/internal/infrastructure/logging"
	"github.com/eshaffer321/order-analytics/internal/infrastructure/metrics"
	"github.com/eshaffer321/order-analytics/internal/infrastructure/storage"
)

// App is the wired application shared by every subcommand.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   storage.Repository
	Metrics *metrics.Registry
	Service *service.DashboardService
}

// NewApp opens the store and wires source, loader and service from cfg.
// Logs go to logOut.
func NewApp(cfg *config.Config, logOut io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	logger := logging.NewLoggerTo(logOut, cfg.Observability.Logging)

	store, err := storage.Open(storage.Options{
		Driver:       cfg.Storage.Driver,
		DatabasePath: cfg.Storage.DatabasePath,
		BuntPath:     cfg.Storage.BuntPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	src, err := source.New(source.Options{
		URL:          cfg.Source.URL,
		File:         cfg.Source.File,
		Timeout:      cfg.Source.Timeout,
		Retries:      cfg.Source.Retries,
		RetryWaitMin: cfg.Source.RetryWaitMin,
		RetryWaitMax: cfg.Source.RetryWaitMax,
	}, logging.WithSystem(logger, "source"))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	ld := loader.New(src, store, order.NewNormalizer(loc), logging.WithSystem(logger, "loader"),
		loader.WithCacheKey(cfg.Storage.CacheKey))

	var reg *metrics.Registry
	if cfg.Observability.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	svc := service.NewDashboardService(ld, store, reg, logging.WithSystem(logger, "service"), service.Options{
		NoticeTTL:      cfg.Dashboard.NoticeTTL,
		RefreshTimeout: cfg.Dashboard.RefreshTimeout,
		JobRetention:   cfg.Dashboard.JobRetention,
		DefaultPeriod:  filter.Period(cfg.Dashboard.DefaultPeriod),
		Dashboard: dashboard.Options{
			TopProducts:   cfg.Dashboard.TopProductsLimit,
			ChartProducts: cfg.Dashboard.ChartProductsLimit,
		},
		Location: loc,
	})

	return &App{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Metrics: reg,
		Service: svc,
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
