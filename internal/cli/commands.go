package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/eshaffer321/order-analytics/internal/application/service"
)

// loadForCommand performs the one load a CLI command works on.
func loadForCommand(ctx context.Context, app *App) error {
	ctx, cancel := context.WithTimeout(ctx, app.Config.Dashboard.RefreshTimeout)
	defer cancel()

	if _, err := app.Service.Refresh(ctx, service.TriggerCLI); err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	return nil
}

// RunSummary loads the orders and prints the dashboard summary.
func RunSummary(ctx context.Context, app *App, flags SummaryFlags, stdout io.Writer) error {
	criteria, err := flags.Criteria.ToCriteria(app.Service.Location())
	if err != nil {
		return err
	}
	if err := loadForCommand(ctx, app); err != nil {
		return err
	}

	state := app.Service.State()
	PrintSummary(stdout, app.Service.DashboardFor(state, criteria, flags.Top), state)
	return nil
}

// RunExport loads the orders and writes the workbook into flags.OutDir.
func RunExport(ctx context.Context, app *App, flags ExportFlags, stdout io.Writer) error {
	criteria, err := flags.Criteria.ToCriteria(app.Service.Location())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(flags.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := loadForCommand(ctx, app); err != nil {
		return err
	}

	file, err := app.Service.Export(criteria)
	if err != nil {
		return err
	}

	path := filepath.Join(flags.OutDir, file.Name)
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	PrintExport(stdout, path, len(file.Data))
	return nil
}

// ErrNoData is returned by RunRefresh when neither the source nor the
// cache produced orders.
var ErrNoData = errors.New("no order data available")

// RunRefresh performs one guarded load and reports its origin.
func RunRefresh(ctx context.Context, app *App, stdout io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, app.Config.Dashboard.RefreshTimeout)
	defer cancel()

	result, err := app.Service.Refresh(ctx, service.TriggerCLI)
	if err != nil {
		return err
	}
	PrintRefresh(stdout, result)
	if result.Err != nil && len(result.Orders) == 0 {
		return ErrNoData
	}
	return nil
}
