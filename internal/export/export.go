// Package export writes the filtered orders to an .xlsx workbook with a
// summary sheet, an order sheet and a product sheet.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/eshaffer321/order-analytics/internal/domain/aggregate"
	"github.com/eshaffer321/order-analytics/internal/domain/order"
)

// Sheet names
const (
	SheetSummary  = "Resumen"
	SheetOrders   = "Pedidos"
	SheetProducts = "Productos"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DateTimeLayout formats the order date column.
const DateTimeLayout = "2006-01-02 15:04:05"

var orderHeaders = []any{
	"Fecha", "Cliente", "Email", "Teléfono", "País", "Total", "Productos Cant.",
	"Navegador", "Sistema Operativo", "Origen URL", "Fuente Tráfico",
}

var productHeaders = []any{"producto", "cantidad", "total"}

// ExportError identifies the sheet being written when the workbook failed.
type ExportError struct {
	Sheet string
	Err   error
}

func (e *ExportError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("export failed: %v", e.Err)
	}
	return fmt.Sprintf("export failed on sheet %s: %v", e.Sheet, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// File is a generated workbook ready to be written or served.
type File struct {
	Name string
	Data []byte
}

// FileName returns the download name for a workbook generated at now.
func FileName(now time.Time) string {
	return "Estadisticas_Analytics_" + now.Format("2006-01-02") + ".xlsx"
}

// Workbook builds the three-sheet workbook for orders.
func Workbook(orders []order.Order, now time.Time) (*File, error) {
	f := excelize.NewFile()
	defer f.Close()

	// the default sheet becomes the summary
	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return nil, &ExportError{Sheet: SheetSummary, Err: err}
	}
	if err := writeSummary(f, orders); err != nil {
		return nil, &ExportError{Sheet: SheetSummary, Err: err}
	}

	if _, err := f.NewSheet(SheetOrders); err != nil {
		return nil, &ExportError{Sheet: SheetOrders, Err: err}
	}
	if err := writeOrders(f, orders); err != nil {
		return nil, &ExportError{Sheet: SheetOrders, Err: err}
	}

	if _, err := f.NewSheet(SheetProducts); err != nil {
		return nil, &ExportError{Sheet: SheetProducts, Err: err}
	}
	if err := writeProducts(f, orders); err != nil {
		return nil, &ExportError{Sheet: SheetProducts, Err: err}
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &ExportError{Err: err}
	}
	return &File{Name: FileName(now), Data: buf.Bytes()}, nil
}

func writeSummary(f *excelize.File, orders []order.Order) error {
	stats := aggregate.Summarize(orders)
	rows := [][]any{
		{"Métrica", "Valor"},
		{"Total de pedidos", stats.OrderCount},
		{"Ventas totales", "$" + stats.Totals.Combined().StringFixed(2)},
		{"Productos vendidos", stats.ProductCount},
		{"Clientes únicos", stats.UniqueCustomers},
		{"Países únicos", stats.UniqueCountries},
	}
	return writeRows(f, SheetSummary, rows)
}

func writeOrders(f *excelize.File, orders []order.Order) error {
	rows := make([][]any, 0, len(orders)+1)
	rows = append(rows, orderHeaders)
	for _, o := range orders {
		date := aggregate.InvalidDateLabel
		if o.DateValid {
			date = o.PurchasedAt.Format(DateTimeLayout)
		}
		rows = append(rows, []any{
			date,
			o.CustomerName,
			o.CustomerEmail,
			o.CustomerPhone,
			o.Country,
			o.Total.InexactFloat64(),
			o.ProductCount,
			o.Browser,
			o.OS,
			o.Origin,
			o.TrafficSource,
		})
	}
	return writeRows(f, SheetOrders, rows)
}

func writeProducts(f *excelize.File, orders []order.Order) error {
	products := aggregate.ProductRevenues(orders)
	rows := make([][]any, 0, len(products)+1)
	rows = append(rows, productHeaders)
	for _, p := range products {
		rows = append(rows, []any{p.Product, p.Quantity, p.Revenue.Round(2).InexactFloat64()})
	}
	return writeRows(f, SheetProducts, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}
