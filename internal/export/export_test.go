package export

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eshaffer321/order-analytics/internal/domain/order"
)

var now = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func sampleOrders(t *testing.T) []order.Order {
	t.Helper()
	raws, err := order.DecodePayload([]byte(`[
		{"nombre_comprador":"Ana","correo_comprador":"ana@example.com","telefono_comprador":"600",
		 "pais":"Spain","fecha_hora_entrada":"2024-03-15 09:00:00","precio_compra_total":"100.5",
		 "navegador":"Firefox","sistema_operativo":"Linux","origen":"https://shop.example.com",
		 "fuente_trafico":"https://google.com",
		 "compras":[{"name":"Curso A","quantity":2,"unitPrice":50,"discount":10}]},
		{"nombre_comprador":"Luis","correo_comprador":"luis@example.com","pais":"Mexico",
		 "fecha_hora_entrada":"nope","precio_compra_total":20,
		 "compras":[{"name":"Curso B","quantity":1,"unitPrice":20},{"name":"Curso A","quantity":1,"unitPrice":50}]}
	]`))
	require.NoError(t, err)
	return order.NewNormalizer(time.UTC).Normalize(raws)
}

func openWorkbook(t *testing.T, file *File) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWorkbook_Sheets(t *testing.T) {
	file, err := Workbook(sampleOrders(t), now)
	require.NoError(t, err)
	assert.Equal(t, "Estadisticas_Analytics_2024-03-15.xlsx", file.Name)

	f := openWorkbook(t, file)
	assert.Equal(t, []string{SheetSummary, SheetOrders, SheetProducts}, f.GetSheetList())
}

func TestWorkbook_Summary(t *testing.T) {
	file, err := Workbook(sampleOrders(t), now)
	require.NoError(t, err)

	rows, err := openWorkbook(t, file).GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Métrica", "Valor"},
		{"Total de pedidos", "2"},
		{"Ventas totales", "$120.50"},
		{"Productos vendidos", "4"},
		{"Clientes únicos", "2"},
		{"Países únicos", "2"},
	}, rows)
}

func TestWorkbook_Orders(t *testing.T) {
	file, err := Workbook(sampleOrders(t), now)
	require.NoError(t, err)

	rows, err := openWorkbook(t, file).GetRows(SheetOrders)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Fecha", rows[0][0])
	assert.Equal(t, "Fuente Tráfico", rows[0][10])

	assert.Equal(t, "2024-03-15 09:00:00", rows[1][0])
	assert.Equal(t, "Ana", rows[1][1])
	assert.Equal(t, "100.5", rows[1][5])
	assert.Equal(t, "https://google.com", rows[1][10])

	assert.Equal(t, "Invalid Date", rows[2][0])
}

func TestWorkbook_Products(t *testing.T) {
	file, err := Workbook(sampleOrders(t), now)
	require.NoError(t, err)

	rows, err := openWorkbook(t, file).GetRows(SheetProducts)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"producto", "cantidad", "total"},
		{"Curso A", "3", "140"},
		{"Curso B", "1", "20"},
	}, rows)
}

func TestWorkbook_Empty(t *testing.T) {
	file, err := Workbook(nil, now)
	require.NoError(t, err)

	rows, err := openWorkbook(t, file).GetRows(SheetOrders)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestExportError(t *testing.T) {
	inner := errors.New("disk full")
	err := error(&ExportError{Sheet: SheetOrders, Err: inner})

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), SheetOrders)

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, SheetOrders, exportErr.Sheet)
}
