package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/order-analytics/internal/domain/order"
)

var monthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthName returns the display name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// MonthEntry is one row of the current-year monthly table.
type MonthEntry struct {
	Month    time.Month
	Orders   int
	Sales    decimal.Decimal
	Products int
	HasData  bool
}

// Name returns the display name of the entry's month.
func (e MonthEntry) Name() string {
	return MonthName(e.Month)
}

func (e MonthEntry) active() bool {
	return e.Orders > 0 || e.Sales.IsPositive()
}

// MonthlyComparison builds twelve entries, January to December, for
// now's year in now's location. Orders from other years or with invalid
// dates are ignored.
func MonthlyComparison(orders []order.Order, now time.Time) []MonthEntry {
	months := make([]MonthEntry, 12)
	for i := range months {
		months[i] = MonthEntry{Month: time.Month(i + 1), Sales: decimal.Zero}
	}

	year := now.Year()
	for _, o := range orders {
		if !o.DateValid {
			continue
		}
		at := o.PurchasedAt.In(now.Location())
		if at.Year() != year {
			continue
		}
		e := &months[at.Month()-1]
		e.Orders++
		e.Sales = e.Sales.Add(o.Total)
		e.Products += o.ProductCount
		e.HasData = true
	}
	return months
}

// PreviousMonthWithData walks back up to eleven months from ref, wrapping
// within the same twelve-entry table, and returns the first month with any
// orders or sales.
func PreviousMonthWithData(months []MonthEntry, ref time.Month) (MonthEntry, bool) {
	if len(months) != 12 {
		return MonthEntry{}, false
	}
	refIdx := int(ref) - 1
	for i := 1; i < 12; i++ {
		e := months[(refIdx-i+12)%12]
		if e.active() {
			return e, true
		}
	}
	return MonthEntry{}, false
}

// YearTotals sums the twelve monthly entries.
func YearTotals(months []MonthEntry) Totals {
	t := Totals{Sales: decimal.Zero}
	for _, e := range months {
		t.Sales = t.Sales.Add(e.Sales)
		t.Orders += e.Orders
		t.Products += e.Products
	}
	return t
}
