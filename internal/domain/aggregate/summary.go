package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/order-analytics/internal/domain/filter"
	"github.com/eshaffer321/order-analytics/internal/domain/order"
)

// Comparison relates a period's figures to an earlier month.
type Comparison struct {
	Against      time.Month
	Sales        decimal.Decimal
	Orders       int
	SalesChange  float64
	OrdersChange float64
}

// PeriodSummary is the summary card for the selected period.
type PeriodSummary struct {
	Period filter.Period
	// Month is the month shown for month and last-month; zero otherwise.
	Month   time.Month
	Current Totals
	// Comparison is nil for year/all and when no earlier month has data.
	Comparison *Comparison
	Year       int
	Yearly     Totals
}

// SummarizePeriod builds the period summary. For month and last-month the
// figures come from the current-year monthly table built from all orders;
// for year and all they are the totals of the filtered set.
func SummarizePeriod(filtered, all []order.Order, period filter.Period, now time.Time) PeriodSummary {
	if period == "" {
		period = filter.DefaultPeriod
	}
	months := MonthlyComparison(all, now)
	summary := PeriodSummary{
		Period: period,
		Year:   now.Year(),
		Yearly: YearTotals(months),
	}

	if period == filter.PeriodYear || period == filter.PeriodAll {
		summary.Current = Sum(filtered)
		return summary
	}

	target := now.Month()
	if period == filter.PeriodLastMonth {
		// stays inside the current-year table, so January maps to December
		// of the same year
		target = time.Month((int(now.Month())-2+12)%12 + 1)
	}
	entry := months[target-1]
	summary.Month = target
	summary.Current = Totals{Sales: entry.Sales, Orders: entry.Orders, Products: entry.Products}

	prev, ok := PreviousMonthWithData(months, target)
	if !ok {
		return summary
	}
	summary.Comparison = &Comparison{
		Against:      prev.Month,
		Sales:        prev.Sales,
		Orders:       prev.Orders,
		SalesChange:  PercentChange(entry.Sales.InexactFloat64(), prev.Sales.InexactFloat64()),
		OrdersChange: PercentChange(float64(entry.Orders), float64(prev.Orders)),
	}
	return summary
}

// DailySummary compares today's sales with yesterday's.
type DailySummary struct {
	Today     Totals
	Yesterday Totals
	// SalesChange is nil when yesterday had no sales.
	SalesChange *float64
}

// SummarizeDays computes today vs yesterday over all orders, using now's
// calendar day and location.
func SummarizeDays(orders []order.Order, now time.Time) DailySummary {
	yesterday := now.AddDate(0, 0, -1)
	summary := DailySummary{
		Today:     Totals{Sales: decimal.Zero},
		Yesterday: Totals{Sales: decimal.Zero},
	}
	for _, o := range orders {
		if !o.DateValid {
			continue
		}
		switch {
		case order.SameDay(o.PurchasedAt, now):
			summary.Today.add(o)
		case order.SameDay(o.PurchasedAt, yesterday):
			summary.Yesterday.add(o)
		}
	}

	if summary.Yesterday.Sales.IsPositive() {
		change := PercentChange(summary.Today.Sales.InexactFloat64(), summary.Yesterday.Sales.InexactFloat64())
		summary.SalesChange = &change
	}
	return summary
}
