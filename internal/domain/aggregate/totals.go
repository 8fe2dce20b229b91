// Package aggregate computes statistics and chart series over order subsets.
// Every function is pure and safe to call on an empty slice.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/order-analytics/internal/domain/currency"
	"github.com/eshaffer321/order-analytics/internal/domain/filter"
	"github.com/eshaffer321/order-analytics/internal/domain/order"
)

// CurrencyTotals splits sales into the USD and EUR buckets.
type CurrencyTotals struct {
	USD decimal.Decimal
	EUR decimal.Decimal
}

// Combined returns USD + EUR.
func (t CurrencyTotals) Combined() decimal.Decimal {
	return t.USD.Add(t.EUR)
}

// TotalsByCurrency sums order totals per currency bucket.
func TotalsByCurrency(orders []order.Order) CurrencyTotals {
	totals := CurrencyTotals{USD: decimal.Zero, EUR: decimal.Zero}
	for _, o := range orders {
		if currency.ForCountry(o.Country) == currency.EUR {
			totals.EUR = totals.EUR.Add(o.Total)
		} else {
			totals.USD = totals.USD.Add(o.Total)
		}
	}
	return totals
}

// Totals is a sales/orders/products triple.
type Totals struct {
	Sales    decimal.Decimal
	Orders   int
	Products int
}

// Sum totals a set of orders.
func Sum(orders []order.Order) Totals {
	t := Totals{Sales: decimal.Zero}
	for _, o := range orders {
		t.add(o)
	}
	return t
}

func (t *Totals) add(o order.Order) {
	t.Sales = t.Sales.Add(o.Total)
	t.Orders++
	t.Products += o.ProductCount
}

// Stats is the headline statistics block.
type Stats struct {
	Totals          CurrencyTotals
	OrderCount      int
	ProductCount    int
	UniqueCustomers int
	UniqueCountries int
}

// Summarize computes the headline statistics.
func Summarize(orders []order.Order) Stats {
	stats := Stats{
		Totals:          TotalsByCurrency(orders),
		OrderCount:      len(orders),
		UniqueCustomers: UniqueCustomers(orders),
		UniqueCountries: len(filter.Countries(orders)),
	}
	for _, o := range orders {
		stats.ProductCount += o.ProductCount
	}
	return stats
}

// UniqueCustomers counts distinct non-empty customer emails.
func UniqueCustomers(orders []order.Order) int {
	seen := make(map[string]struct{})
	for _, o := range orders {
		if o.CustomerEmail == "" {
			continue
		}
		seen[o.CustomerEmail] = struct{}{}
	}
	return len(seen)
}

// PercentChange returns (current-reference)/reference*100, or 0 when the
// reference is zero.
func PercentChange(current, reference float64) float64 {
	if reference == 0 {
		return 0
	}
	return (current - reference) / reference * 100
}
