// Package dashboard composes filter and aggregate results into the
// view-model consumed by the API, the CLI and the exporter.
package dashboard

import (
	"slices"
	"time"

	"github.com/eshaffer321/order-analytics/internal/domain/aggregate"
	"github.com/eshaffer321/order-analytics/internal/domain/filter"
	"github.com/eshaffer321/order-analytics/internal/domain/order"
)

// Options sizes the chart series.
type Options struct {
	TopProducts   int
	ChartProducts int
}

// DefaultOptions matches the dashboard layout.
func DefaultOptions() Options {
	return Options{TopProducts: aggregate.DefaultProductLimit, ChartProducts: 5}
}

// View is everything the dashboard shows for one set of criteria.
type View struct {
	Criteria      filter.Criteria
	GeneratedAt   time.Time
	Stats         aggregate.Stats
	Countries     []aggregate.CountryTotal
	TopProducts   []aggregate.ProductQuantity
	ChartProducts []aggregate.ProductQuantity
	Trend         []aggregate.DailyPoint
	Monthly       []aggregate.MonthEntry
	Period        aggregate.PeriodSummary
	Daily         aggregate.DailySummary
	Orders        []order.Order
	TotalOrders   int
}

// Build computes the view for all orders under criteria c at time now.
// Statistics and charts always use the criteria-filtered set; the order
// list follows the search term when one is given.
func Build(all []order.Order, c filter.Criteria, opts Options, now time.Time) View {
	if opts.TopProducts <= 0 {
		opts.TopProducts = aggregate.DefaultProductLimit
	}
	if opts.ChartProducts <= 0 {
		opts.ChartProducts = DefaultOptions().ChartProducts
	}
	if c.Period == "" {
		c.Period = filter.DefaultPeriod
	}

	filtered := filter.Apply(all, c, now)
	top := aggregate.TopProducts(filtered, opts.TopProducts)
	chart := top
	if len(chart) > opts.ChartProducts {
		chart = chart[:opts.ChartProducts]
	}

	return View{
		Criteria:      c,
		GeneratedAt:   now,
		Stats:         aggregate.Summarize(filtered),
		Countries:     aggregate.CountryDistribution(filtered),
		TopProducts:   top,
		ChartProducts: chart,
		Trend:         aggregate.DailyTrend(filtered),
		Monthly:       aggregate.MonthlyComparison(all, now),
		Period:        aggregate.SummarizePeriod(filtered, all, c.Period, now),
		Daily:         aggregate.SummarizeDays(all, now),
		Orders:        Select(all, c, now),
		TotalOrders:   len(all),
	}
}

// Select returns the order list for c, newest first: the search matches
// when a search term is set, otherwise the criteria-filtered set.
func Select(all []order.Order, c filter.Criteria, now time.Time) []order.Order {
	var selected []order.Order
	if c.Search != "" {
		selected = filter.Search(all, c.Search)
	} else {
		selected = filter.Apply(all, c, now)
	}
	return NewestFirst(selected)
}

// NewestFirst returns a copy sorted by purchase time descending. Orders
// with invalid dates go last, in input order.
func NewestFirst(orders []order.Order) []order.Order {
	sorted := slices.Clone(orders)
	slices.SortStableFunc(sorted, func(a, b order.Order) int {
		switch {
		case a.DateValid && !b.DateValid:
			return -1
		case !a.DateValid && b.DateValid:
			return 1
		case !a.DateValid && !b.DateValid:
			return 0
		}
		return b.PurchasedAt.Compare(a.PurchasedAt)
	})
	return sorted
}

// Page slices orders by offset and limit. A non-positive limit returns
// everything from offset.
func Page(orders []order.Order, limit, offset int) []order.Order {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(orders) {
		return []order.Order{}
	}
	end := len(orders)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return orders[offset:end]
}
