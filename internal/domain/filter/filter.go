// Package filter selects the subset of orders matching dashboard criteria.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/eshaffer321/order-analytics/internal/domain/order"
)

// DateLayout is the accepted format for explicit date bounds.
const DateLayout = "2006-01-02"

// Criteria combines every active filter. Zero DateStart/DateEnd and an empty
// Country mean "no constraint".
type Criteria struct {
	DateStart time.Time
	DateEnd   time.Time
	Country   string
	Period    Period
	Search    string
}

// HasDateRange reports whether either explicit bound is set.
func (c Criteria) HasDateRange() bool {
	return !c.DateStart.IsZero() || !c.DateEnd.IsZero()
}

// ParseDay parses a YYYY-MM-DD bound as a calendar day in loc. Empty input
// yields the zero time.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	day, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return day, nil
}

// Apply returns the orders satisfying every criterion. Explicit date bounds
// compare calendar days only; the period compares full timestamps. Orders
// without a valid date fail any bounded date constraint.
func Apply(orders []order.Order, c Criteria, now time.Time) []order.Order {
	window, bounded := ResolvePeriod(c.Period, now)

	var start, end time.Time
	if !c.DateStart.IsZero() {
		start = order.StartOfDay(c.DateStart.In(now.Location()))
	}
	if !c.DateEnd.IsZero() {
		end = order.StartOfDay(c.DateEnd.In(now.Location()))
	}

	out := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if c.Country != "" && o.Country != c.Country {
			continue
		}

		if bounded || !start.IsZero() || !end.IsZero() {
			if !o.DateValid {
				continue
			}
			day := order.StartOfDay(o.PurchasedAt.In(now.Location()))
			if !start.IsZero() && day.Before(start) {
				continue
			}
			if !end.IsZero() && day.After(end) {
				continue
			}
			if bounded && !window.Contains(o.PurchasedAt) {
				continue
			}
		}

		out = append(out, o)
	}
	return out
}

// Search returns the orders whose search text contains term,
// case-insensitively. It ignores every other criterion; an empty term
// matches all orders.
func Search(orders []order.Order, term string) []order.Order {
	term = strings.ToLower(term)
	out := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if strings.Contains(o.SearchText, term) {
			out = append(out, o)
		}
	}
	return out
}

// Countries returns the distinct specified countries in first-seen order.
func Countries(orders []order.Order) []string {
	seen := make(map[string]struct{})
	countries := make([]string, 0)
	for _, o := range orders {
		if o.Country == "" || o.Country == order.Unspecified {
			continue
		}
		if _, ok := seen[o.Country]; ok {
			continue
		}
		seen[o.Country] = struct{}{}
		countries = append(countries, o.Country)
	}
	return countries
}
