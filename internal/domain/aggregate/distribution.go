package aggregate

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/order-analytics/internal/domain/order"
)

const (
	// CountryLimit caps the country distribution.
	CountryLimit = 10
	// DefaultProductLimit is used when TopProducts gets a non-positive limit.
	DefaultProductLimit = 10
)

// CountryTotal is one slice of the country distribution.
type CountryTotal struct {
	Country string
	Total   decimal.Decimal
}

// CountryDistribution sums sales per country, descending, capped at
// CountryLimit entries.
func CountryDistribution(orders []order.Order) []CountryTotal {
	index := make(map[string]int)
	dist := make([]CountryTotal, 0)
	for _, o := range orders {
		i, ok := index[o.Country]
		if !ok {
			i = len(dist)
			index[o.Country] = i
			dist = append(dist, CountryTotal{Country: o.Country, Total: decimal.Zero})
		}
		dist[i].Total = dist[i].Total.Add(o.Total)
	}

	slices.SortFunc(dist, func(a, b CountryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Country, b.Country)
	})
	if len(dist) > CountryLimit {
		dist = dist[:CountryLimit]
	}
	return dist
}

// ProductQuantity is one bar of the top products chart.
type ProductQuantity struct {
	Product  string
	Quantity int
}

// TopProducts sums quantities per product name, descending, capped at limit.
func TopProducts(orders []order.Order, limit int) []ProductQuantity {
	if limit <= 0 {
		limit = DefaultProductLimit
	}

	index := make(map[string]int)
	products := make([]ProductQuantity, 0)
	for _, o := range orders {
		for _, item := range o.Items {
			name := productName(item)
			i, ok := index[name]
			if !ok {
				i = len(products)
				index[name] = i
				products = append(products, ProductQuantity{Product: name})
			}
			products[i].Quantity += item.Quantity
		}
	}

	slices.SortFunc(products, func(a, b ProductQuantity) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		return cmp.Compare(a.Product, b.Product)
	})
	if len(products) > limit {
		products = products[:limit]
	}
	return products
}

// ProductRevenue is quantity and discount-adjusted revenue for one product.
type ProductRevenue struct {
	Product  string
	Quantity int
	Revenue  decimal.Decimal
}

// ProductRevenues sums quantity and revenue per product name in first-seen
// order.
func ProductRevenues(orders []order.Order) []ProductRevenue {
	index := make(map[string]int)
	out := make([]ProductRevenue, 0)
	for _, o := range orders {
		for _, item := range o.Items {
			name := productName(item)
			i, ok := index[name]
			if !ok {
				i = len(out)
				index[name] = i
				out = append(out, ProductRevenue{Product: name, Revenue: decimal.Zero})
			}
			out[i].Quantity += item.Quantity
			out[i].Revenue = out[i].Revenue.Add(item.Revenue())
		}
	}
	return out
}

func productName(item order.LineItem) string {
	if item.Name == "" {
		return order.Unspecified
	}
	return item.Name
}
