package aggregate

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/order-analytics/internal/domain/order"
)

// InvalidDateLabel labels the trend point collecting orders without a
// parseable date.
const InvalidDateLabel = "Invalid Date"

// DayLayout formats trend dates.
const DayLayout = "2006-01-02"

// DailyPoint is one point of the sales trend line.
type DailyPoint struct {
	Date   string
	Total  decimal.Decimal
	Orders int
}

// DailyTrend sums sales and counts orders per calendar date, ascending.
// Orders with invalid dates are grouped into a trailing InvalidDateLabel
// point.
func DailyTrend(orders []order.Order) []DailyPoint {
	index := make(map[string]int)
	points := make([]DailyPoint, 0)
	invalid := DailyPoint{Date: InvalidDateLabel, Total: decimal.Zero}

	for _, o := range orders {
		if !o.DateValid {
			invalid.Total = invalid.Total.Add(o.Total)
			invalid.Orders++
			continue
		}
		key := o.PurchasedAt.Format(DayLayout)
		i, ok := index[key]
		if !ok {
			i = len(points)
			index[key] = i
			points = append(points, DailyPoint{Date: key, Total: decimal.Zero})
		}
		points[i].Total = points[i].Total.Add(o.Total)
		points[i].Orders++
	}

	slices.SortFunc(points, func(a, b DailyPoint) int {
		return strings.Compare(a.Date, b.Date)
	})
	if invalid.Orders > 0 {
		points = append(points, invalid)
	}
	return points
}
