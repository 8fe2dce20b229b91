package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/order-analytics/internal/domain/filter"
	"github.com/eshaffer321/order-analytics/internal/domain/order"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mk(id, country, total string, at time.Time, items ...order.LineItem) order.Order {
	o := order.Order{
		ID:          id,
		Country:     country,
		Total:       dec(total),
		DateValid:   !at.IsZero(),
		PurchasedAt: at,
		Items:       items,
	}
	for _, li := range items {
		o.ProductCount += li.Quantity
	}
	return o
}

func item(name string, qty int, price string) order.LineItem {
	return order.LineItem{Name: name, Quantity: qty, UnitPrice: dec(price), DiscountPercent: decimal.Zero}
}

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 10, 0, 0, 0, time.UTC)
}

func TestTotalsByCurrency(t *testing.T) {
	orders := []order.Order{
		mk("1", "Spain", "100", day(3, 1)),
		mk("2", "Mexico", "50", day(3, 2)),
		mk("3", order.Unspecified, "25", day(3, 3)),
	}

	totals := TotalsByCurrency(orders)
	assert.True(t, totals.EUR.Equal(dec("100")))
	assert.True(t, totals.USD.Equal(dec("75")))
	assert.True(t, totals.Combined().Equal(dec("175")))

	empty := TotalsByCurrency(nil)
	assert.True(t, empty.Combined().IsZero())
}

func TestTotalsAndTrend_FromRawPayload(t *testing.T) {
	raws, err := order.DecodePayload([]byte(`[
		{"fecha_hora_entrada":"2024-03-01","precio_compra_total":"100.50","pais":"Spain"},
		{"fecha_hora_entrada":"2024-03-02","precio_compra_total":50,"pais":"USA"}
	]`))
	require.NoError(t, err)
	orders := order.NewNormalizer(time.UTC).Normalize(raws)

	totals := TotalsByCurrency(orders)
	assert.Equal(t, "100.50", totals.EUR.StringFixed(2))
	assert.Equal(t, "50.00", totals.USD.StringFixed(2))

	trend := DailyTrend(orders)
	require.Len(t, trend, 2)
	assert.Equal(t, "2024-03-01", trend[0].Date)
	assert.True(t, trend[0].Total.Equal(dec("100.50")), trend[0].Total.String())
	assert.Equal(t, "2024-03-02", trend[1].Date)
	assert.True(t, trend[1].Total.Equal(dec("50")), trend[1].Total.String())
}

func TestTotals_HugeExponentStaysFast(t *testing.T) {
	raws, err := order.DecodePayload([]byte(`[
		{"fecha_hora_entrada":"2024-03-01","precio_compra_total":"1e999999999","pais":"USA"},
		{"fecha_hora_entrada":"2024-03-02","precio_compra_total":1e-999999999,"pais":"USA"},
		{"fecha_hora_entrada":"2024-03-02","precio_compra_total":"1.5","pais":"USA"}
	]`))
	require.NoError(t, err)
	orders := order.NewNormalizer(time.UTC).Normalize(raws)

	done := make(chan CurrencyTotals, 1)
	go func() { done <- TotalsByCurrency(orders) }()

	select {
	case totals := <-done:
		assert.Equal(t, "1.50", totals.USD.StringFixed(2))
	case <-time.After(5 * time.Second):
		t.Fatal("aggregation did not finish")
	}

	months := MonthlyComparison(orders, testNow)
	assert.Equal(t, "1.50", months[2].Sales.StringFixed(2))
}

func TestSummarize(t *testing.T) {
	a := mk("1", "Spain", "10", day(3, 1), item("A", 2, "5"))
	a.CustomerEmail = "a@example.com"
	b := mk("2", "Spain", "20", day(3, 2), item("B", 1, "20"))
	b.CustomerEmail = "a@example.com"
	c := mk("3", "France", "30", day(3, 3), item("A", 3, "10"))

	stats := Summarize([]order.Order{a, b, c})
	assert.Equal(t, 3, stats.OrderCount)
	assert.Equal(t, 6, stats.ProductCount)
	assert.Equal(t, 1, stats.UniqueCustomers)
	assert.Equal(t, 2, stats.UniqueCountries)
	assert.True(t, stats.Totals.EUR.Equal(dec("60")))

	zero := Summarize(nil)
	assert.Equal(t, 0, zero.OrderCount)
	assert.True(t, zero.Totals.Combined().IsZero())
}

func TestCountryDistribution(t *testing.T) {
	countries := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}
	orders := make([]order.Order, 0, len(countries))
	for i, c := range countries {
		orders = append(orders, mk(c, c, decimal.NewFromInt(int64(i+1)).String(), day(3, 1)))
	}
	orders = append(orders, mk("x", "A", "100", day(3, 1)))

	dist := CountryDistribution(orders)
	require.Len(t, dist, CountryLimit)
	assert.Equal(t, "A", dist[0].Country)
	assert.True(t, dist[0].Total.Equal(dec("101")))
	assert.Equal(t, "L", dist[1].Country)
	for i := 1; i < len(dist); i++ {
		assert.False(t, dist[i].Total.GreaterThan(dist[i-1].Total))
	}
}

func TestCountryDistribution_TiesAreOrderedByName(t *testing.T) {
	dist := CountryDistribution([]order.Order{
		mk("1", "Peru", "10", day(3, 1)),
		mk("2", "Chile", "10", day(3, 1)),
	})
	require.Len(t, dist, 2)
	assert.Equal(t, "Chile", dist[0].Country)
}

func TestTopProducts(t *testing.T) {
	orders := []order.Order{
		mk("1", "Spain", "0", day(3, 1), item("A", 2, "1"), item("B", 5, "1")),
		mk("2", "Spain", "0", day(3, 2), item("A", 4, "1"), item("C", 1, "1")),
	}

	top := TopProducts(orders, 2)
	assert.Equal(t, []ProductQuantity{{"A", 6}, {"B", 5}}, top)

	all := TopProducts(orders, 0)
	assert.Len(t, all, 3)
}

func TestProductRevenues(t *testing.T) {
	discounted := item("A", 2, "50")
	discounted.DiscountPercent = dec("10")
	orders := []order.Order{
		mk("1", "Spain", "0", day(3, 1), discounted),
		mk("2", "Spain", "0", day(3, 1), item("B", 1, "5"), item("A", 1, "50")),
	}

	got := ProductRevenues(orders)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Product)
	assert.Equal(t, 3, got[0].Quantity)
	assert.True(t, got[0].Revenue.Equal(dec("140")), got[0].Revenue.String())
	assert.Equal(t, "B", got[1].Product)
}

func TestDailyTrend(t *testing.T) {
	orders := []order.Order{
		mk("1", "Spain", "10", day(3, 2)),
		mk("2", "Spain", "5", time.Time{}),
		mk("3", "Spain", "20", day(3, 1)),
		mk("4", "Spain", "1", day(3, 2)),
	}

	trend := DailyTrend(orders)
	require.Len(t, trend, 3)
	assert.Equal(t, "2024-03-01", trend[0].Date)
	assert.Equal(t, "2024-03-02", trend[1].Date)
	assert.True(t, trend[1].Total.Equal(dec("11")))
	assert.Equal(t, 2, trend[1].Orders)
	assert.Equal(t, InvalidDateLabel, trend[2].Date)
	assert.Equal(t, 1, trend[2].Orders)

	assert.Empty(t, DailyTrend(nil))
}

func TestMonthlyComparison(t *testing.T) {
	orders := []order.Order{
		mk("1", "Spain", "100", day(1, 5), item("A", 2, "50")),
		mk("2", "Spain", "50", day(3, 5)),
		mk("3", "Spain", "70", time.Date(2023, time.March, 5, 0, 0, 0, 0, time.UTC)),
		mk("4", "Spain", "70", time.Time{}),
	}

	months := MonthlyComparison(orders, testNow)
	require.Len(t, months, 12)
	assert.Equal(t, time.January, months[0].Month)
	assert.Equal(t, 1, months[0].Orders)
	assert.Equal(t, 2, months[0].Products)
	assert.True(t, months[0].HasData)
	assert.False(t, months[1].HasData)
	assert.True(t, months[2].Sales.Equal(dec("50")))
	assert.Equal(t, "Marzo", months[2].Name())

	yearly := YearTotals(months)
	assert.Equal(t, 2, yearly.Orders)
	assert.True(t, yearly.Sales.Equal(dec("150")))
}

func TestPreviousMonthWithData(t *testing.T) {
	months := MonthlyComparison([]order.Order{
		mk("1", "Spain", "100", day(1, 5)),
		mk("2", "Spain", "50", day(11, 5)),
	}, testNow)

	prev, ok := PreviousMonthWithData(months, time.March)
	require.True(t, ok)
	assert.Equal(t, time.January, prev.Month)

	prev, ok = PreviousMonthWithData(months, time.January)
	require.True(t, ok)
	assert.Equal(t, time.November, prev.Month, "wraps within the table")

	_, ok = PreviousMonthWithData(MonthlyComparison(nil, testNow), time.March)
	assert.False(t, ok)
}

func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 50.0, PercentChange(150, 100), 1e-9)
	assert.InDelta(t, -25.0, PercentChange(75, 100), 1e-9)
	assert.Equal(t, 0.0, PercentChange(10, 0))
}

func TestSummarizePeriod(t *testing.T) {
	all := []order.Order{
		mk("1", "Spain", "100", day(1, 5)),
		mk("2", "Spain", "150", day(3, 5)),
		mk("3", "Spain", "10", day(3, 6)),
	}

	t.Run("month compares with previous month with data", func(t *testing.T) {
		filtered := filter.Apply(all, filter.Criteria{Period: filter.PeriodMonth}, testNow)
		s := SummarizePeriod(filtered, all, filter.PeriodMonth, testNow)

		assert.Equal(t, time.March, s.Month)
		assert.Equal(t, 2, s.Current.Orders)
		assert.True(t, s.Current.Sales.Equal(dec("160")))
		require.NotNil(t, s.Comparison)
		assert.Equal(t, time.January, s.Comparison.Against)
		assert.InDelta(t, 60.0, s.Comparison.SalesChange, 1e-9)
		assert.InDelta(t, 100.0, s.Comparison.OrdersChange, 1e-9)
		assert.Equal(t, 3, s.Yearly.Orders)
	})

	t.Run("last month uses February entry", func(t *testing.T) {
		s := SummarizePeriod(nil, all, filter.PeriodLastMonth, testNow)
		assert.Equal(t, time.February, s.Month)
		assert.Equal(t, 0, s.Current.Orders)
		require.NotNil(t, s.Comparison)
		assert.InDelta(t, -100.0, s.Comparison.SalesChange, 1e-9)
	})

	t.Run("last month in January wraps to December of the same year", func(t *testing.T) {
		jan := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
		s := SummarizePeriod(nil, all, filter.PeriodLastMonth, jan)
		assert.Equal(t, time.December, s.Month)
	})

	t.Run("year and all have no comparison", func(t *testing.T) {
		for _, p := range []filter.Period{filter.PeriodYear, filter.PeriodAll} {
			s := SummarizePeriod(all, all, p, testNow)
			assert.Nil(t, s.Comparison)
			assert.Equal(t, 3, s.Current.Orders)
			assert.Equal(t, time.Month(0), s.Month)
		}
	})

	t.Run("no earlier data", func(t *testing.T) {
		s := SummarizePeriod(nil, nil, filter.PeriodMonth, testNow)
		assert.Nil(t, s.Comparison)
		assert.True(t, s.Current.Sales.IsZero())
	})
}

func TestSummarizeDays(t *testing.T) {
	orders := []order.Order{
		mk("1", "Spain", "150", time.Date(2024, time.March, 15, 1, 0, 0, 0, time.UTC)),
		mk("2", "Spain", "100", time.Date(2024, time.March, 14, 23, 0, 0, 0, time.UTC)),
		mk("3", "Spain", "999", time.Date(2024, time.March, 13, 23, 0, 0, 0, time.UTC)),
	}

	s := SummarizeDays(orders, testNow)
	assert.Equal(t, 1, s.Today.Orders)
	assert.Equal(t, 1, s.Yesterday.Orders)
	require.NotNil(t, s.SalesChange)
	assert.InDelta(t, 50.0, *s.SalesChange, 1e-9)

	none := SummarizeDays(orders[:1], testNow)
	assert.Nil(t, none.SalesChange, "no sales yesterday means N/A")
}
