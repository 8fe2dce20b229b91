package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/order-analytics/internal/domain/order"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func at(y int, m time.Month, d, h int) order.Order {
	return order.Order{
		DateValid:   true,
		PurchasedAt: time.Date(y, m, d, h, 0, 0, 0, time.UTC),
		Country:     "Spain",
	}
}

func ids(orders []order.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func fixture() []order.Order {
	o1 := at(2024, time.March, 1, 0)
	o1.ID = "1"
	o2 := at(2024, time.March, 31, 23)
	o2.ID = "2"
	o2.Country = "Mexico"
	o3 := at(2024, time.February, 29, 23)
	o3.ID = "3"
	o4 := at(2023, time.December, 31, 10)
	o4.ID = "4"
	o5 := order.Order{ID: "5", Country: order.Unspecified}
	return []order.Order{o1, o2, o3, o4, o5}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonth, p)

	p, err = ParsePeriod(" Last-Month ")
	require.NoError(t, err)
	assert.Equal(t, PeriodLastMonth, p)

	_, err = ParsePeriod("week")
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestResolvePeriod(t *testing.T) {
	t.Run("month spans the whole current month", func(t *testing.T) {
		r, bounded := ResolvePeriod(PeriodMonth, testNow)
		require.True(t, bounded)
		assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), r.Start)
		assert.Equal(t, time.Date(2024, time.March, 31, 23, 59, 59, 999000000, time.UTC), r.End)
	})

	t.Run("last month handles leap February", func(t *testing.T) {
		r, bounded := ResolvePeriod(PeriodLastMonth, testNow)
		require.True(t, bounded)
		assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), r.Start)
		assert.Equal(t, 29, r.End.Day())
	})

	t.Run("last month in January is previous December", func(t *testing.T) {
		r, _ := ResolvePeriod(PeriodLastMonth, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), r.Start)
		assert.Equal(t, 31, r.End.Day())
	})

	t.Run("year", func(t *testing.T) {
		r, _ := ResolvePeriod(PeriodYear, testNow)
		assert.Equal(t, time.January, r.Start.Month())
		assert.Equal(t, time.December, r.End.Month())
		assert.Equal(t, 31, r.End.Day())
	})

	t.Run("all is unbounded", func(t *testing.T) {
		_, bounded := ResolvePeriod(PeriodAll, testNow)
		assert.False(t, bounded)
	})
}

func TestApply(t *testing.T) {
	orders := fixture()

	t.Run("period month", func(t *testing.T) {
		got := Apply(orders, Criteria{Period: PeriodMonth}, testNow)
		assert.Equal(t, []string{"1", "2"}, ids(got))
	})

	t.Run("period last-month", func(t *testing.T) {
		got := Apply(orders, Criteria{Period: PeriodLastMonth}, testNow)
		assert.Equal(t, []string{"3"}, ids(got))
	})

	t.Run("period all keeps invalid dates", func(t *testing.T) {
		got := Apply(orders, Criteria{Period: PeriodAll}, testNow)
		assert.Len(t, got, 5)
	})

	t.Run("country combines with period", func(t *testing.T) {
		got := Apply(orders, Criteria{Period: PeriodAll, Country: "Mexico"}, testNow)
		assert.Equal(t, []string{"2"}, ids(got))
	})

	t.Run("date range compares calendar days", func(t *testing.T) {
		c := Criteria{
			Period:    PeriodAll,
			DateStart: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			DateEnd:   time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		}
		got := Apply(orders, c, testNow)
		assert.Equal(t, []string{"1", "3"}, ids(got))
	})

	t.Run("date range and period intersect", func(t *testing.T) {
		c := Criteria{
			Period:    PeriodMonth,
			DateStart: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			DateEnd:   time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		}
		got := Apply(orders, c, testNow)
		assert.Equal(t, []string{"1"}, ids(got))
	})

	t.Run("month and a range over the same month agree", func(t *testing.T) {
		start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

		byPeriod := Apply(orders, Criteria{Period: PeriodMonth}, testNow)
		byRange := Apply(orders, Criteria{Period: PeriodAll, DateStart: start, DateEnd: end}, testNow)
		byBoth := Apply(orders, Criteria{Period: PeriodMonth, DateStart: start, DateEnd: end}, testNow)

		assert.Equal(t, []string{"1", "2"}, ids(byPeriod))
		assert.Equal(t, ids(byPeriod), ids(byRange))
		assert.Equal(t, ids(byPeriod), ids(byBoth))
	})

	t.Run("open-ended range", func(t *testing.T) {
		c := Criteria{Period: PeriodAll, DateStart: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)}
		got := Apply(orders, c, testNow)
		assert.Equal(t, []string{"1", "2"}, ids(got))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Apply(nil, Criteria{}, testNow))
	})

	t.Run("result is a subset in input order", func(t *testing.T) {
		got := Apply(orders, Criteria{Period: PeriodYear}, testNow)
		assert.Equal(t, []string{"1", "2", "3"}, ids(got))
	})
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2024-03-01", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), day)

	day, err = ParseDay("", time.UTC)
	require.NoError(t, err)
	assert.True(t, day.IsZero())

	_, err = ParseDay("01/03/2024", time.UTC)
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	orders := []order.Order{
		{ID: "1", SearchText: "ana pérez spain nuevo 600 ana@example.com"},
		{ID: "2", SearchText: "john smith mexico recurrente 555 john@example.com"},
	}

	assert.Equal(t, []string{"1"}, ids(Search(orders, "ANA")))
	assert.Equal(t, []string{"2"}, ids(Search(orders, "555")))
	assert.Equal(t, []string{"1", "2"}, ids(Search(orders, "")))
	assert.Empty(t, Search(orders, "zzz"))
}

func TestCountries(t *testing.T) {
	got := Countries(fixture())
	assert.Equal(t, []string{"Spain", "Mexico"}, got)
}
