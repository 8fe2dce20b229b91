package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestDecodePayload(t *testing.T) {
	t.Run("decodes numbers and numeric strings", func(t *testing.T) {
		raws, err := DecodePayload([]byte(`[
			{"nombre_comprador":"Ana","precio_compra_total":"100.50","telefono_comprador":5551234,
			 "compras":[{"name":"Libro","quantity":"2","unitPrice":10,"discount":"10"}]}
		]`))
		require.NoError(t, err)
		require.Len(t, raws, 1)

		assert.Equal(t, "Ana", raws[0].CustomerName.String())
		assert.Equal(t, "100.50", raws[0].Total.String())
		assert.Equal(t, "5551234", raws[0].CustomerPhone.String())
		require.Len(t, raws[0].Items, 1)
		assert.Equal(t, "2", raws[0].Items[0].Quantity.String())
	})

	t.Run("coerces malformed fields instead of failing", func(t *testing.T) {
		raws, err := DecodePayload([]byte(`[
			{"nombre_comprador":{"first":"x"},"compras":"not-a-list","precio_compra_total":null},
			42,
			{"compras":[null, 3, {"name":"Pen","quantity":1}]}
		]`))
		require.NoError(t, err)
		require.Len(t, raws, 3)

		assert.Empty(t, raws[0].CustomerName)
		assert.Empty(t, raws[0].Items)
		assert.Empty(t, raws[0].Total)
		assert.Equal(t, RawOrder{}, raws[1])
		require.Len(t, raws[2].Items, 1)
		assert.Equal(t, "Pen", raws[2].Items[0].Name.String())
	})

	t.Run("rejects non-array payloads", func(t *testing.T) {
		for _, payload := range []string{`{"a":1}`, `"text"`, `null`, ``, `12`} {
			_, err := DecodePayload([]byte(payload))
			assert.ErrorIs(t, err, ErrNotArray, "payload %q", payload)
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		_, err := DecodePayload([]byte(`[{"a":`))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotArray)
	})

	t.Run("empty array is valid", func(t *testing.T) {
		raws, err := DecodePayload([]byte(`[]`))
		require.NoError(t, err)
		assert.Empty(t, raws)
	})
}

func TestParseDate(t *testing.T) {
	madrid := mustLoc(t, "Europe/Madrid")

	t.Run("strips annotation from JS date strings", func(t *testing.T) {
		got, ok := ParseDate("Fri Mar 15 2024 10:30:00 GMT+0100 (Central European Standard Time)", madrid)
		require.True(t, ok)
		assert.True(t, time.Date(2024, time.March, 15, 10, 30, 0, 0, madrid).Equal(got), got.String())
		assert.Equal(t, madrid, got.Location())
	})

	t.Run("zone-less values use the location", func(t *testing.T) {
		got, ok := ParseDate("2024-03-15 10:30:00", madrid)
		require.True(t, ok)
		assert.Equal(t, madrid, got.Location())
		assert.Equal(t, 10, got.Hour())
	})

	t.Run("RFC3339 is converted to the location", func(t *testing.T) {
		got, ok := ParseDate("2024-03-15T09:30:00.000Z", madrid)
		require.True(t, ok)
		assert.Equal(t, 10, got.Hour())
	})

	t.Run("day-first layout", func(t *testing.T) {
		got, ok := ParseDate("05/04/2024", madrid)
		require.True(t, ok)
		assert.Equal(t, time.April, got.Month())
		assert.Equal(t, 5, got.Day())
	})

	t.Run("unparseable values are invalid", func(t *testing.T) {
		for _, v := range []string{"", "   ", "not a date", "(only annotation)"} {
			_, ok := ParseDate(v, madrid)
			assert.False(t, ok, "value %q", v)
		}
	})
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"100.50", "100.5"},
		{"12abc", "12"},
		{"abc", "0"},
		{"", "0"},
		{"  7.25 ", "7.25"},
		{"-5", "0"},
		{"+3", "3"},
		{"1e2", "100"},
		{".5", "0.5"},
		{"12.", "12"},
		{"true", "0"},
		{"1E3", "1000"},
		{"1e15", "1000000000000000"},
		{"1e16", "0"},
		{"1e999999999", "0"},
		{"1e-999999999", "0"},
		{"2e99999999999999999999", "0"},
		{"18446744073709551615", "0"},
		{"0.1234567890123456789999", "0.123456789012345678"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.in).String())
		})
	}
}

func TestParseQuantityAndDiscount(t *testing.T) {
	assert.Equal(t, 2, ParseQuantity("2.9"))
	assert.Equal(t, 0, ParseQuantity("-1"))
	assert.Equal(t, 0, ParseQuantity("x"))
	assert.Equal(t, 0, ParseQuantity("18446744073709551615"))
	assert.Equal(t, 0, ParseQuantity("3000000000"))
	assert.Equal(t, 2147483647, ParseQuantity("2147483647"))

	assert.True(t, ParseDiscount("150").Equal(decimal.NewFromInt(100)))
	assert.True(t, ParseDiscount("-3").IsZero())
	assert.True(t, ParseDiscount("15").Equal(decimal.NewFromInt(15)))
}

func TestLineItem_Revenue(t *testing.T) {
	li := LineItem{
		Name:            "Curso",
		Quantity:        2,
		UnitPrice:       decimal.NewFromInt(50),
		DiscountPercent: decimal.NewFromInt(10),
	}
	assert.True(t, li.Revenue().Equal(decimal.NewFromInt(90)), li.Revenue().String())

	li.DiscountPercent = decimal.NewFromInt(100)
	assert.True(t, li.Revenue().IsZero())
}

func TestNormalizer_Normalize(t *testing.T) {
	loc := mustLoc(t, "America/New_York")
	raws, err := DecodePayload([]byte(`[
		{"nombre_comprador":"Ana Pérez","correo_comprador":"ANA@example.com","telefono_comprador":"+34 600",
		 "pais":"Spain","tipo_usuario":"Nuevo","fecha_hora_entrada":"2024-03-15 10:00:00",
		 "precio_compra_total":"100.50","afiliado":"Ninguno",
		 "compras":[{"name":"A","quantity":2,"unitPrice":"25"},{"name":"B","quantity":"3","unitPrice":10}]},
		{"precio_compra_total":-20,"fecha_hora_entrada":"garbage"}
	]`))
	require.NoError(t, err)

	orders := NewNormalizer(loc).Normalize(raws)
	require.Len(t, orders, 2)

	first := orders[0]
	assert.Equal(t, "1", first.ID)
	assert.True(t, first.DateValid)
	assert.True(t, time.Date(2024, time.March, 15, 10, 0, 0, 0, loc).Equal(first.PurchasedAt))
	assert.True(t, first.Total.Equal(decimal.RequireFromString("100.50")))
	assert.Equal(t, 5, first.ProductCount)
	assert.Equal(t, "Spain", first.Country)
	assert.False(t, first.HasAffiliate())
	assert.Equal(t, "ana pérez spain nuevo +34 600 ana@example.com", first.SearchText)

	second := orders[1]
	assert.Equal(t, "2", second.ID)
	assert.False(t, second.DateValid)
	assert.True(t, second.Day().IsZero())
	assert.True(t, second.Total.IsZero())
	assert.Equal(t, Unspecified, second.Country)
	assert.Equal(t, Unspecified, second.CustomerType)
	assert.Empty(t, second.Items)
	assert.Equal(t, 0, second.ProductCount)
}

func TestNormalizer_OutOfRangeNumbers(t *testing.T) {
	raws, err := DecodePayload([]byte(`[
		{"precio_compra_total":"1e999999999",
		 "compras":[{"name":"a","quantity":"18446744073709551615","unitPrice":1}]},
		{"precio_compra_total":1e999999999,
		 "compras":[{"name":"b","quantity":2,"unitPrice":1e-999999999,"discount":"1e999"}]}
	]`))
	require.NoError(t, err)

	orders := NewNormalizer(time.UTC).Normalize(raws)
	require.Len(t, orders, 2)

	first := orders[0]
	assert.True(t, first.Total.IsZero(), first.Total.String())
	require.Len(t, first.Items, 1)
	assert.Equal(t, 0, first.Items[0].Quantity)
	assert.Equal(t, 0, first.ProductCount)

	second := orders[1]
	assert.True(t, second.Total.IsZero(), second.Total.String())
	require.Len(t, second.Items, 1)
	assert.Equal(t, 2, second.ProductCount)
	assert.True(t, second.Items[0].UnitPrice.IsZero())
	assert.True(t, second.Items[0].DiscountPercent.IsZero())
}

func TestToday(t *testing.T) {
	loc := mustLoc(t, "Europe/Madrid")
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, loc)

	orders := []Order{
		{ID: "1", DateValid: true, PurchasedAt: time.Date(2024, time.March, 15, 0, 5, 0, 0, loc)},
		{ID: "2", DateValid: true, PurchasedAt: time.Date(2024, time.March, 14, 23, 59, 0, 0, loc)},
		// 23:30 UTC on the 14th is 00:30 on the 15th in Madrid
		{ID: "3", DateValid: true, PurchasedAt: time.Date(2024, time.March, 14, 23, 30, 0, 0, time.UTC)},
		{ID: "4", DateValid: false},
	}

	today := Today(orders, now)
	ids := make([]string, 0, len(today))
	for _, o := range today {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"1", "3"}, ids)
}
