// Package order holds the normalized order model and the conversion from
// the upstream wire format.
package order

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Unspecified replaces an empty country or customer type.
const Unspecified = "unspecified"

// NoAffiliate is the upstream marker for "no affiliate".
const NoAffiliate = "Ninguno"

var hundred = decimal.NewFromInt(100)

// LineItem is one purchased product within an order.
type LineItem struct {
	Name            string
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
}

// Revenue returns unitPrice * quantity * (1 - discount/100).
func (li LineItem) Revenue() decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(li.DiscountPercent.Div(hundred))
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity))).Mul(factor)
}

// Order is a normalized, read-only order record.
type Order struct {
	ID            string
	PurchasedAt   time.Time
	DateValid     bool
	RawDate       string
	Total         decimal.Decimal
	Country       string
	CustomerType  string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Browser       string
	OS            string
	Origin        string
	TrafficSource string
	Affiliate     string
	Items         []LineItem
	ProductCount  int
	SearchText    string
}

// HasAffiliate reports whether the order came through an affiliate.
func (o Order) HasAffiliate() bool {
	return o.Affiliate != "" && o.Affiliate != NoAffiliate
}

// Day returns the calendar date of the order in its location, or the zero
// time when the date is invalid.
func (o Order) Day() time.Time {
	if !o.DateValid {
		return time.Time{}
	}
	return StartOfDay(o.PurchasedAt)
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in b's
// location.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Normalizer converts raw records into Orders using a fixed location for
// zone-less timestamps and calendar arithmetic.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer creates a normalizer. A nil location means time.Local.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{loc: loc}
}

// Location returns the normalizer's location.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Normalize converts every raw record. IDs are 1-based payload positions.
func (n *Normalizer) Normalize(raws []RawOrder) []Order {
	orders := make([]Order, len(raws))
	for i, raw := range raws {
		orders[i] = n.normalizeOne(i, raw)
	}
	return orders
}

func (n *Normalizer) normalizeOne(idx int, raw RawOrder) Order {
	o := Order{
		ID:            strconv.Itoa(idx + 1),
		RawDate:       raw.PurchasedAt.String(),
		Total:         ParseAmount(raw.Total.String()),
		Country:       orUnspecified(raw.Country.String()),
		CustomerType:  orUnspecified(raw.CustomerType.String()),
		CustomerName:  raw.CustomerName.String(),
		CustomerEmail: raw.CustomerEmail.String(),
		CustomerPhone: raw.CustomerPhone.String(),
		Browser:       raw.Browser.String(),
		OS:            raw.OS.String(),
		Origin:        raw.Origin.String(),
		TrafficSource: raw.TrafficSource.String(),
		Affiliate:     raw.Affiliate.String(),
	}
	o.PurchasedAt, o.DateValid = ParseDate(o.RawDate, n.loc)

	o.Items = make([]LineItem, 0, len(raw.Items))
	for _, item := range raw.Items {
		li := LineItem{
			Name:            item.Name.String(),
			Quantity:        ParseQuantity(item.Quantity.String()),
			UnitPrice:       ParseAmount(item.UnitPrice.String()),
			DiscountPercent: ParseDiscount(item.Discount.String()),
		}
		o.ProductCount += li.Quantity
		o.Items = append(o.Items, li)
	}

	o.SearchText = strings.ToLower(strings.Join([]string{
		o.CustomerName, o.Country, o.CustomerType, o.CustomerPhone, o.CustomerEmail,
	}, " "))
	return o
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unspecified
	}
	return s
}

// Today returns the orders placed on now's calendar day, in now's location.
func Today(orders []Order, now time.Time) []Order {
	today := make([]Order, 0)
	for _, o := range orders {
		if o.DateValid && SameDay(o.PurchasedAt, now) {
			today = append(today, o)
		}
	}
	return today
}
