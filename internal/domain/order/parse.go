package order

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// first "(...)" group, e.g. "(Central European Standard Time)"
	annotationPattern = regexp.MustCompile(`\([^)]*\)`)

	leadingNumberPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
)

// Bounds on parsed numbers. Values outside them read as zero, so sums over
// untrusted amounts stay small.
const (
	maxExponent = 18
	maxScale    = 18
	maxQuantity = math.MaxInt32
)

var maxAmount = decimal.New(1, 15)

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 2 2006 15:04:05 GMT-0700",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ParseDate parses a purchase timestamp. The first parenthesized annotation
// is removed before parsing. Layouts without a zone are read in loc, and the
// result is always expressed in loc. ok is false when no layout matches.
func ParseDate(value string, loc *time.Location) (t time.Time, ok bool) {
	if loc == nil {
		loc = time.Local
	}

	if span := annotationPattern.FindStringIndex(value); span != nil {
		value = value[:span[0]] + value[span[1]:]
	}
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		parsed, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return parsed.In(loc), true
		}
	}
	return time.Time{}, false
}

// ParseAmount reads the leading decimal number of value. Values with no
// leading number, negative values, and values beyond maxAmount or with an
// exponent outside ±maxExponent yield zero. Fractions are truncated to
// maxScale digits.
func ParseAmount(value string) decimal.Decimal {
	match := leadingNumberPattern.FindString(strings.TrimSpace(value))
	match = strings.TrimPrefix(strings.ToLower(match), "+")
	if match == "" {
		return decimal.Zero
	}

	mantissa, exp, hasExp := strings.Cut(match, "e")
	mantissa = strings.TrimSuffix(mantissa, ".")
	if whole, frac, ok := strings.Cut(mantissa, "."); ok && len(frac) > maxScale {
		mantissa = whole + "." + frac[:maxScale]
	}
	if hasExp {
		n, err := strconv.Atoi(exp)
		if err != nil || n > maxExponent || n < -maxExponent {
			return decimal.Zero
		}
		mantissa += "e" + exp
	}

	d, err := decimal.NewFromString(mantissa)
	if err != nil || d.IsNegative() || d.GreaterThan(maxAmount) {
		return decimal.Zero
	}
	return d
}

// ParseQuantity reads a non-negative whole quantity. Fractions are truncated
// and values above maxQuantity read as zero.
func ParseQuantity(value string) int {
	d := ParseAmount(value)
	if d.GreaterThan(decimal.NewFromInt(maxQuantity)) {
		return 0
	}
	return int(d.IntPart())
}

// ParseDiscount reads a discount percentage clamped to [0, 100].
func ParseDiscount(value string) decimal.Decimal {
	d := ParseAmount(value)
	if d.GreaterThan(hundred) {
		return hundred
	}
	return d
}
