// Package currency classifies orders into the USD or EUR bucket by the
// buyer's country name.
package currency

import "strings"

// Code is an ISO 4217 currency code.
type Code string

const (
	USD Code = "USD"
	EUR Code = "EUR"
)

// Symbol returns the display symbol for the code.
func (c Code) Symbol() string {
	if c == EUR {
		return "€"
	}
	return "$"
}

// eurCountries is matched against the lowercased, trimmed country name.
var eurCountries = map[string]struct{}{
	"spain":          {},
	"france":         {},
	"germany":        {},
	"italy":          {},
	"portugal":       {},
	"netherlands":    {},
	"belgium":        {},
	"austria":        {},
	"switzerland":    {},
	"andorra":        {},
	"luxembourg":     {},
	"monaco":         {},
	"ireland":        {},
	"finland":        {},
	"sweden":         {},
	"denmark":        {},
	"norway":         {},
	"poland":         {},
	"greece":         {},
	"hungary":        {},
	"romania":        {},
	"bulgaria":       {},
	"croatia":        {},
	"slovakia":       {},
	"slovenia":       {},
	"czech republic": {},
	"estonia":        {},
	"latvia":         {},
	"lithuania":      {},
	"cyprus":         {},
	"malta":          {},
}

// ForCountry returns EUR for the fixed list of European countries and USD
// for everything else, including empty names.
func ForCountry(country string) Code {
	if _, ok := eurCountries[strings.ToLower(strings.TrimSpace(country))]; ok {
		return EUR
	}
	return USD
}

// EURCountryCount is the size of the EUR country list.
func EURCountryCount() int {
	return len(eurCountries)
}
