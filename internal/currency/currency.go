// Package currency wraps the go-money currency registry for minor-unit
// arithmetic. Amounts everywhere in the core are integers in the currency's
// smallest unit; this package answers how many decimal places that unit has.
package currency

import "github.com/Rhymond/go-money"

// DefaultDecimals is used for unknown codes.
const DefaultDecimals = 2

// Valid reports whether code is a known ISO 4217 currency code.
func Valid(code string) bool {
	return money.GetCurrency(code) != nil
}

// Decimals returns the minor-unit exponent for a currency code
// (2 for USD, 0 for JPY). Unknown codes fall back to DefaultDecimals.
func Decimals(code string) int {
	c := money.GetCurrency(code)
	if c == nil {
		return DefaultDecimals
	}
	return c.Fraction
}
