// Package currency renders ledger amounts for display.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CHF": "CHF",
	"AUD": "A$",
	"CAD": "C$",
}

// Formatter turns amounts into "<symbol> <amount>" strings. The amount keeps
// its own scale and is padded up to MinFractionDigits.
type Formatter struct {
	code              string
	symbol            string
	minFractionDigits int32
}

// NewFormatter builds a formatter for an ISO 4217 code. Codes without a known
// symbol are printed as the code itself.
func NewFormatter(code string, minFractionDigits int32) *Formatter {
	code = strings.ToUpper(strings.TrimSpace(code))
	symbol, ok := symbols[code]
	if !ok {
		symbol = code
	}
	if minFractionDigits < 0 {
		minFractionDigits = 0
	}
	return &Formatter{code: code, symbol: symbol, minFractionDigits: minFractionDigits}
}

func (f *Formatter) Code() string {
	return f.code
}

func (f *Formatter) Symbol() string {
	return f.symbol
}

func (f *Formatter) Format(amount decimal.Decimal) string {
	places := -amount.Exponent()
	if places < f.minFractionDigits {
		places = f.minFractionDigits
	}
	return f.symbol + " " + amount.StringFixed(places)
}
