package shared

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds an amount to cents
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent converts a percentage (12.5) into a ratio (0.125)
func Percent(p decimal.Decimal) decimal.Decimal {
	return p.Div(hundred)
}
