package calc

import "github.com/shopspring/decimal"

var (
	ten     = decimal.NewFromInt(10)
	hundred = decimal.NewFromInt(100)
)

// CentsPerKWh converts a market price in currency/MWh to cents (öre)
// per kWh including VAT. The vat argument is a percentage, e.g. 25.5.
//
// 1 MWh = 1000 kWh and 1 unit of currency = 100 cents, so going from
// currency/MWh to cents/kWh is a division by 10.
func CentsPerKWh(perMWh, vat decimal.Decimal) decimal.Decimal {
	factor := hundred.Add(vat).Div(hundred)
	return perMWh.Div(ten).Mul(factor)
}
