package utils

import (
	"github.com/shopspring/decimal"
)

var billion = decimal.NewFromInt(1_000_000_000)

// -----------------------------------------------------------------------------

// FormatBillions renders a USD amount as "$1665.00B".
func FormatBillions(usd float64) string {
	return "$" + decimal.NewFromFloat(usd).Div(billion).StringFixed(2) + "B"
}

// -----------------------------------------------------------------------------

// FormatChange renders a percent change with an explicit sign, e.g. "+2.30%".
func FormatChange(pct float64) string {
	d := decimal.NewFromFloat(pct).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	if d.IsZero() {
		return "0.00%"
	}
	return d.StringFixed(2) + "%"
}

// -----------------------------------------------------------------------------

// FormatPrice renders a USD price with precision suited to its magnitude.
func FormatPrice(usd float64) string {
	d := decimal.NewFromFloat(usd)
	if d.Abs().LessThan(decimal.NewFromInt(1)) {
		return "$" + d.StringFixed(4)
	}
	return "$" + d.StringFixed(2)
}
