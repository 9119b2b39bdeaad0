// Package money renders amounts stored as integer minor currency units
// (paise). Nothing in the service does arithmetic on floats; division by 100
// happens only here, for display.
package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Format renders minor units as whole rupees with en-IN digit grouping,
// e.g. 11200000 -> "₹1,12,000". Fractions are rounded half-up, matching the
// storefront display which shows no paise.
func Format(minor int64) string {
	rupees := int64(math.Round(float64(minor) / 100))
	return printer.Sprintf("₹%v", number.Decimal(rupees))
}
