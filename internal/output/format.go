package output

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Missing is printed for values that are undefined, such as an average over
// an empty wardrobe.
const Missing = "—"

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "CA$",
	"AUD": "A$",
}

// Money formats v in currency, rounded half away from zero to cents.
// Unknown currency codes are printed as a suffix.
func Money(v float64, currency string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing
	}
	amount := decimal.NewFromFloat(v).Round(2)
	code := strings.ToUpper(currency)
	sym, ok := currencySymbols[code]

	s := groupThousands(amount.Abs().StringFixed(2))
	if code == "JPY" {
		s = groupThousands(amount.Abs().Round(0).StringFixed(0))
	}
	switch {
	case ok:
		s = sym + s
	case code != "":
		s = s + " " + code
	}
	if amount.IsNegative() {
		s = "-" + s
	}
	return s
}

// OptMoney formats a possibly missing money value.
func OptMoney(v *float64, currency string) string {
	if v == nil {
		return Missing
	}
	return Money(*v, currency)
}

// OptFloat formats a possibly missing value with format.
func OptFloat(v *float64, format string) string {
	if v == nil {
		return Missing
	}
	return fmt.Sprintf(format, *v)
}

// OptPercent formats a possibly missing percentage with no decimals.
func OptPercent(v *float64) string {
	if v == nil {
		return Missing
	}
	return fmt.Sprintf("%.0f%%", *v)
}

// OptInt formats a possibly missing integer.
func OptInt(v *int, suffix string) string {
	if v == nil {
		return Missing
	}
	return fmt.Sprintf("%d%s", *v, suffix)
}

// CO2 formats a mass in kilograms, switching to tonnes at 1000 kg.
func CO2(kg float64) string {
	if kg >= 1000 {
		return decimal.NewFromFloat(kg).Div(decimal.NewFromInt(1000)).StringFixed(1) + " t"
	}
	return decimal.NewFromFloat(kg).StringFixed(0) + " kg"
}

// groupThousands inserts commas into the integer part of a decimal string.
func groupThousands(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return s
	}
	var sb strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		sb.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		sb.WriteByte('.')
		sb.WriteString(frac)
	}
	return sb.String()
}
