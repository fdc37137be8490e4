package utils

import (
	"strings"

	"github.com/shopspring/decimal"

	customError "github.com/segyhp/upn-qr/pkg/errors"
)

// ParseAmount converts a Slovenian amount ("213.123,23", "11") to a decimal.
// Periods are thousands separators and the comma is the decimal separator.
func ParseAmount(amount string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(amount), ".", "")
	normalized = strings.Replace(normalized, ",", ".", 1)
	if normalized == "" {
		return decimal.Zero, customError.WrapInvalidAmount(amount)
	}

	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, customError.WrapInvalidAmount(amount)
	}

	return value.Round(2), nil
}

// FormatAmount renders a decimal in Slovenian notation with thousands separators,
// e.g. 213123.23 becomes "213.123,23".
func FormatAmount(value decimal.Decimal) string {
	fixed := value.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}

	whole, fraction, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	return sign + grouped.String() + "," + fraction
}

// SumAmounts adds Slovenian amounts, skipping values that do not parse.
// It returns the total and the number of skipped values.
func SumAmounts(amounts []string) (decimal.Decimal, int) {
	total := decimal.Zero
	skipped := 0
	for _, a := range amounts {
		value, err := ParseAmount(a)
		if err != nil {
			skipped++
			continue
		}
		total = total.Add(value)
	}
	return total, skipped
}
