// Package currencyutils converts Tanzanian shilling digit groups to integer
// amounts and back to display strings.
package currencyutils

import (
	"fmt"
	"math"
	"strings"

	"fjacquet/miamala/internal/models"
	"fjacquet/miamala/internal/parsererror"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	maxAmount = decimal.NewFromInt(math.MaxInt64)
	minAmount = decimal.NewFromInt(math.MinInt64)
)

// ParseDigitGroup converts a digit group such as "1,250,000" to 1250000.
// Grouping commas are stripped first; what remains must be a non-negative
// integer that fits in an int64.
func ParseDigitGroup(group string) (int64, error) {
	digits := strings.ReplaceAll(strings.TrimSpace(group), ",", "")
	if digits == "" {
		return 0, fmt.Errorf("%w: %q has no digits", parsererror.ErrMalformedDigits, group)
	}

	amount, err := decimal.NewFromString(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", parsererror.ErrMalformedDigits, group, err)
	}
	if amount.IsNegative() || !amount.IsInteger() {
		return 0, fmt.Errorf("%w: %q is not a non-negative integer", parsererror.ErrMalformedDigits, group)
	}
	if amount.GreaterThan(maxAmount) {
		return 0, fmt.Errorf("%w: %q overflows", parsererror.ErrMalformedDigits, group)
	}

	return amount.IntPart(), nil
}

// ToAmount converts a decimal total back to an int64 amount.
func ToAmount(total decimal.Decimal) (int64, error) {
	if total.GreaterThan(maxAmount) || total.LessThan(minAmount) {
		return 0, fmt.Errorf("%w: %s", parsererror.ErrAmountOverflow, total.String())
	}
	return total.IntPart(), nil
}

// FormatTsh renders an amount the way operators print it, e.g. "Tsh 1,250,000".
// Negative amounts keep their sign: "Tsh -5,000".
func FormatTsh(amount int64) string {
	return models.CurrencyTsh + " " + humanize.Comma(amount)
}
