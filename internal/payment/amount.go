package payment

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const maxAmountDecimals = 2

// ParseAmount parses a gift amount like "25" or "12.50" into minor units.
func ParseAmount(text string) (int64, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	if text == "" {
		return 0, ErrAmountEmpty
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, errors.Wrapf(ErrAmountInvalid, "%q", text)
	}

	if !d.IsPositive() {
		return 0, ErrAmountNotPositive
	}

	minor := d.Shift(maxAmountDecimals)
	if !minor.IsInteger() {
		return 0, ErrAmountPrecision
	}

	return minor.IntPart(), nil
}

// FormatAmount renders minor units as a decimal string with two places.
func FormatAmount(minor int64) string {
	return decimal.New(minor, -maxAmountDecimals).StringFixed(maxAmountDecimals)
}
