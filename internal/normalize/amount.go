package normalize

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseCents parses a decimal amount string into exact integer cents.
// Handles currency symbols, thousands separators, and accounting-style
// parenthesized negatives ("(42.50)" -> -4250).
//
// Amounts with more than two fractional digits are rejected rather than
// rounded: a statement export should never carry sub-cent precision, and
// rounding would silently change totals.
func ParseCents(s string) (int64, error) {
	clean := strings.TrimSpace(s)

	negate := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negate = true
		clean = clean[1 : len(clean)-1]
	}

	clean = strings.ReplaceAll(clean, ",", "")
	if rest, ok := strings.CutPrefix(clean, "-$"); ok {
		clean = "-" + rest
	} else {
		clean = strings.TrimPrefix(clean, "$")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, errors.New("not a decimal number")
	}

	if d.Exponent() < -2 {
		return 0, errors.New("more than two fractional digits")
	}

	cents := d.Mul(decimal.NewFromInt(100))

	if negate {
		cents = cents.Neg()
	}

	return cents.IntPart(), nil
}

// FormatCents renders integer cents as a plain decimal string, the exact
// inverse of ParseCents for canonical two-digit amounts.
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
