// Package money implements fixed-point monetary amounts with two decimal places.
// Amounts are held as int64 minor units so sums never drift; decimal conversion
// happens only at the edges (parsing user input, rendering, ratios).
package money

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "ledgerbot/internal/errors"
)

// Scale is the number of decimal places every amount carries.
const Scale = 2

// DefaultMax is the largest amount accepted from user input (999,999,999.99).
const DefaultMax Amount = 99_999_999_999

// Amount is a monetary value in minor units (cents).
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// Parse validates raw user input and converts it to an Amount.
// A comma decimal separator is accepted. Values are rounded to two decimals,
// and must be positive and not greater than max.
func Parse(raw string, max Amount) (Amount, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if normalized == "" {
		return 0, apperrors.ErrInvalidAmount
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInvalidAmount, err)
	}
	d = d.Round(Scale)

	if !d.IsPositive() {
		return 0, apperrors.ErrAmountNotPositive
	}
	if d.GreaterThan(max.Decimal()) {
		return 0, apperrors.WithMessage(apperrors.ErrAmountTooLarge,
			fmt.Sprintf("Amount must not exceed %s", max))
	}
	return FromDecimal(d), nil
}

// FromDecimal converts a decimal value to an Amount, rounding half away from zero.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Round(Scale).Shift(Scale).IntPart())
}

// Decimal returns the amount as a decimal with two places.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

// String renders the amount with exactly two decimals, e.g. "1500.00".
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// Ratio returns part/whole. A zero whole yields zero instead of failing.
func Ratio(part, whole Amount) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return part.Decimal().Div(whole.Decimal())
}

// Percent returns part/whole*100 rounded to one decimal place.
func Percent(part, whole Amount) decimal.Decimal {
	return Ratio(part, whole).Mul(decimal.NewFromInt(100)).Round(1)
}

// MarshalJSON encodes the amount as a quoted fixed-point string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts either a quoted decimal string or a bare JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(data, `"`))
	if raw == "" || raw == "null" {
		*a = 0
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("money: invalid amount %q: %w", raw, err)
	}
	*a = FromDecimal(d)
	return nil
}
