package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are bounded so a short exponent literal such as "1e100000000"
// cannot expand into a huge request body.
const (
	maxAmountIntegerDigits  = 18
	maxAmountFractionDigits = 12
	maxAmountExponentSpan   = 64
)

type Amount struct {
	decimal.Decimal
}

func ParseAmount(raw string) (Amount, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Amount{}, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}

	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	if value.IsZero() {
		return Amount{Decimal: decimal.Zero}, nil
	}

	exponent := int64(value.Exponent())
	if exponent < -maxAmountExponentSpan || exponent > maxAmountExponentSpan {
		return Amount{}, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, raw)
	}
	if exponent < -maxAmountFractionDigits {
		value = value.Round(maxAmountFractionDigits)
		if value.IsZero() {
			return Amount{Decimal: decimal.Zero}, nil
		}
		exponent = int64(value.Exponent())
	}
	if int64(value.NumDigits())+exponent > maxAmountIntegerDigits {
		return Amount{}, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, raw)
	}

	return Amount{Decimal: value}, nil
}

// MarshalJSON emits a bare JSON number; the gateway rejects quoted amounts.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}
