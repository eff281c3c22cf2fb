package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Money is a monetary amount in minor currency units. Keeping amounts as
// integers makes pricing arithmetic exact; the currency itself is implicit
// and uniform across the marketplace.
type Money int64

// NewMoney creates a non-negative monetary amount.
func NewMoney(amount int64) (Money, error) {
	if amount < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("money",
			fmt.Errorf("%d is negative", amount))
	}
	return Money(amount), nil
}

// MulQty multiplies a unit price by a quantity.
func (m Money) MulQty(qty int) Money {
	return m * Money(qty)
}

// Percent returns the given percentage of the amount, truncated toward zero.
func (m Money) Percent(pct int) Money {
	return m * Money(pct) / 100
}

// Int64 returns the raw amount in minor units.
func (m Money) Int64() int64 {
	return int64(m)
}
