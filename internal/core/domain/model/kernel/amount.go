package kernel

import (
	"fmt"

	"heblo/internal/pkg/errs"
	"heblo/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrAmountIsNotConstructed is returned when a zero-value Amount is used.
var ErrAmountIsNotConstructed = errs.NewValueIsRequiredError("amount must be created via NewAmount")

// Amount is a strictly positive product quantity. Quantities are decimal because
// bulk materials are packed by weight or volume, not only by piece.
type Amount struct { //nolint:recvcheck //using for validation
	value decimal.Decimal
	guard guard.ConstructorGuard
}

// NewAmount validates that value is greater than zero.
func NewAmount(value decimal.Decimal) (Amount, error) {
	if !value.IsPositive() {
		return Amount{}, errs.NewValueIsInvalidErrorWithCause(
			"amount is invalid",
			fmt.Errorf("%s is not greater than 0", value.String()),
		)
	}

	return Amount{value: value, guard: guard.NewConstructorGuard()}, nil
}

// NewAmountFromFloat is a convenience constructor for callers working with float inputs.
func NewAmountFromFloat(value float64) (Amount, error) {
	return NewAmount(decimal.NewFromFloat(value))
}

// Validate reports whether the amount was created through NewAmount.
func (a Amount) Validate() error {
	return a.guard.Validate(ErrAmountIsNotConstructed)
}

// Decimal returns the underlying value.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// Add returns the sum of two amounts.
func (a Amount) Add(other Amount) Amount {
	return Amount{value: a.value.Add(other.value), guard: guard.NewConstructorGuard()}
}

func (a Amount) String() string {
	return a.value.String()
}
