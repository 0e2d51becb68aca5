package kernel_test

import (
	"testing"

	"heblo/internal/core/domain/model/kernel"
	"heblo/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAmount(t *testing.T) {
	t.Run("positive amount", func(t *testing.T) {
		a, err := kernel.NewAmount(decimal.RequireFromString("2.5"))

		require.NoError(t, err)
		require.NoError(t, a.Validate())
		assert.Equal(t, "2.5", a.String())
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		_, err := kernel.NewAmount(decimal.Zero)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "0 is not greater than 0")
	})

	t.Run("negative amount is rejected", func(t *testing.T) {
		_, err := kernel.NewAmountFromFloat(-1)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestAmount_Add(t *testing.T) {
	a, _ := kernel.NewAmountFromFloat(1.25)
	b, _ := kernel.NewAmountFromFloat(0.75)

	sum := a.Add(b)

	require.NoError(t, sum.Validate())
	assert.True(t, sum.Decimal().Equal(decimal.NewFromInt(2)))
}

func TestAmount_ZeroValue(t *testing.T) {
	var a kernel.Amount

	assert.Equal(t, kernel.ErrAmountIsNotConstructed, a.Validate())
}
