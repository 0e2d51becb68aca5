package kernel_test

import (
	"testing"

	"heblo/internal/core/domain/model/kernel"
	"heblo/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoxCode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "upper case code", raw: "B001", want: "B001"},
		{name: "lower case code is normalized", raw: "b123", want: "B123"},
		{name: "surrounding whitespace is trimmed", raw: "  B999 ", want: "B999"},
		{name: "wrong prefix", raw: "X001", wantErr: errs.ErrValueIsInvalid},
		{name: "too few digits", raw: "B01", wantErr: errs.ErrValueIsInvalid},
		{name: "too many digits", raw: "B0001", wantErr: errs.ErrValueIsInvalid},
		{name: "letters instead of digits", raw: "BABC", wantErr: errs.ErrValueIsInvalid},
		{name: "empty", raw: "", wantErr: errs.ErrValueIsRequired},
		{name: "blank", raw: "   ", wantErr: errs.ErrValueIsRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := kernel.NewBoxCode(tt.raw)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, code.IsZero())
				return
			}

			require.NoError(t, err)
			require.NoError(t, code.Validate())
			assert.Equal(t, tt.want, code.String())
		})
	}
}

func TestBoxCode_Validate(t *testing.T) {
	var code kernel.BoxCode

	assert.Equal(t, kernel.ErrBoxCodeIsNotConstructed, code.Validate())
	assert.True(t, code.IsZero())
}

func TestBoxCode_IsEqual(t *testing.T) {
	a, _ := kernel.NewBoxCode("b010")
	b, _ := kernel.NewBoxCode("B010")
	c, _ := kernel.NewBoxCode("B011")

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
}

func TestBoxCode_Matches(t *testing.T) {
	code, _ := kernel.NewBoxCode("B010")

	assert.True(t, code.Matches("B010"))
	assert.True(t, code.Matches("b010"))
	assert.True(t, code.Matches(" B010 "))
	assert.False(t, code.Matches("B011"))
	assert.False(t, code.Matches(""))

	var empty kernel.BoxCode
	assert.False(t, empty.Matches(""))
}
