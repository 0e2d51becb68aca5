package services_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"heblo/internal/core/domain/model/kernel"
	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/core/domain/services"
	"heblo/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func receivedBox(t *testing.T, receiveState transportbox.State, items map[string]float64, order []string) *transportbox.TransportBox {
	t.Helper()

	box, err := transportbox.NewTransportBox(1, now, "alice")
	require.NoError(t, err)
	require.NoError(t, box.Open("B001", now, "alice"))
	for _, code := range order {
		a, err := kernel.NewAmountFromFloat(items[code])
		require.NoError(t, err)
		_, err = box.AddItem(code, "name "+code, a, now, "alice")
		require.NoError(t, err)
	}
	require.NoError(t, box.ToTransit(now, "alice"))
	require.NoError(t, box.Receive(now, "bob", receiveState))
	return box
}

func TestReceiveFinalizer_Plan(t *testing.T) {
	t.Run("sums amounts per product in first appearance order", func(t *testing.T) {
		// Given
		box, err := transportbox.NewTransportBox(1, now, "alice")
		require.NoError(t, err)
		require.NoError(t, box.Open("B001", now, "alice"))
		for _, line := range []struct {
			code   string
			amount float64
		}{{"P2", 1}, {"P1", 2}, {"P2", 0.5}} {
			a, _ := kernel.NewAmountFromFloat(line.amount)
			_, err := box.AddItem(line.code, "", a, now, "alice")
			require.NoError(t, err)
		}
		require.NoError(t, box.ToTransit(now, "alice"))
		require.NoError(t, box.Receive(now, "bob", transportbox.Stocked))

		// When
		lines, err := services.NewReceiveFinalizer().Plan(box)

		// Then
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, "P2", lines[0].ProductCode)
		assert.True(t, lines[0].Amount.Decimal().Equal(decimal.RequireFromString("1.5")))
		assert.Equal(t, "P1", lines[1].ProductCode)
		assert.True(t, lines[1].Amount.Decimal().Equal(decimal.NewFromInt(2)))
	})

	t.Run("rejects boxes that are not received", func(t *testing.T) {
		box, err := transportbox.NewTransportBox(1, now, "alice")
		require.NoError(t, err)

		_, err = services.NewReceiveFinalizer().Plan(box)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects unconstructed box", func(t *testing.T) {
		_, err := services.NewReceiveFinalizer().Plan(&transportbox.TransportBox{})

		require.ErrorIs(t, err, transportbox.ErrTransportBoxIsNotConstructed)
	})
}

func TestReceiveFinalizer_Complete(t *testing.T) {
	tests := []struct {
		name         string
		receiveState transportbox.State
		want         transportbox.State
	}{
		{name: "stocks by default", receiveState: transportbox.Stocked, want: transportbox.Stocked},
		{name: "closes when requested", receiveState: transportbox.Closed, want: transportbox.Closed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := receivedBox(t, tt.receiveState, map[string]float64{"P1": 1}, []string{"P1"})

			err := services.NewReceiveFinalizer().Complete(box, now, "System")

			require.NoError(t, err)
			assert.Equal(t, tt.want, box.State())
			log := box.StateLog()
			assert.Equal(t, "System", log[len(log)-1].UserName())
		})
	}
}

func TestReceiveFinalizer_Fail(t *testing.T) {
	box := receivedBox(t, transportbox.Stocked, map[string]float64{"P1": 1}, []string{"P1"})

	services.NewReceiveFinalizer().Fail(box, now, "System", errors.New("ledger unavailable"))

	assert.Equal(t, transportbox.Error, box.State())
	log := box.StateLog()
	assert.Equal(t, "stock-up failed: ledger unavailable", log[len(log)-1].Description())
}

func TestReceiveFinalizer_FailWithLongCauseFitsDescription(t *testing.T) {
	box := receivedBox(t, transportbox.Stocked, map[string]float64{"P1": 1}, []string{"P1"})
	cause := errors.New(strings.Repeat("x", 4000))

	services.NewReceiveFinalizer().Fail(box, now, "System", cause)

	log := box.StateLog()
	description := log[len(log)-1].Description()
	assert.Len(t, description, transportbox.MaxDescriptionLength)
	assert.True(t, strings.HasPrefix(description, "stock-up failed: xxx"))
}
