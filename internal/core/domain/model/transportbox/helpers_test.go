package transportbox_test

import (
	"testing"
	"time"

	"heblo/internal/core/domain/model/kernel"
	"heblo/internal/core/domain/model/transportbox"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

const user = "alice"

func amount(t *testing.T, v float64) kernel.Amount {
	t.Helper()
	a, err := kernel.NewAmountFromFloat(v)
	require.NoError(t, err)
	return a
}

// boxIn drives a fresh box into the requested state through the public mutators.
func boxIn(t *testing.T, state transportbox.State) *transportbox.TransportBox {
	t.Helper()

	box, err := transportbox.NewTransportBox(1, now, user)
	require.NoError(t, err)

	switch state {
	case transportbox.New:
	case transportbox.Opened:
		open(t, box)
	case transportbox.InTransit:
		open(t, box)
		require.NoError(t, box.ToTransit(now, user))
	case transportbox.Reserve:
		open(t, box)
		require.NoError(t, box.ToReserve(now, user, "A-01"))
	case transportbox.Received:
		open(t, box)
		require.NoError(t, box.ToTransit(now, user))
		require.NoError(t, box.Receive(now, user, transportbox.Stocked))
	case transportbox.Stocked:
		open(t, box)
		require.NoError(t, box.ToTransit(now, user))
		require.NoError(t, box.Receive(now, user, transportbox.Stocked))
		require.NoError(t, box.ToPick(now, user))
	case transportbox.Closed:
		require.NoError(t, box.Close(now, user))
	case transportbox.Error:
		box.Error(now, user, "boom")
	default:
		t.Fatalf("unsupported state %s", state)
	}

	require.Equal(t, state, box.State())
	return box
}

func open(t *testing.T, box *transportbox.TransportBox) {
	t.Helper()
	require.NoError(t, box.Open("B001", now, user))
	_, err := box.AddItem("AKL001", "Bisabolol", amount(t, 2), now, user)
	require.NoError(t, err)
}
