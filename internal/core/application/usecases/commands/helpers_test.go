package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"heblo/internal/core/domain/model/kernel"
	"heblo/internal/core/domain/model/transportbox"

	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBox(t *testing.T, id int) *transportbox.TransportBox {
	t.Helper()
	box, err := transportbox.NewTransportBox(id, fixedTime, "alice")
	require.NoError(t, err)
	return box
}

func openedBox(t *testing.T, id int) *transportbox.TransportBox {
	t.Helper()
	box := newBox(t, id)
	require.NoError(t, box.Open("B001", fixedTime, "alice"))
	amount, err := kernel.NewAmountFromFloat(2)
	require.NoError(t, err)
	_, err = box.AddItem("AKL001", "Bisabolol", amount, fixedTime, "alice")
	require.NoError(t, err)
	return box
}

func receivedBox(t *testing.T, id int) *transportbox.TransportBox {
	t.Helper()
	box := openedBox(t, id)
	require.NoError(t, box.ToTransit(fixedTime, "alice"))
	require.NoError(t, box.Receive(fixedTime, "bob", transportbox.Stocked))
	return box
}
