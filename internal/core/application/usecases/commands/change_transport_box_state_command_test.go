package commands_test

import (
	"testing"

	"heblo/internal/core/application/usecases/commands"
	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChangeTransportBoxStateCommand(t *testing.T) {
	t.Run("defaults receive state to Stocked", func(t *testing.T) {
		cmd, err := commands.NewChangeTransportBoxStateCommand(1, transportbox.Received, "alice",
			commands.ChangeStateOptions{})

		require.NoError(t, err)
		assert.Equal(t, transportbox.Stocked, cmd.Options().ReceiveState)
	})

	t.Run("rejects unsupported receive state", func(t *testing.T) {
		_, err := commands.NewChangeTransportBoxStateCommand(1, transportbox.Received, "alice",
			commands.ChangeStateOptions{ReceiveState: transportbox.Opened})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := commands.NewChangeTransportBoxStateCommand(-1, transportbox.Unknown, "",
			commands.ChangeStateOptions{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "box id is invalid")
		assert.Contains(t, err.Error(), "state is invalid")
		assert.Contains(t, err.Error(), "userName")
	})
}
