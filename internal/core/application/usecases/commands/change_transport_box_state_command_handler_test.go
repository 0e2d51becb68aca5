package commands_test

import (
	"errors"
	"testing"

	"heblo/internal/core/application/usecases/commands"
	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type changeStateFixture struct {
	repo     *MockTransportBoxRepository
	uow      *MockUoW
	factory  *MockTransportBoxUoWFactory
	recorder *MockTransitionRecorder
	handler  commands.ChangeTransportBoxStateCommandHandler
}

func newChangeStateFixture() *changeStateFixture {
	f := &changeStateFixture{
		repo:     new(MockTransportBoxRepository),
		uow:      new(MockUoW),
		factory:  new(MockTransportBoxUoWFactory),
		recorder: new(MockTransitionRecorder),
	}
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("TransportBoxRepository").Return(f.repo)
	f.handler = commands.NewChangeTransportBoxStateCommandHandler(f.factory, f.recorder)
	return f
}

func (f *changeStateFixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.factory.AssertExpectations(t)
	f.recorder.AssertExpectations(t)
}

func TestChangeTransportBoxStateCommandHandler_Open(t *testing.T) {
	t.Run("opens a new box with a free code", func(t *testing.T) {
		// Given
		ctx := t.Context()
		box := newBox(t, 5)
		f := newChangeStateFixture()
		mock.InOrder(
			f.uow.On("Begin", ctx).Return(nil).Once(),
			f.repo.On("Get", ctx, 5).Return(box, nil).Once(),
			f.repo.On("IsCodeInUse", ctx, "B007", 5).Return(false, nil).Once(),
			f.repo.On("Update", ctx, box).Return(nil).Once(),
			f.uow.On("Commit", ctx).Return(nil).Once(),
			f.recorder.On("RecordTransition", transportbox.New, transportbox.Opened).Once(),
			f.uow.On("Rollback", ctx).Return(nil).Once(),
		)
		cmd, _ := commands.NewChangeTransportBoxStateCommand(5, transportbox.Opened, "alice",
			commands.ChangeStateOptions{BoxCode: "b007"})

		// When
		result, err := f.handler.Handle(ctx, cmd)

		// Then
		require.NoError(t, err)
		assert.Equal(t, transportbox.New, result.PreviousState)
		assert.Equal(t, transportbox.Opened, result.State)
		assert.Equal(t, "B007", box.Code().String())
		f.assertExpectations(t)
	})

	t.Run("rejects a code held by another active box", func(t *testing.T) {
		// Given
		ctx := t.Context()
		box := newBox(t, 5)
		f := newChangeStateFixture()
		mock.InOrder(
			f.uow.On("Begin", ctx).Return(nil).Once(),
			f.repo.On("Get", ctx, 5).Return(box, nil).Once(),
			f.repo.On("IsCodeInUse", ctx, "B001", 5).Return(true, nil).Once(),
			f.uow.On("Rollback", ctx).Return(nil).Once(),
		)
		cmd, _ := commands.NewChangeTransportBoxStateCommand(5, transportbox.Opened, "alice",
			commands.ChangeStateOptions{BoxCode: "B001"})

		// When
		_, err := f.handler.Handle(ctx, cmd)

		// Then
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, transportbox.New, box.State())
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("malformed code is reported by the aggregate", func(t *testing.T) {
		ctx := t.Context()
		box := newBox(t, 5)
		f := newChangeStateFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.repo.On("Get", ctx, 5).Return(box, nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		cmd, _ := commands.NewChangeTransportBoxStateCommand(5, transportbox.Opened, "alice",
			commands.ChangeStateOptions{BoxCode: "X01"})

		_, err := f.handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		f.repo.AssertNotCalled(t, "IsCodeInUse", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reverts a box in transit", func(t *testing.T) {
		ctx := t.Context()
		box := openedBox(t, 5)
		require.NoError(t, box.ToTransit(fixedTime, "alice"))
		f := newChangeStateFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.repo.On("Get", ctx, 5).Return(box, nil).Once()
		f.repo.On("Update", ctx, box).Return(nil).Once()
		f.uow.On("Commit", ctx).Return(nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		f.recorder.On("RecordTransition", transportbox.InTransit, transportbox.Opened).Once()
		cmd, _ := commands.NewChangeTransportBoxStateCommand(5, transportbox.Opened, "alice",
			commands.ChangeStateOptions{})

		_, err := f.handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, transportbox.Opened, box.State())
		f.repo.AssertNotCalled(t, "IsCodeInUse", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})
}

func TestChangeTransportBoxStateCommandHandler_Dispatch(t *testing.T) {
	tests := []struct {
		name    string
		box     func(t *testing.T) *transportbox.TransportBox
		target  transportbox.State
		options commands.ChangeStateOptions
		check   func(t *testing.T, box *transportbox.TransportBox)
	}{
		{
			name:    "confirmed transit",
			box:     func(t *testing.T) *transportbox.TransportBox { return openedBox(t, 1) },
			target:  transportbox.InTransit,
			options: commands.ChangeStateOptions{ConfirmedBoxNumber: "b001"},
		},
		{
			name:    "reserve with location",
			box:     func(t *testing.T) *transportbox.TransportBox { return openedBox(t, 1) },
			target:  transportbox.Reserve,
			options: commands.ChangeStateOptions{Location: "A-01"},
			check: func(t *testing.T, box *transportbox.TransportBox) {
				assert.Equal(t, "A-01", box.Location())
			},
		},
		{
			name: "receive with close",
			box: func(t *testing.T) *transportbox.TransportBox {
				b := openedBox(t, 1)
				require.NoError(t, b.ToTransit(fixedTime, "alice"))
				return b
			},
			target:  transportbox.Received,
			options: commands.ChangeStateOptions{ReceiveState: transportbox.Closed},
			check: func(t *testing.T, box *transportbox.TransportBox) {
				assert.Equal(t, transportbox.Closed, box.DefaultReceiveState())
			},
		},
		{
			name:   "reset",
			box:    func(t *testing.T) *transportbox.TransportBox { return openedBox(t, 1) },
			target: transportbox.New,
			check: func(t *testing.T, box *transportbox.TransportBox) {
				assert.Empty(t, box.Items())
			},
		},
		{
			name:   "close new box",
			box:    func(t *testing.T) *transportbox.TransportBox { return newBox(t, 1) },
			target: transportbox.Closed,
		},
		{
			name:    "error with description",
			box:     func(t *testing.T) *transportbox.TransportBox { return newBox(t, 1) },
			target:  transportbox.Error,
			options: commands.ChangeStateOptions{Description: "lost"},
			check: func(t *testing.T, box *transportbox.TransportBox) {
				log := box.StateLog()
				assert.Equal(t, "lost", log[len(log)-1].Description())
			},
		},
		{
			name:    "system picks a received box",
			box:     func(t *testing.T) *transportbox.TransportBox { return receivedBox(t, 1) },
			target:  transportbox.Stocked,
			options: commands.ChangeStateOptions{System: true},
		},
		{
			name: "person recovers a box from error",
			box: func(t *testing.T) *transportbox.TransportBox {
				b := receivedBox(t, 1)
				b.Error(fixedTime, commands.SystemUser, "stock-up failed")
				return b
			},
			target: transportbox.Stocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			ctx := t.Context()
			box := tt.box(t)
			from := box.State()
			f := newChangeStateFixture()
			f.uow.On("Begin", ctx).Return(nil).Once()
			f.repo.On("Get", ctx, 1).Return(box, nil).Once()
			f.repo.On("Update", ctx, box).Return(nil).Once()
			f.uow.On("Commit", ctx).Return(nil).Once()
			f.uow.On("Rollback", ctx).Return(nil).Once()
			f.recorder.On("RecordTransition", from, tt.target).Once()
			cmd, err := commands.NewChangeTransportBoxStateCommand(1, tt.target, "alice", tt.options)
			require.NoError(t, err)

			// When
			result, err := f.handler.Handle(ctx, cmd)

			// Then
			require.NoError(t, err)
			assert.Equal(t, tt.target, result.State)
			assert.Equal(t, tt.target, box.State())
			if tt.check != nil {
				tt.check(t, box)
			}
			f.assertExpectations(t)
		})
	}
}

func TestChangeTransportBoxStateCommandHandler_Rejections(t *testing.T) {
	t.Run("person cannot perform system-only pick", func(t *testing.T) {
		ctx := t.Context()
		box := receivedBox(t, 1)
		f := newChangeStateFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.repo.On("Get", ctx, 1).Return(box, nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		cmd, _ := commands.NewChangeTransportBoxStateCommand(1, transportbox.Stocked, "alice",
			commands.ChangeStateOptions{})

		_, err := f.handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
		require.ErrorIs(t, err, commands.ErrTransitionIsSystemOnly)
		assert.Equal(t, transportbox.Received, box.State())
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.recorder.AssertNotCalled(t, "RecordTransition", mock.Anything, mock.Anything)
	})

	t.Run("invalid transition is not persisted", func(t *testing.T) {
		ctx := t.Context()
		box := newBox(t, 1)
		f := newChangeStateFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.repo.On("Get", ctx, 1).Return(box, nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		cmd, _ := commands.NewChangeTransportBoxStateCommand(1, transportbox.InTransit, "alice",
			commands.ChangeStateOptions{})

		_, err := f.handler.Handle(ctx, cmd)

		var trErr *transportbox.TransitionError
		require.ErrorAs(t, err, &trErr)
		assert.Equal(t, transportbox.New, trErr.Current)
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing box", func(t *testing.T) {
		ctx := t.Context()
		f := newChangeStateFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.repo.On("Get", ctx, 404).Return(nil, errs.NewObjectNotFoundError("transportBox", 404)).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		cmd, _ := commands.NewChangeTransportBoxStateCommand(404, transportbox.Closed, "alice",
			commands.ChangeStateOptions{})

		_, err := f.handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("update failure is returned and not recorded", func(t *testing.T) {
		ctx := t.Context()
		box := newBox(t, 1)
		f := newChangeStateFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.repo.On("Get", ctx, 1).Return(box, nil).Once()
		f.repo.On("Update", ctx, box).Return(errors.New("update error")).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		cmd, _ := commands.NewChangeTransportBoxStateCommand(1, transportbox.Closed, "alice",
			commands.ChangeStateOptions{})

		_, err := f.handler.Handle(ctx, cmd)

		require.ErrorContains(t, err, "update error")
		f.recorder.AssertNotCalled(t, "RecordTransition", mock.Anything, mock.Anything)
	})
}
