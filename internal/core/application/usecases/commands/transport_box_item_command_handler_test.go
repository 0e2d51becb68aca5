package commands_test

import (
	"testing"

	"heblo/internal/core/application/usecases/commands"
	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAddTransportBoxItemCommandHandler_Handle(t *testing.T) {
	t.Run("adds item to an opened box", func(t *testing.T) {
		// Given
		ctx := t.Context()
		box := openedBox(t, 3)
		repo := new(MockTransportBoxRepository)
		uow := new(MockUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("TransportBoxRepository").Return(repo).Once(),
			repo.On("Get", ctx, 3).Return(box, nil).Once(),
			repo.On("Update", ctx, box).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)
		factory := new(MockTransportBoxUoWFactory)
		factory.On("Create").Return(uow).Once()
		cmd, err := commands.NewAddTransportBoxItemCommand(3, "MAS002", "Shea", decimal.RequireFromString("1.25"), "bob")
		require.NoError(t, err)

		// When
		h := commands.NewAddTransportBoxItemCommandHandler(factory)
		itemID, err := h.Handle(ctx, cmd)

		// Then
		require.NoError(t, err)
		assert.Equal(t, 2, itemID)
		assert.Len(t, box.Items(), 2)
		uow.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("refuses items outside Opened", func(t *testing.T) {
		ctx := t.Context()
		box := newBox(t, 3)
		repo := new(MockTransportBoxRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("TransportBoxRepository").Return(repo).Once()
		repo.On("Get", ctx, 3).Return(box, nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockTransportBoxUoWFactory)
		factory.On("Create").Return(uow).Once()
		cmd, _ := commands.NewAddTransportBoxItemCommand(3, "MAS002", "", decimal.NewFromInt(1), "bob")

		h := commands.NewAddTransportBoxItemCommandHandler(factory)
		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), transportbox.ErrItemsAreFrozen.Error())
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestRemoveTransportBoxItemCommandHandler_Handle(t *testing.T) {
	t.Run("removes the item", func(t *testing.T) {
		ctx := t.Context()
		box := openedBox(t, 3)
		repo := new(MockTransportBoxRepository)
		uow := new(MockUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("TransportBoxRepository").Return(repo).Once(),
			repo.On("Get", ctx, 3).Return(box, nil).Once(),
			repo.On("Update", ctx, box).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)
		factory := new(MockTransportBoxUoWFactory)
		factory.On("Create").Return(uow).Once()
		cmd, _ := commands.NewRemoveTransportBoxItemCommand(3, 1, "bob")

		h := commands.NewRemoveTransportBoxItemCommandHandler(factory)
		err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Empty(t, box.Items())
		uow.AssertExpectations(t)
	})

	t.Run("reports a missing item", func(t *testing.T) {
		ctx := t.Context()
		box := openedBox(t, 3)
		repo := new(MockTransportBoxRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("TransportBoxRepository").Return(repo).Once()
		repo.On("Get", ctx, 3).Return(box, nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockTransportBoxUoWFactory)
		factory.On("Create").Return(uow).Once()
		cmd, _ := commands.NewRemoveTransportBoxItemCommand(3, 9, "bob")

		h := commands.NewRemoveTransportBoxItemCommandHandler(factory)
		err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
