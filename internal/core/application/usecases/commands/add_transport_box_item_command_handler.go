package commands

import (
	"context"
	"time"
)

// AddTransportBoxItemCommandHandler adds items to Opened boxes.
type AddTransportBoxItemCommandHandler struct {
	uowFactory TransportBoxUoWFactory
}

func NewAddTransportBoxItemCommandHandler(uowFactory TransportBoxUoWFactory) AddTransportBoxItemCommandHandler {
	return AddTransportBoxItemCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle adds the item and returns its box-scoped id.
func (h *AddTransportBoxItemCommandHandler) Handle(ctx context.Context, cmd AddTransportBoxItemCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TransportBoxRepository()
	box, err := repo.Get(ctx, cmd.BoxID())
	if err != nil {
		return 0, err
	}

	item, err := box.AddItem(cmd.ProductCode(), cmd.ProductName(), cmd.Amount(), time.Now().UTC(), cmd.UserName())
	if err != nil {
		return 0, err
	}

	if err = repo.Update(ctx, box); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return item.ID(), nil
}
