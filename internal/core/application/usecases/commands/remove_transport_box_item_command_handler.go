package commands

import (
	"context"
	"time"
)

// RemoveTransportBoxItemCommandHandler removes items from Opened boxes.
type RemoveTransportBoxItemCommandHandler struct {
	uowFactory TransportBoxUoWFactory
}

func NewRemoveTransportBoxItemCommandHandler(uowFactory TransportBoxUoWFactory) RemoveTransportBoxItemCommandHandler {
	return RemoveTransportBoxItemCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h *RemoveTransportBoxItemCommandHandler) Handle(ctx context.Context, cmd RemoveTransportBoxItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TransportBoxRepository()
	box, err := repo.Get(ctx, cmd.BoxID())
	if err != nil {
		return err
	}

	if _, err = box.DeleteItem(cmd.ItemID(), time.Now().UTC(), cmd.UserName()); err != nil {
		return err
	}

	if err = repo.Update(ctx, box); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
