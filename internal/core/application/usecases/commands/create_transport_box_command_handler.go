package commands

import (
	"context"
	"time"

	"heblo/internal/core/domain/model/transportbox"
)

// CreateTransportBoxCommandHandler creates boxes in the New state.
type CreateTransportBoxCommandHandler struct {
	uowFactory TransportBoxUoWFactory
}

func NewCreateTransportBoxCommandHandler(uowFactory TransportBoxUoWFactory) CreateTransportBoxCommandHandler {
	return CreateTransportBoxCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle allocates an identifier, persists the new box and returns its id.
func (h *CreateTransportBoxCommandHandler) Handle(ctx context.Context, cmd CreateTransportBoxCommand) (int, error) {
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
	id, err := repo.NextID(ctx)
	if err != nil {
		return 0, err
	}

	box, err := transportbox.NewTransportBox(id, time.Now().UTC(), cmd.UserName())
	if err != nil {
		return 0, err
	}

	if err = repo.Add(ctx, box); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return id, nil
}
