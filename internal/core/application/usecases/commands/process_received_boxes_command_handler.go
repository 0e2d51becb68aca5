package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/core/domain/services"
)

// ProcessReceivedBoxesResult summarizes one processing run.
type ProcessReceivedBoxesResult struct {
	Processed int
	Failed    int
	Skipped   int
}

// ProcessReceivedBoxesCommandHandler records stock-up lines for received boxes and
// moves them on to their post-receive state.
//
// Every box is handled in its own transaction so one failure does not block the
// others. A failed box is moved to Error in a fresh transaction, with the failure
// as the log message, unless it left Received in the meantime; it is then left
// for manual recovery.
type ProcessReceivedBoxesCommandHandler struct {
	uowFactory UoWFactory
	finalizer  services.ReceiveFinalizer
	recorder   TransitionRecorder
	logger     *slog.Logger
}

func NewProcessReceivedBoxesCommandHandler(
	uowFactory UoWFactory,
	finalizer services.ReceiveFinalizer,
	recorder TransitionRecorder,
	logger *slog.Logger,
) ProcessReceivedBoxesCommandHandler {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return ProcessReceivedBoxesCommandHandler{
		uowFactory: uowFactory,
		finalizer:  finalizer,
		recorder:   recorder,
		logger:     logger.With("component", "ProcessReceivedBoxesCommandHandler"),
	}
}

func (h *ProcessReceivedBoxesCommandHandler) Handle(
	ctx context.Context,
	cmd ProcessReceivedBoxesCommand,
) (ProcessReceivedBoxesResult, error) {
	var result ProcessReceivedBoxesResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	ids, err := h.uowFactory.Create().TransportBoxRepository().GetIDsInState(ctx, transportbox.Received)
	if err != nil {
		return result, fmt.Errorf("list received boxes: %w", err)
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		processed, procErr := h.processBox(ctx, id)
		switch {
		case procErr != nil:
			result.Failed++
			h.logger.ErrorContext(ctx, "failed to process received box", "box_id", id, "error", procErr)
			if failErr := h.recordFailure(ctx, id, procErr); failErr != nil {
				h.logger.ErrorContext(ctx, "failed to record box error", "box_id", id, "error", failErr)
			}
		case processed:
			result.Processed++
		default:
			result.Skipped++
		}
	}

	return result, nil
}

// processBox returns false when the box left the Received state in the meantime.
func (h *ProcessReceivedBoxesCommandHandler) processBox(ctx context.Context, id int) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TransportBoxRepository()
	box, err := repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if box.State() != transportbox.Received {
		return false, nil
	}

	lines, err := h.finalizer.Plan(box)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	if err = uow.StockUpRepository().Record(ctx, id, lines, now); err != nil {
		return false, err
	}

	if err = h.finalizer.Complete(box, now, SystemUser); err != nil {
		return false, err
	}

	if err = repo.Update(ctx, box); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.recorder.RecordTransition(transportbox.Received, box.State())
	h.logger.InfoContext(ctx, "received box processed", "box_id", id, "state", box.State().String(), "lines", len(lines))
	return true, nil
}

func (h *ProcessReceivedBoxesCommandHandler) recordFailure(ctx context.Context, id int, cause error) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TransportBoxRepository()
	box, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if box.State() != transportbox.Received {
		h.logger.WarnContext(ctx, "box left Received before the failure was recorded",
			"box_id", id, "state", box.State().String(), "error", cause)
		return nil
	}

	previous := box.State()
	h.finalizer.Fail(box, time.Now().UTC(), SystemUser, cause)

	if err = repo.Update(ctx, box); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.recorder.RecordTransition(previous, box.State())
	return nil
}
