package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"heblo/internal/core/domain/model/kernel"
	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/pkg/errs"
)

// ErrTransitionIsSystemOnly is the cause reported when a person requests a
// transition reserved for background processing.
var ErrTransitionIsSystemOnly = errors.New("transition can only be performed by the system")

// TransitionRecorder is notified about every committed state change.
type TransitionRecorder interface {
	RecordTransition(from, to transportbox.State)
}

type noopRecorder struct{}

func (noopRecorder) RecordTransition(_, _ transportbox.State) {}

// ChangeTransportBoxStateResult describes a committed transition.
type ChangeTransportBoxStateResult struct {
	BoxID         int
	PreviousState transportbox.State
	State         transportbox.State
}

// ChangeTransportBoxStateCommandHandler loads a box under a row lock, dispatches
// to the aggregate method for the requested target state and saves it.
//
// Dispatch:
//   - Opened: Open from New (code must not be held by another active box),
//     otherwise RevertToOpened
//   - InTransit: ConfirmTransit when a confirmed box number is given, otherwise ToTransit
//   - Reserve: ToReserve
//   - Received: Receive
//   - Stocked: ToPick, refused for people when the transition is system-only
//   - Closed: Close
//   - New: Reset
//   - Error: Error with the description
type ChangeTransportBoxStateCommandHandler struct {
	uowFactory TransportBoxUoWFactory
	recorder   TransitionRecorder
}

func NewChangeTransportBoxStateCommandHandler(
	uowFactory TransportBoxUoWFactory,
	recorder TransitionRecorder,
) ChangeTransportBoxStateCommandHandler {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return ChangeTransportBoxStateCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

func (h *ChangeTransportBoxStateCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeTransportBoxStateCommand,
) (ChangeTransportBoxStateResult, error) {
	if err := cmd.Validate(); err != nil {
		return ChangeTransportBoxStateResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ChangeTransportBoxStateResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TransportBoxRepository()
	box, err := repo.Get(ctx, cmd.BoxID())
	if err != nil {
		return ChangeTransportBoxStateResult{}, err
	}

	previous := box.State()
	if err = h.dispatch(ctx, uow, box, cmd); err != nil {
		return ChangeTransportBoxStateResult{}, err
	}

	if err = repo.Update(ctx, box); err != nil {
		return ChangeTransportBoxStateResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ChangeTransportBoxStateResult{}, err
	}

	h.recorder.RecordTransition(previous, box.State())

	return ChangeTransportBoxStateResult{
		BoxID:         box.ID(),
		PreviousState: previous,
		State:         box.State(),
	}, nil
}

func (h *ChangeTransportBoxStateCommandHandler) dispatch(
	ctx context.Context,
	uow TransportBoxUoW,
	box *transportbox.TransportBox,
	cmd ChangeTransportBoxStateCommand,
) error {
	now := time.Now().UTC()
	user := cmd.UserName()
	opts := cmd.Options()

	switch cmd.Target() {
	case transportbox.Opened:
		if box.State() != transportbox.New {
			return box.RevertToOpened(now, user)
		}
		if err := h.ensureCodeIsFree(ctx, uow, box, opts.BoxCode); err != nil {
			return err
		}
		return box.Open(opts.BoxCode, now, user)
	case transportbox.InTransit:
		if opts.ConfirmedBoxNumber != "" {
			return box.ConfirmTransit(opts.ConfirmedBoxNumber, now, user)
		}
		return box.ToTransit(now, user)
	case transportbox.Reserve:
		return box.ToReserve(now, user, opts.Location)
	case transportbox.Received:
		return box.Receive(now, user, opts.ReceiveState)
	case transportbox.Stocked:
		if t, ok := transportbox.Lookup(box.State(), transportbox.OpToPick, transportbox.Stocked); ok &&
			t.SystemOnly && !opts.System {
			return &transportbox.TransitionError{
				Operation: transportbox.OpToPick,
				Current:   box.State(),
				Target:    transportbox.Stocked,
				Allowed:   transportbox.AllowedSources(transportbox.OpToPick, transportbox.Stocked),
				Cause:     ErrTransitionIsSystemOnly,
			}
		}
		return box.ToPick(now, user)
	case transportbox.Closed:
		return box.Close(now, user)
	case transportbox.New:
		return box.Reset(now, user)
	case transportbox.Error:
		box.Error(now, user, opts.Description)
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"target state is invalid",
			fmt.Errorf("%s cannot be requested", cmd.Target()),
		)
	}
}

// ensureCodeIsFree rejects a code held by another box that is neither New nor Closed.
// Malformed codes are left to Open, which reports them.
func (h *ChangeTransportBoxStateCommandHandler) ensureCodeIsFree(
	ctx context.Context,
	uow TransportBoxUoW,
	box *transportbox.TransportBox,
	raw string,
) error {
	code, err := kernel.NewBoxCode(raw)
	if err != nil {
		return nil //nolint:nilerr // reported by Open with the transition context
	}

	inUse, err := uow.TransportBoxRepository().IsCodeInUse(ctx, code, box.ID())
	if err != nil {
		return err
	}
	if inUse {
		return errs.NewConflictErrorWithCause(
			"box code",
			fmt.Errorf("%s is already used by another active box", code),
		)
	}
	return nil
}
