package commands

import (
	"errors"
	"fmt"
	"strings"

	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/pkg/errs"
	"heblo/internal/pkg/guard"
)

var ErrChangeTransportBoxStateCommandIsNotConstructed = errors.New(
	"ChangeTransportBoxStateCommand must be created via NewChangeTransportBoxStateCommand constructor",
)

// ChangeStateOptions carries the inputs some transitions need.
type ChangeStateOptions struct {
	// BoxCode is assigned when opening a New box.
	BoxCode string

	// ConfirmedBoxNumber, when set, makes the move to InTransit a confirmed transit.
	ConfirmedBoxNumber string

	// Location is required when moving to Reserve.
	Location string

	// ReceiveState is the post-receive target; Unknown means Stocked.
	ReceiveState transportbox.State

	// Description is the message recorded when moving to Error.
	Description string

	// System marks a caller allowed to perform system-only transitions.
	System bool
}

// ChangeTransportBoxStateCommand requests moving a box to a target state.
// The handler picks the aggregate method from the current and target states.
//
// Example:
//
//	cmd, err := NewChangeTransportBoxStateCommand(42, transportbox.Reserve, "alice",
//	    ChangeStateOptions{Location: "A-01"})
type ChangeTransportBoxStateCommand struct { //nolint:recvcheck //using for validation
	boxID    int
	target   transportbox.State
	userName string
	options  ChangeStateOptions

	guard guard.ConstructorGuard
}

func NewChangeTransportBoxStateCommand(
	boxID int,
	target transportbox.State,
	userName string,
	options ChangeStateOptions,
) (ChangeTransportBoxStateCommand, error) {
	cmd := ChangeTransportBoxStateCommand{
		options: options,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBoxID(boxID),
		cmd.setTarget(target),
		cmd.setUserName(userName),
		cmd.setReceiveState(options.ReceiveState),
	); err != nil {
		return ChangeTransportBoxStateCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeTransportBoxStateCommand) Validate() error {
	return c.guard.Validate(ErrChangeTransportBoxStateCommandIsNotConstructed)
}

func (c ChangeTransportBoxStateCommand) BoxID() int { return c.boxID }
func (c ChangeTransportBoxStateCommand) Target() transportbox.State { return c.target }
func (c ChangeTransportBoxStateCommand) UserName() string { return c.userName }
func (c ChangeTransportBoxStateCommand) Options() ChangeStateOptions { return c.options }

func (c *ChangeTransportBoxStateCommand) setBoxID(id int) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("box id is invalid", fmt.Errorf("%d is not greater than 0", id))
	}
	c.boxID = id
	return nil
}

func (c *ChangeTransportBoxStateCommand) setTarget(target transportbox.State) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}

func (c *ChangeTransportBoxStateCommand) setUserName(userName string) error {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return errs.NewValueIsRequiredError("userName")
	}
	c.userName = userName
	return nil
}

func (c *ChangeTransportBoxStateCommand) setReceiveState(s transportbox.State) error {
	switch s {
	case transportbox.Unknown:
		c.options.ReceiveState = transportbox.Stocked
	case transportbox.Stocked, transportbox.Closed:
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"receive state is invalid",
			fmt.Errorf("%s is not one of [%s, %s]", s, transportbox.Stocked, transportbox.Closed),
		)
	}
	return nil
}
