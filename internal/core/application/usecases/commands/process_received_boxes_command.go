package commands

import (
	"errors"

	"heblo/internal/pkg/guard"
)

var ErrProcessReceivedBoxesCommandIsNotConstructed = errors.New(
	"ProcessReceivedBoxesCommand must be created via NewProcessReceivedBoxesCommand constructor",
)

// ProcessReceivedBoxesCommand stocks up every box waiting in the Received state.
// This is a parameterless command run periodically by a background job.
type ProcessReceivedBoxesCommand struct {
	guard guard.ConstructorGuard
}

func NewProcessReceivedBoxesCommand() ProcessReceivedBoxesCommand {
	return ProcessReceivedBoxesCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c ProcessReceivedBoxesCommand) Validate() error {
	return c.guard.Validate(ErrProcessReceivedBoxesCommandIsNotConstructed)
}
