package commands

import (
	"errors"
	"strings"

	"heblo/internal/pkg/errs"
	"heblo/internal/pkg/guard"
)

var ErrCreateTransportBoxCommandIsNotConstructed = errors.New(
	"CreateTransportBoxCommand must be created via NewCreateTransportBoxCommand constructor",
)

// CreateTransportBoxCommand requests a new, empty transport box.
//
// Example:
//
//	cmd, err := NewCreateTransportBoxCommand("alice")
//	if err != nil {
//	    return err
//	}
//	id, err := handler.Handle(ctx, cmd)
type CreateTransportBoxCommand struct { //nolint:recvcheck //using for validation
	userName string

	guard guard.ConstructorGuard
}

func NewCreateTransportBoxCommand(userName string) (CreateTransportBoxCommand, error) {
	cmd := CreateTransportBoxCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setUserName(userName); err != nil {
		return CreateTransportBoxCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateTransportBoxCommand) Validate() error {
	return c.guard.Validate(ErrCreateTransportBoxCommandIsNotConstructed)
}

func (c CreateTransportBoxCommand) UserName() string {
	return c.userName
}

func (c *CreateTransportBoxCommand) setUserName(userName string) error {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return errs.NewValueIsRequiredError("userName")
	}

	c.userName = userName
	return nil
}
