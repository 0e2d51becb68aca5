package commands

import (
	"errors"
	"fmt"
	"strings"

	"heblo/internal/pkg/errs"
	"heblo/internal/pkg/guard"
)

var ErrRemoveTransportBoxItemCommandIsNotConstructed = errors.New(
	"RemoveTransportBoxItemCommand must be created via NewRemoveTransportBoxItemCommand constructor",
)

// RemoveTransportBoxItemCommand deletes an item from an Opened box.
type RemoveTransportBoxItemCommand struct { //nolint:recvcheck //using for validation
	boxID    int
	itemID   int
	userName string

	guard guard.ConstructorGuard
}

func NewRemoveTransportBoxItemCommand(boxID, itemID int, userName string) (RemoveTransportBoxItemCommand, error) {
	cmd := RemoveTransportBoxItemCommand{
		guard: guard.NewConstructorGuard(),
	}

	var joined []error
	if boxID <= 0 {
		joined = append(joined, errs.NewValueIsInvalidErrorWithCause(
			"box id is invalid", fmt.Errorf("%d is not greater than 0", boxID)))
	}
	if itemID <= 0 {
		joined = append(joined, errs.NewValueIsInvalidErrorWithCause(
			"item id is invalid", fmt.Errorf("%d is not greater than 0", itemID)))
	}
	userName = strings.TrimSpace(userName)
	if userName == "" {
		joined = append(joined, errs.NewValueIsRequiredError("userName"))
	}
	if err := errors.Join(joined...); err != nil {
		return RemoveTransportBoxItemCommand{}, err
	}

	cmd.boxID = boxID
	cmd.itemID = itemID
	cmd.userName = userName
	return cmd, nil
}

func (c RemoveTransportBoxItemCommand) Validate() error {
	return c.guard.Validate(ErrRemoveTransportBoxItemCommandIsNotConstructed)
}

func (c RemoveTransportBoxItemCommand) BoxID() int { return c.boxID }
func (c RemoveTransportBoxItemCommand) ItemID() int { return c.itemID }
func (c RemoveTransportBoxItemCommand) UserName() string { return c.userName }
