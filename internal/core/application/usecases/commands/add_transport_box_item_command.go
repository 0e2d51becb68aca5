package commands

import (
	"errors"
	"fmt"
	"strings"

	"heblo/internal/core/domain/model/kernel"
	"heblo/internal/pkg/errs"
	"heblo/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrAddTransportBoxItemCommandIsNotConstructed = errors.New(
	"AddTransportBoxItemCommand must be created via NewAddTransportBoxItemCommand constructor",
)

// AddTransportBoxItemCommand packs a product line into an Opened box.
type AddTransportBoxItemCommand struct { //nolint:recvcheck //using for validation
	boxID       int
	productCode string
	productName string
	amount      kernel.Amount
	userName    string

	guard guard.ConstructorGuard
}

func NewAddTransportBoxItemCommand(
	boxID int,
	productCode string,
	productName string,
	amount decimal.Decimal,
	userName string,
) (AddTransportBoxItemCommand, error) {
	cmd := AddTransportBoxItemCommand{
		productName: strings.TrimSpace(productName),
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBoxID(boxID),
		cmd.setProductCode(productCode),
		cmd.setAmount(amount),
		cmd.setUserName(userName),
	); err != nil {
		return AddTransportBoxItemCommand{}, err
	}

	return cmd, nil
}

func (c AddTransportBoxItemCommand) Validate() error {
	return c.guard.Validate(ErrAddTransportBoxItemCommandIsNotConstructed)
}

func (c AddTransportBoxItemCommand) BoxID() int { return c.boxID }
func (c AddTransportBoxItemCommand) ProductCode() string { return c.productCode }
func (c AddTransportBoxItemCommand) ProductName() string { return c.productName }
func (c AddTransportBoxItemCommand) Amount() kernel.Amount { return c.amount }
func (c AddTransportBoxItemCommand) UserName() string { return c.userName }

func (c *AddTransportBoxItemCommand) setBoxID(id int) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("box id is invalid", fmt.Errorf("%d is not greater than 0", id))
	}
	c.boxID = id
	return nil
}

func (c *AddTransportBoxItemCommand) setProductCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errs.NewValueIsRequiredError("productCode")
	}
	c.productCode = code
	return nil
}

func (c *AddTransportBoxItemCommand) setAmount(value decimal.Decimal) error {
	amount, err := kernel.NewAmount(value)
	if err != nil {
		return err
	}
	c.amount = amount
	return nil
}

func (c *AddTransportBoxItemCommand) setUserName(userName string) error {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return errs.NewValueIsRequiredError("userName")
	}
	c.userName = userName
	return nil
}
