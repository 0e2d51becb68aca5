package transportbox

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"heblo/internal/core/domain/model/kernel"
	"heblo/internal/pkg/errs"
	"heblo/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an item was not created via NewTransportBoxItem.
var ErrItemIsNotConstructed = errors.New("TransportBoxItem must be created via NewTransportBoxItem constructor")

// TransportBoxItem is one product line packed into a box. Items are immutable;
// a wrong line is deleted and added again.
type TransportBoxItem struct {
	id          int
	productCode string
	productName string
	amount      kernel.Amount
	dateAdded   time.Time
	userAdded   string
	guard       guard.ConstructorGuard
}

// NewTransportBoxItem creates an item. The id is scoped to the owning box.
//
// Parameters:
//   - id: box-scoped item number (must be positive)
//   - productCode: product identifier (required)
//   - productName: display name, may be empty
//   - amount: packed quantity
//   - dateAdded, userAdded: audit information
func NewTransportBoxItem(
	id int,
	productCode string,
	productName string,
	amount kernel.Amount,
	dateAdded time.Time,
	userAdded string,
) (*TransportBoxItem, error) {
	item := &TransportBoxItem{
		productName: strings.TrimSpace(productName),
		dateAdded:   dateAdded,
		userAdded:   userAdded,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setID(id),
		item.setProductCode(productCode),
		item.setAmount(amount),
	); err != nil {
		return nil, err
	}

	return item, nil
}

func (i *TransportBoxItem) Validate() error {
	if i == nil {
		return ErrItemIsNotConstructed
	}
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i *TransportBoxItem) ID() int { return i.id }
func (i *TransportBoxItem) ProductCode() string { return i.productCode }
func (i *TransportBoxItem) ProductName() string { return i.productName }
func (i *TransportBoxItem) Amount() kernel.Amount { return i.amount }
func (i *TransportBoxItem) DateAdded() time.Time { return i.dateAdded }
func (i *TransportBoxItem) UserAdded() string { return i.userAdded }

func (i *TransportBoxItem) setID(id int) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("item id is invalid", fmt.Errorf("%d is not greater than 0", id))
	}
	i.id = id
	return nil
}

func (i *TransportBoxItem) setProductCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errs.NewValueIsRequiredError("product code")
	}
	i.productCode = code
	return nil
}

func (i *TransportBoxItem) setAmount(amount kernel.Amount) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	i.amount = amount
	return nil
}
