package services

import (
	"fmt"
	"time"

	"heblo/internal/core/domain/model/kernel"
	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/pkg/errs"
)

// StockUpLine is the total amount of one product to add to stock from a received box.
type StockUpLine struct {
	ProductCode string
	ProductName string
	Amount      kernel.Amount
}

// ReceiveFinalizer is a stateless domain service used by the received-box
// processing job.
//
// Workflow for each box in the Received state:
//   - Plan computes the stock-up lines from the packed items
//   - the caller records the lines in the stock-up ledger
//   - Complete moves the box to its DefaultReceiveState
//   - if anything fails, Fail moves the box to Error with the failure message
//
// Example usage:
//
//	finalizer := services.NewReceiveFinalizer()
//	lines, err := finalizer.Plan(box)
//	if err != nil {
//	    finalizer.Fail(box, time.Now(), "System", err)
//	    return
//	}
//	// record lines...
//	err = finalizer.Complete(box, time.Now(), "System")
type ReceiveFinalizer struct{}

// NewReceiveFinalizer creates a new ReceiveFinalizer instance.
func NewReceiveFinalizer() ReceiveFinalizer {
	return ReceiveFinalizer{}
}

// Plan sums item amounts per product code. Lines keep the order in which each product
// first appears in the box.
//
// Returns:
//   - []StockUpLine: one line per product code
//   - error: if the box is invalid or not in the Received state
func (f ReceiveFinalizer) Plan(box *transportbox.TransportBox) ([]StockUpLine, error) {
	if err := f.validateReceived(box); err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var lines []StockUpLine
	for _, item := range box.Items() {
		if i, ok := index[item.ProductCode()]; ok {
			lines[i].Amount = lines[i].Amount.Add(item.Amount())
			continue
		}
		index[item.ProductCode()] = len(lines)
		lines = append(lines, StockUpLine{
			ProductCode: item.ProductCode(),
			ProductName: item.ProductName(),
			Amount:      item.Amount(),
		})
	}

	return lines, nil
}

// Complete moves a received box to the state chosen when it was received:
// Stocked through ToPick, or Closed through Close.
func (f ReceiveFinalizer) Complete(box *transportbox.TransportBox, date time.Time, userName string) error {
	if err := f.validateReceived(box); err != nil {
		return err
	}

	switch box.DefaultReceiveState() {
	case transportbox.Closed:
		return box.Close(date, userName)
	default:
		return box.ToPick(date, userName)
	}
}

// Fail records cause on the box by moving it to the Error state.
func (f ReceiveFinalizer) Fail(box *transportbox.TransportBox, date time.Time, userName string, cause error) {
	message := "stock-up failed"
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	box.Error(date, userName, message)
}

func (f ReceiveFinalizer) validateReceived(box *transportbox.TransportBox) error {
	if err := box.Validate(); err != nil {
		return err
	}
	if box.State() != transportbox.Received {
		return errs.NewValueIsInvalidErrorWithCause(
			"box state is invalid",
			fmt.Errorf("box %d is %s, expected %s", box.ID(), box.State(), transportbox.Received),
		)
	}
	return nil
}
