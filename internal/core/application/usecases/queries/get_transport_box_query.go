package queries

import (
	"errors"
	"time"

	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/pkg/errs"
	"heblo/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetTransportBoxQueryIsNotConstructed = errors.New(
		"GetTransportBoxQuery must be created via NewGetTransportBoxQuery constructor",
	)
)

// GetTransportBoxQuery loads one box with its items, history and the
// transitions currently open to it.
//
// Example:
//
//	query, err := NewGetTransportBoxQuery(42)
//	if err != nil {
//	    return err
//	}
//	box, err := handler.Handle(ctx, query)
type GetTransportBoxQuery struct {
	boxID int
	guard guard.ConstructorGuard
}

func NewGetTransportBoxQuery(boxID int) (GetTransportBoxQuery, error) {
	if boxID <= 0 {
		return GetTransportBoxQuery{}, errs.NewValueIsInvalidError("box id")
	}

	return GetTransportBoxQuery{boxID: boxID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetTransportBoxQuery) Validate() error {
	return q.guard.Validate(ErrGetTransportBoxQueryIsNotConstructed)
}

func (q GetTransportBoxQuery) BoxID() int {
	return q.boxID
}

// TransportBoxItemResponse is one packed product line.
type TransportBoxItemResponse struct {
	ID          int
	ProductCode string
	ProductName string
	Amount      decimal.Decimal
	DateAdded   time.Time
	UserAdded   string
}

// StateLogResponse is one history entry.
type StateLogResponse struct {
	ID          int
	State       transportbox.State
	Timestamp   time.Time
	UserName    string
	Description string
}

// TransitionResponse describes one edge of the transition table.
type TransitionResponse struct {
	Target      transportbox.State
	Type        transportbox.TransitionType
	SystemOnly  bool
	Conditional bool
}

type GetTransportBoxQueryResponse struct {
	ID                  int
	Code                string
	State               transportbox.State
	DefaultReceiveState transportbox.State
	Location            string
	LastStateChanged    time.Time
	CreatedAt           time.Time
	CreatedBy           string
	UpdatedAt           time.Time
	UpdatedBy           string
	Items               []TransportBoxItemResponse
	StateLog            []StateLogResponse
	AllowedTransitions  []TransitionResponse
}

func toTransitionResponse(t transportbox.Transition) TransitionResponse {
	return TransitionResponse{
		Target:      t.Target,
		Type:        t.Type,
		SystemOnly:  t.SystemOnly,
		Conditional: t.Condition != nil,
	}
}
