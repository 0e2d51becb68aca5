package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Created struct {
	ID int `json:"id"`
}

type ChangeStateRequest struct {
	State              string  `json:"state" validate:"required"`
	BoxCode            *string `json:"boxCode,omitempty"`
	ConfirmedBoxNumber *string `json:"confirmedBoxNumber,omitempty"`
	Location           *string `json:"location,omitempty" validate:"omitempty,max=128"`
	ReceiveState       *string `json:"receiveState,omitempty" validate:"omitempty,oneof=Stocked Closed"`
	Description        *string `json:"description,omitempty" validate:"omitempty,max=1024"`
}

type ChangeStateResponse struct {
	ID            int    `json:"id"`
	PreviousState string `json:"previousState"`
	State         string `json:"state"`
}

type AddItemRequest struct {
	ProductCode string          `json:"productCode" validate:"required,max=64"`
	ProductName string          `json:"productName" validate:"max=256"`
	Amount      decimal.Decimal `json:"amount"`
}

type TransportBoxItem struct {
	ID          int             `json:"id"`
	ProductCode string          `json:"productCode"`
	ProductName string          `json:"productName"`
	Amount      decimal.Decimal `json:"amount"`
	DateAdded   time.Time       `json:"dateAdded"`
	UserAdded   string          `json:"userAdded"`
}

type StateLogEntry struct {
	ID          int       `json:"id"`
	State       string    `json:"state"`
	Timestamp   time.Time `json:"timestamp"`
	User        string    `json:"user"`
	Description string    `json:"description,omitempty"`
}

type Transition struct {
	Target      string `json:"target"`
	Type        string `json:"type"`
	SystemOnly  bool   `json:"systemOnly"`
	Conditional bool   `json:"conditional"`
}

type TransitionList struct {
	State       string       `json:"state"`
	Transitions []Transition `json:"transitions"`
}

type TransportBox struct {
	ID                  int                `json:"id"`
	Code                string             `json:"code,omitempty"`
	State               string             `json:"state"`
	DefaultReceiveState string             `json:"defaultReceiveState"`
	Location            string             `json:"location,omitempty"`
	LastStateChanged    time.Time          `json:"lastStateChanged"`
	CreatedAt           time.Time          `json:"createdAt"`
	CreatedBy           string             `json:"createdBy"`
	UpdatedAt           time.Time          `json:"updatedAt"`
	UpdatedBy           string             `json:"updatedBy"`
	Items               []TransportBoxItem `json:"items"`
	StateLog            []StateLogEntry    `json:"stateLog"`
	AllowedTransitions  []Transition       `json:"allowedTransitions"`
}

type TransportBoxSummary struct {
	ID               int       `json:"id"`
	Code             string    `json:"code,omitempty"`
	State            string    `json:"state"`
	Location         string    `json:"location,omitempty"`
	ItemCount        int       `json:"itemCount"`
	LastStateChanged time.Time `json:"lastStateChanged"`
	CreatedAt        time.Time `json:"createdAt"`
	CreatedBy        string    `json:"createdBy"`
}

type TransportBoxPage struct {
	Items []TransportBoxSummary `json:"items"`
	Total int64                 `json:"total"`
}

type CatalogItem struct {
	ProductCode      string          `json:"productCode"`
	ProductName      string          `json:"productName"`
	InOpenedBoxes    decimal.Decimal `json:"inOpenedBoxes"`
	InTransit        decimal.Decimal `json:"inTransit"`
	InReserve        decimal.Decimal `json:"inReserve"`
	StockedFromBoxes decimal.Decimal `json:"stockedFromBoxes"`
}

type Catalog struct {
	Items    []CatalogItem `json:"items"`
	MergedAt *time.Time    `json:"mergedAt,omitempty"`
}

type MergeStatus struct {
	InProgress    bool       `json:"inProgress"`
	Pending       bool       `json:"pending"`
	LastMergeTime *time.Time `json:"lastMergeTime,omitempty"`
}

// UserParams carries the acting user of mutating operations.
type UserParams struct {
	XUserName string
}

type ListTransportBoxesParams struct {
	State  *string
	Code   *string
	Limit  *int
	Offset *int
}

type GetCatalogParams struct {
	ProductCode *string
}
