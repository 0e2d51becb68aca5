// Package transportboxrepo persists transport box aggregates in PostgreSQL.
// A box is stored across three tables: the box row, its items and its
// append-only state log.
package transportboxrepo

import (
	"time"

	"heblo/internal/core/domain/model/kernel"
	"heblo/internal/core/domain/model/transportbox"

	"github.com/shopspring/decimal"
)

// TransportBoxDTO is the row of the transport_boxes table. The id column is
// backed by the transport_boxes_id_seq sequence used by NextID.
type TransportBoxDTO struct {
	ID                  int       `gorm:"primaryKey"`
	Code                *string   `gorm:"size:16;index"`
	State               string    `gorm:"size:16;not null;index"`
	DefaultReceiveState string    `gorm:"size:16;not null"`
	Location            *string   `gorm:"size:128"`
	LastStateChanged    time.Time `gorm:"not null"`
	CreatedAt           time.Time `gorm:"autoCreateTime:false;not null"`
	CreatedBy           string    `gorm:"size:128;not null"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime:false"`
	UpdatedBy           string    `gorm:"size:128"`
}

func (TransportBoxDTO) TableName() string {
	return "transport_boxes"
}

// TransportBoxItemDTO is one packed product line. The item id is scoped to its box.
type TransportBoxItemDTO struct {
	BoxID       int             `gorm:"primaryKey;autoIncrement:false"`
	ID          int             `gorm:"primaryKey;autoIncrement:false"`
	ProductCode string          `gorm:"size:64;not null;index"`
	ProductName string          `gorm:"size:256"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	DateAdded   time.Time       `gorm:"not null"`
	UserAdded   string          `gorm:"size:128"`
}

func (TransportBoxItemDTO) TableName() string {
	return "transport_box_items"
}

// TransportBoxStateLogDTO is one history entry. Rows are never updated.
type TransportBoxStateLogDTO struct {
	BoxID       int       `gorm:"primaryKey;autoIncrement:false"`
	Seq         int       `gorm:"primaryKey;autoIncrement:false"`
	State       string    `gorm:"size:16;not null"`
	ChangedAt   time.Time `gorm:"not null"`
	UserName    string    `gorm:"size:128"`
	Description string    `gorm:"size:1024"`
}

func (TransportBoxStateLogDTO) TableName() string {
	return "transport_box_state_logs"
}

// Models lists every table owned by this package, in migration order.
func Models() []any {
	return []any{&TransportBoxDTO{}, &TransportBoxItemDTO{}, &TransportBoxStateLogDTO{}}
}

func fromDomain(box *transportbox.TransportBox) (TransportBoxDTO, []TransportBoxItemDTO, []TransportBoxStateLogDTO) {
	dto := TransportBoxDTO{
		ID:                  box.ID(),
		Code:                optional(box.Code().String()),
		State:               box.State().String(),
		DefaultReceiveState: box.DefaultReceiveState().String(),
		Location:            optional(box.Location()),
		LastStateChanged:    box.LastStateChanged(),
		CreatedAt:           box.CreatedAt(),
		CreatedBy:           box.CreatedBy(),
		UpdatedAt:           box.UpdatedAt(),
		UpdatedBy:           box.UpdatedBy(),
	}

	items := make([]TransportBoxItemDTO, 0, len(box.Items()))
	for _, item := range box.Items() {
		items = append(items, TransportBoxItemDTO{
			BoxID:       box.ID(),
			ID:          item.ID(),
			ProductCode: item.ProductCode(),
			ProductName: item.ProductName(),
			Amount:      item.Amount().Decimal(),
			DateAdded:   item.DateAdded(),
			UserAdded:   item.UserAdded(),
		})
	}

	logs := make([]TransportBoxStateLogDTO, 0, len(box.StateLog()))
	for _, entry := range box.StateLog() {
		logs = append(logs, TransportBoxStateLogDTO{
			BoxID:       box.ID(),
			Seq:         entry.ID(),
			State:       entry.State().String(),
			ChangedAt:   entry.Timestamp(),
			UserName:    entry.UserName(),
			Description: entry.Description(),
		})
	}

	return dto, items, logs
}

func toDomain(
	dto TransportBoxDTO,
	itemDTOs []TransportBoxItemDTO,
	logDTOs []TransportBoxStateLogDTO,
) (*transportbox.TransportBox, error) {
	state, err := transportbox.ParseState(dto.State)
	if err != nil {
		return nil, err
	}

	receiveState, err := transportbox.ParseState(dto.DefaultReceiveState)
	if err != nil {
		return nil, err
	}

	items := make([]*transportbox.TransportBoxItem, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		amount, amountErr := kernel.NewAmount(itemDTO.Amount)
		if amountErr != nil {
			return nil, amountErr
		}

		item, itemErr := transportbox.NewTransportBoxItem(
			itemDTO.ID, itemDTO.ProductCode, itemDTO.ProductName, amount, itemDTO.DateAdded, itemDTO.UserAdded,
		)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	stateLog := make([]transportbox.StateLog, 0, len(logDTOs))
	for _, logDTO := range logDTOs {
		logState, stateErr := transportbox.ParseState(logDTO.State)
		if stateErr != nil {
			return nil, stateErr
		}
		stateLog = append(stateLog, transportbox.RestoreStateLog(
			logDTO.Seq, logState, logDTO.ChangedAt, logDTO.UserName, logDTO.Description,
		))
	}

	return transportbox.RestoreTransportBox(transportbox.Snapshot{
		ID:                  dto.ID,
		Code:                deref(dto.Code),
		State:               state,
		DefaultReceiveState: receiveState,
		Location:            deref(dto.Location),
		LastStateChanged:    dto.LastStateChanged,
		CreatedAt:           dto.CreatedAt,
		CreatedBy:           dto.CreatedBy,
		UpdatedAt:           dto.UpdatedAt,
		UpdatedBy:           dto.UpdatedBy,
		Items:               items,
		StateLog:            stateLog,
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
