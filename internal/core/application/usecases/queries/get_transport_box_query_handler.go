package queries

import (
	"context"
	"database/sql"
	"errors"

	"heblo/internal/core/domain/model/kernel"
	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetTransportBoxQueryHandler reads a single box straight from the database.
type GetTransportBoxQueryHandler struct {
	db *gorm.DB
}

func NewGetTransportBoxQueryHandler(db *gorm.DB) GetTransportBoxQueryHandler {
	return GetTransportBoxQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError when the box does not exist.
// AllowedTransitions holds only transitions whose guard conditions pass for
// the box as stored.
func (h GetTransportBoxQueryHandler) Handle(
	ctx context.Context,
	query GetTransportBoxQuery,
) (*GetTransportBoxQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)
	box, err := h.loadBox(db, query.BoxID())
	if err != nil {
		return nil, err
	}

	if box.Items, err = h.loadItems(db, box.ID); err != nil {
		return nil, err
	}
	if box.StateLog, err = h.loadStateLog(db, box.ID); err != nil {
		return nil, err
	}
	if box.AllowedTransitions, err = allowedTransitions(box); err != nil {
		return nil, err
	}

	return box, nil
}

func (h GetTransportBoxQueryHandler) loadBox(db *gorm.DB, id int) (*GetTransportBoxQueryResponse, error) {
	var (
		box                 GetTransportBoxQueryResponse
		code, location      sql.NullString
		state, receiveState string
	)

	err := db.Raw(`
		SELECT
			id,
			code,
			state,
			default_receive_state,
			location,
			last_state_changed,
			created_at,
			created_by,
			updated_at,
			updated_by
		FROM transport_boxes
		WHERE id = ?
	`, id).Row().Scan(
		&box.ID,
		&code,
		&state,
		&receiveState,
		&location,
		&box.LastStateChanged,
		&box.CreatedAt,
		&box.CreatedBy,
		&box.UpdatedAt,
		&box.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewObjectNotFoundError("transport box", id)
		}
		return nil, err
	}

	box.Code = code.String
	box.Location = location.String
	if box.State, err = transportbox.ParseState(state); err != nil {
		return nil, err
	}
	if box.DefaultReceiveState, err = transportbox.ParseState(receiveState); err != nil {
		return nil, err
	}

	return &box, nil
}

func (h GetTransportBoxQueryHandler) loadItems(db *gorm.DB, boxID int) ([]TransportBoxItemResponse, error) {
	rows, err := db.Raw(`
		SELECT id, product_code, product_name, amount, date_added, user_added
		FROM transport_box_items
		WHERE box_id = ?
		ORDER BY id
	`, boxID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]TransportBoxItemResponse, 0)
	for rows.Next() {
		var item TransportBoxItemResponse
		if err = rows.Scan(
			&item.ID,
			&item.ProductCode,
			&item.ProductName,
			&item.Amount,
			&item.DateAdded,
			&item.UserAdded,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (h GetTransportBoxQueryHandler) loadStateLog(db *gorm.DB, boxID int) ([]StateLogResponse, error) {
	rows, err := db.Raw(`
		SELECT seq, state, changed_at, user_name, description
		FROM transport_box_state_logs
		WHERE box_id = ?
		ORDER BY seq
	`, boxID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]StateLogResponse, 0)
	for rows.Next() {
		var (
			entry StateLogResponse
			state string
		)
		if err = rows.Scan(&entry.ID, &state, &entry.Timestamp, &entry.UserName, &entry.Description); err != nil {
			return nil, err
		}
		if entry.State, err = transportbox.ParseState(state); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// allowedTransitions evaluates the transition guards against the box as read.
func allowedTransitions(resp *GetTransportBoxQueryResponse) ([]TransitionResponse, error) {
	items := make([]*transportbox.TransportBoxItem, 0, len(resp.Items))
	for _, row := range resp.Items {
		amount, err := kernel.NewAmount(row.Amount)
		if err != nil {
			return nil, err
		}
		item, err := transportbox.NewTransportBoxItem(
			row.ID, row.ProductCode, row.ProductName, amount, row.DateAdded, row.UserAdded,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	box, err := transportbox.RestoreTransportBox(transportbox.Snapshot{
		ID:                  resp.ID,
		Code:                resp.Code,
		State:               resp.State,
		DefaultReceiveState: resp.DefaultReceiveState,
		Location:            resp.Location,
		CreatedBy:           resp.CreatedBy,
		Items:               items,
	})
	if err != nil {
		return nil, err
	}

	available := box.AvailableTransitions()
	transitions := make([]TransitionResponse, 0, len(available))
	for _, t := range available {
		transitions = append(transitions, toTransitionResponse(t))
	}
	return transitions, nil
}
