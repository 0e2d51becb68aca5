package queries

import (
	"context"
	"database/sql"

	"heblo/internal/core/domain/model/transportbox"

	"gorm.io/gorm"
)

// GetTransportBoxesQueryHandler lists boxes from the database.
type GetTransportBoxesQueryHandler struct {
	db *gorm.DB
}

func NewGetTransportBoxesQueryHandler(db *gorm.DB) GetTransportBoxesQueryHandler {
	return GetTransportBoxesQueryHandler{db: db}
}

func (h GetTransportBoxesQueryHandler) Handle(
	ctx context.Context,
	query GetTransportBoxesQuery,
) (*GetTransportBoxesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var state string
	if query.State() != transportbox.Unknown {
		state = query.State().String()
	}
	codePrefix := query.Code() + "%"

	db := h.db.WithContext(ctx)
	response := &GetTransportBoxesQueryResponse{Items: make([]TransportBoxSummary, 0)}

	if err := db.Raw(`
		SELECT COUNT(*)
		FROM transport_boxes b
		WHERE (@state = '' OR b.state = @state)
		  AND (@code = '' OR b.code LIKE @prefix)
	`, sql.Named("state", state), sql.Named("code", query.Code()), sql.Named("prefix", codePrefix)).
		Row().Scan(&response.Total); err != nil {
		return nil, err
	}

	rows, err := db.Raw(`
		SELECT
			b.id,
			COALESCE(b.code, ''),
			b.state,
			COALESCE(b.location, ''),
			(SELECT COUNT(*) FROM transport_box_items i WHERE i.box_id = b.id),
			b.last_state_changed,
			b.created_at,
			b.created_by
		FROM transport_boxes b
		WHERE (@state = '' OR b.state = @state)
		  AND (@code = '' OR b.code LIKE @prefix)
		ORDER BY b.id DESC
		LIMIT @limit OFFSET @offset
	`,
		sql.Named("state", state),
		sql.Named("code", query.Code()),
		sql.Named("prefix", codePrefix),
		sql.Named("limit", query.Limit()),
		sql.Named("offset", query.Offset()),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			summary  TransportBoxSummary
			rawState string
		)
		if err = rows.Scan(
			&summary.ID,
			&summary.Code,
			&rawState,
			&summary.Location,
			&summary.ItemCount,
			&summary.LastStateChanged,
			&summary.CreatedAt,
			&summary.CreatedBy,
		); err != nil {
			return nil, err
		}
		if summary.State, err = transportbox.ParseState(rawState); err != nil {
			return nil, err
		}
		response.Items = append(response.Items, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return response, nil
}
