package queries

import (
	"errors"
	"math"
	"strings"
	"time"

	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/pkg/errs"
	"heblo/internal/pkg/guard"
)

const (
	MinPageSize     = 1
	MaxPageSize     = 500
	DefaultPageSize = 50
)

var (
	ErrGetTransportBoxesQueryIsNotConstructed = errors.New(
		"GetTransportBoxesQuery must be created via NewGetTransportBoxesQuery constructor",
	)
)

// GetTransportBoxesQuery pages through boxes, newest first, optionally
// filtered by state and by code prefix.
type GetTransportBoxesQuery struct {
	state  transportbox.State
	code   string
	limit  int
	offset int
	guard  guard.ConstructorGuard
}

// NewGetTransportBoxesQuery builds a page request. An empty state or code
// disables that filter. limit must be within [MinPageSize, MaxPageSize].
func NewGetTransportBoxesQuery(state string, code string, limit int, offset int) (GetTransportBoxesQuery, error) {
	query := GetTransportBoxesQuery{
		code:   strings.ToUpper(strings.TrimSpace(code)),
		limit:  limit,
		offset: offset,
		guard:  guard.NewConstructorGuard(),
	}

	var stateErr error
	if strings.TrimSpace(state) != "" {
		query.state, stateErr = transportbox.ParseState(state)
	}

	var limitErr, offsetErr error
	if limit < MinPageSize || limit > MaxPageSize {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, MinPageSize, MaxPageSize)
	}
	if offset < 0 {
		offsetErr = errs.NewValueIsOutOfRangeError("offset", offset, 0, math.MaxInt32)
	}

	if err := errors.Join(stateErr, limitErr, offsetErr); err != nil {
		return GetTransportBoxesQuery{}, err
	}

	return query, nil
}

func (q GetTransportBoxesQuery) Validate() error {
	return q.guard.Validate(ErrGetTransportBoxesQueryIsNotConstructed)
}

// State returns the state filter, transportbox.Unknown when unset.
func (q GetTransportBoxesQuery) State() transportbox.State { return q.state }
func (q GetTransportBoxesQuery) Code() string { return q.code }
func (q GetTransportBoxesQuery) Limit() int { return q.limit }
func (q GetTransportBoxesQuery) Offset() int { return q.offset }

// TransportBoxSummary is one row of the box list.
type TransportBoxSummary struct {
	ID               int
	Code             string
	State            transportbox.State
	Location         string
	ItemCount        int
	LastStateChanged time.Time
	CreatedAt        time.Time
	CreatedBy        string
}

type GetTransportBoxesQueryResponse struct {
	Items []TransportBoxSummary
	Total int64
}
