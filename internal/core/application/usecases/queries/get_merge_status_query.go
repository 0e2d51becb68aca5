package queries

import (
	"context"
	"time"

	"heblo/internal/core/ports"
)

type GetMergeStatusQueryResponse struct {
	InProgress    bool
	Pending       bool
	LastMergeTime time.Time
}

// GetMergeStatusQueryHandler reports what the catalog merge scheduler is doing.
type GetMergeStatusQueryHandler struct {
	scheduler ports.MergeScheduler
}

func NewGetMergeStatusQueryHandler(scheduler ports.MergeScheduler) GetMergeStatusQueryHandler {
	return GetMergeStatusQueryHandler{scheduler: scheduler}
}

func (h GetMergeStatusQueryHandler) Handle(_ context.Context) GetMergeStatusQueryResponse {
	return GetMergeStatusQueryResponse{
		InProgress:    h.scheduler.IsMergeInProgress(),
		Pending:       h.scheduler.HasPendingMerge(),
		LastMergeTime: h.scheduler.LastMergeTime(),
	}
}
