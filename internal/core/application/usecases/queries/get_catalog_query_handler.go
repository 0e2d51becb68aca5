package queries

import (
	"context"
	"fmt"

	"heblo/internal/core/application/catalog"
	"heblo/internal/pkg/errs"
)

type mergeWaiter interface {
	WaitForCurrentMerge(ctx context.Context) error
}

type catalogSnapshotter interface {
	Snapshot() *catalog.Catalog
}

// GetCatalogQueryHandler serves reads from the merged catalog snapshot. A read
// that arrives while a merge runs waits for it, so callers never observe the
// snapshot that the running merge is about to replace.
type GetCatalogQueryHandler struct {
	scheduler mergeWaiter
	catalog   catalogSnapshotter
}

func NewGetCatalogQueryHandler(scheduler mergeWaiter, snapshots catalogSnapshotter) GetCatalogQueryHandler {
	return GetCatalogQueryHandler{scheduler: scheduler, catalog: snapshots}
}

func (h GetCatalogQueryHandler) Handle(ctx context.Context, query GetCatalogQuery) (*GetCatalogQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if err := h.scheduler.WaitForCurrentMerge(ctx); err != nil {
		return nil, fmt.Errorf("waiting for catalog merge: %w", err)
	}

	snapshot := h.catalog.Snapshot()
	response := &GetCatalogQueryResponse{MergedAt: snapshot.MergedAt()}

	if query.ProductCode() == "" {
		response.Items = snapshot.Items()
		return response, nil
	}

	item, ok := snapshot.Get(query.ProductCode())
	if !ok {
		return nil, errs.NewObjectNotFoundError("product", query.ProductCode())
	}
	response.Items = []catalog.Item{item}
	return response, nil
}
