package ports

import (
	"context"
	"time"
)

// Catalog source names published on invalidation.
const (
	SourceTransportBoxes = "transport-boxes"
	SourceStockUp        = "stock-up"
)

// CatalogInvalidator announces that the data behind a catalog source changed.
// Delivery is fire-and-forget: failures are logged by the implementation.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context, source string)
}

// MergeFunc rebuilds the merged catalog from the loaded sources.
type MergeFunc func(ctx context.Context) error

// MergeScheduler coalesces source invalidations into debounced catalog merges.
type MergeScheduler interface {
	// SetMergeCallback registers the function run when a merge fires.
	SetMergeCallback(fn MergeFunc)

	// ScheduleMerge records an invalidation of source and (re)arms the debounce timer.
	ScheduleMerge(source string)

	// IsMergeInProgress reports whether the merge callback is currently running.
	IsMergeInProgress() bool

	// HasPendingMerge reports whether a debounce timer is armed and has not fired yet.
	HasPendingMerge() bool

	// LastMergeTime returns the completion time of the last successful merge.
	LastMergeTime() time.Time

	// WaitForCurrentMerge blocks until the in-flight merge, if any, completes.
	WaitForCurrentMerge(ctx context.Context) error
}
