// Package ports defines the contracts between the logistics core and its adapters:
// repositories, the unit of work, catalog invalidation and the merge scheduler.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"heblo/internal/core/domain/model/kernel"
	"heblo/internal/core/domain/model/transportbox"
)

// TransportBoxRepository defines the persistence contract for transport box aggregates.
type TransportBoxRepository interface {
	// NextID allocates a new box identifier from the database sequence.
	NextID(ctx context.Context) (int, error)

	// Add persists a new box aggregate together with its items and history.
	Add(ctx context.Context, box *transportbox.TransportBox) error

	// Update persists changes to an existing box. Items are replaced by the current
	// set; state log entries not yet stored are appended.
	Update(ctx context.Context, box *transportbox.TransportBox) error

	// Get loads a box and locks its row until the surrounding transaction ends.
	// Returns errs.ObjectNotFoundError when the box does not exist.
	Get(ctx context.Context, id int) (*transportbox.TransportBox, error)

	// GetIDsInState lists the identifiers of boxes in the given state, oldest first.
	GetIDsInState(ctx context.Context, state transportbox.State) ([]int, error)

	// IsCodeInUse reports whether another active box (not New, not Closed) holds code.
	// The box identified by excludeID is ignored.
	IsCodeInUse(ctx context.Context, code kernel.BoxCode, excludeID int) (bool, error)
}
