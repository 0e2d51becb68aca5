// Package commands contains business operations that modify transport boxes.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"heblo/internal/core/ports"
)

// SystemUser is the actor recorded for transitions performed by background processing.
const SystemUser = "System"

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// TransportBoxRepoFactory provides access to the box repository within a transaction.
	TransportBoxRepoFactory interface {
		TransportBoxRepository() ports.TransportBoxRepository
	}

	// StockUpRepoFactory provides access to the stock-up ledger within a transaction.
	StockUpRepoFactory interface {
		StockUpRepository() ports.StockUpRepository
	}

	// TransportBoxUoW manages transactions for box-only operations.
	TransportBoxUoW interface {
		TxManager
		TransportBoxRepoFactory
	}

	// TransportBoxUoWFactory creates new box unit of work instances.
	TransportBoxUoWFactory interface {
		Create() TransportBoxUoW
	}

	// UoW manages transactions that write both boxes and the stock-up ledger.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   box, err := uow.TransportBoxRepository().Get(ctx, id)
	//   err = uow.StockUpRepository().Record(ctx, id, lines, now)
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		TransportBoxRepoFactory
		StockUpRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-repository operations.
	UoWFactory interface {
		Create() UoW
	}
)
