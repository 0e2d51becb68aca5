// Package postgres provides the GORM-based Unit of Work.
//
// A unit of work wraps one database transaction and hands out repositories
// bound to it. Repositories report every aggregate they write back to the
// unit of work; after a successful Commit the catalog sources fed by those
// aggregates are invalidated, so the merged catalog never lags behind
// committed data and never sees rolled back writes.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//
//	box, err := uow.TransportBoxRepository().Get(ctx, id)
//	if err != nil {
//	    _ = uow.Rollback(ctx)
//	    return err
//	}
//	...
//	return uow.Commit(ctx)
package postgres

import (
	"context"
	"slices"

	"heblo/internal/adapters/out/postgres/stockuprepo"
	"heblo/internal/adapters/out/postgres/transportboxrepo"
	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/core/domain/services"
	"heblo/internal/core/ports"

	"gorm.io/gorm"
)

type trackedAggregate struct {
	ID        int
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db          *gorm.DB
	invalidator ports.CatalogInvalidator
}

// NewGormUnitOfWorkFactory creates a factory. invalidator may be nil, in which
// case commits do not notify the catalog.
func NewGormUnitOfWorkFactory(db *gorm.DB, invalidator ports.CatalogInvalidator) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, invalidator: invalidator}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		invalidator:       f.invalidator,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one transaction and tracks the aggregates written in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	invalidator       ports.CatalogInvalidator
	trackedAggregates []trackedAggregate
}

// Begin starts a transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit commits the transaction and then invalidates the catalog sources
// touched by it.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	uow.publishInvalidations(ctx)
	return nil
}

// Rollback discards the transaction and everything tracked in it.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) TransportBoxRepository() ports.TransportBoxRepository {
	return transportboxrepo.NewGormTransportBoxRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) StockUpRepository() ports.StockUpRepository {
	return stockuprepo.NewGormStockUpRepository(uow.conn(), uow)
}

// TrackAggregate is called by repositories after every successful write.
// Writes done outside a transaction are published immediately.
func (uow *GormUnitOfWork) TrackAggregate(id int, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
	if uow.tx == nil {
		uow.publishInvalidations(context.Background())
	}
}

// TouchedSources lists the catalog sources affected by the tracked aggregates.
func (uow *GormUnitOfWork) TouchedSources() []string {
	sources := make([]string, 0, 2)
	for _, tracked := range uow.trackedAggregates {
		source, ok := sourceOf(tracked.Aggregate)
		if ok && !slices.Contains(sources, source) {
			sources = append(sources, source)
		}
	}
	return sources
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) publishInvalidations(ctx context.Context) {
	sources := uow.TouchedSources()
	uow.trackedAggregates = uow.trackedAggregates[:0]
	if uow.invalidator == nil {
		return
	}
	for _, source := range sources {
		uow.invalidator.Invalidate(ctx, source)
	}
}

func sourceOf(aggregate any) (string, bool) {
	switch aggregate.(type) {
	case *transportbox.TransportBox:
		return ports.SourceTransportBoxes, true
	case []services.StockUpLine:
		return ports.SourceStockUp, true
	default:
		return "", false
	}
}
