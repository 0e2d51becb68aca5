// Package catalogsource loads catalog rows from the PostgreSQL tables fed by
// transport boxes and the stock-up ledger. Each source keeps the rows of its
// last successful refresh; a failed refresh leaves them in place.
package catalogsource

import (
	"context"
	"slices"
	"sync"

	"heblo/internal/core/application/catalog"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type loader func(ctx context.Context, db *gorm.DB) ([]catalog.Row, error)

type querySource struct {
	name string
	db   *gorm.DB
	load loader

	mu   sync.RWMutex
	rows []catalog.Row
}

func (s *querySource) Name() string {
	return s.name
}

func (s *querySource) Refresh(ctx context.Context) error {
	rows, err := s.load(ctx, s.db.WithContext(ctx))
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rows = rows
	s.mu.Unlock()
	return nil
}

func (s *querySource) Rows() []catalog.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.rows)
}

type productAmount struct {
	ProductCode string
	ProductName string
	State       string
	Amount      decimal.Decimal
}
