package ports

import (
	"context"
	"time"

	"heblo/internal/core/domain/services"
)

// StockUpRepository records the stock-up ledger written when received boxes are processed.
type StockUpRepository interface {
	// Record stores one ledger row per line. Recording the same box and product twice
	// is a no-op, so reprocessing a box cannot double its stock.
	Record(ctx context.Context, boxID int, lines []services.StockUpLine, date time.Time) error
}
