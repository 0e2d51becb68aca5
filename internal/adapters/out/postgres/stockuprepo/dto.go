// Package stockuprepo stores the stock-up ledger: one row per product moved
// into the warehouse from a received transport box.
package stockuprepo

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockUpOperationDTO is a ledger row. The (box_id, product_code) pair is unique,
// which makes recording a box idempotent.
type StockUpOperationDTO struct {
	ID          uint            `gorm:"primaryKey"`
	BoxID       int             `gorm:"not null;uniqueIndex:idx_stock_up_box_product"`
	ProductCode string          `gorm:"size:64;not null;uniqueIndex:idx_stock_up_box_product;index"`
	ProductName string          `gorm:"size:256"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	CreatedAt   time.Time       `gorm:"autoCreateTime:false;not null"`
}

func (StockUpOperationDTO) TableName() string {
	return "stock_up_operations"
}
