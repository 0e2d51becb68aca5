package stockuprepo

import (
	"context"
	"time"

	"heblo/internal/core/domain/services"
	"heblo/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockUpRepository implements ports.StockUpRepository using GORM.
type GormStockUpRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id int, aggregate any)
}

func NewGormStockUpRepository(db *gorm.DB, tracker aggregateTracker) *GormStockUpRepository {
	return &GormStockUpRepository{
		db:      db,
		tracker: tracker,
	}
}

// Record inserts the lines of a box. Lines already recorded for the box are
// left untouched.
func (r *GormStockUpRepository) Record(
	ctx context.Context,
	boxID int,
	lines []services.StockUpLine,
	date time.Time,
) error {
	if boxID <= 0 {
		return errs.NewValueIsInvalidError("box id")
	}
	if len(lines) == 0 {
		return nil
	}

	dtos := make([]StockUpOperationDTO, 0, len(lines))
	for _, line := range lines {
		if err := line.Amount.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, StockUpOperationDTO{
			BoxID:       boxID,
			ProductCode: line.ProductCode,
			ProductName: line.ProductName,
			Amount:      line.Amount.Decimal(),
			CreatedAt:   date,
		})
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "box_id"}, {Name: "product_code"}},
			DoNothing: true,
		}).
		Create(&dtos)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		r.tracker.TrackAggregate(boxID, lines)
	}
	return nil
}
