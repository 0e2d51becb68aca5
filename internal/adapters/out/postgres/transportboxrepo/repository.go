package transportboxrepo

import (
	"context"
	"errors"

	"heblo/internal/core/domain/model/kernel"
	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTransportBoxRepository implements ports.TransportBoxRepository using GORM.
type GormTransportBoxRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id int, aggregate any)
}

func NewGormTransportBoxRepository(db *gorm.DB, tracker aggregateTracker) *GormTransportBoxRepository {
	return &GormTransportBoxRepository{
		db:      db,
		tracker: tracker,
	}
}

// NextID draws the next value of the box id sequence.
func (r *GormTransportBoxRepository) NextID(ctx context.Context) (int, error) {
	var id int
	if err := r.db.WithContext(ctx).Raw("SELECT nextval('transport_boxes_id_seq')").Scan(&id).Error; err != nil {
		return 0, err
	}
	return id, nil
}

// Add inserts a new box with its items and state log.
func (r *GormTransportBoxRepository) Add(ctx context.Context, box *transportbox.TransportBox) error {
	if err := box.Validate(); err != nil {
		return err
	}

	dto, items, logs := fromDomain(box)
	db := r.db.WithContext(ctx)
	if err := db.Create(&dto).Error; err != nil {
		return err
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			return err
		}
	}
	if len(logs) > 0 {
		if err := db.Create(&logs).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(box.ID(), box)
	return nil
}

// Update rewrites the box row, replaces its items and appends state log
// entries newer than the last stored one.
func (r *GormTransportBoxRepository) Update(ctx context.Context, box *transportbox.TransportBox) error {
	if err := box.Validate(); err != nil {
		return err
	}

	dto, items, logs := fromDomain(box)
	db := r.db.WithContext(ctx)

	result := db.Model(&TransportBoxDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id", "created_at", "created_by").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("transport box", dto.ID)
	}

	if err := db.Where("box_id = ?", dto.ID).Delete(&TransportBoxItemDTO{}).Error; err != nil {
		return err
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			return err
		}
	}

	var lastSeq int
	if err := db.Model(&TransportBoxStateLogDTO{}).
		Where("box_id = ?", dto.ID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&lastSeq).Error; err != nil {
		return err
	}

	fresh := make([]TransportBoxStateLogDTO, 0, len(logs))
	for _, entry := range logs {
		if entry.Seq > lastSeq {
			fresh = append(fresh, entry)
		}
	}
	if len(fresh) > 0 {
		if err := db.Create(&fresh).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(box.ID(), box)
	return nil
}

// Get loads a box with SELECT ... FOR UPDATE so concurrent state changes
// to the same box serialize on the row lock.
func (r *GormTransportBoxRepository) Get(ctx context.Context, id int) (*transportbox.TransportBox, error) {
	if id <= 0 {
		return nil, errs.NewValueIsInvalidError("box id")
	}

	db := r.db.WithContext(ctx)

	var dto TransportBoxDTO
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("transport box", id)
		}
		return nil, err
	}

	var items []TransportBoxItemDTO
	if err := db.Where("box_id = ?", id).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}

	var logs []TransportBoxStateLogDTO
	if err := db.Where("box_id = ?", id).Order("seq").Find(&logs).Error; err != nil {
		return nil, err
	}

	return toDomain(dto, items, logs)
}

// GetIDsInState returns ids of boxes in state, least recently changed first.
func (r *GormTransportBoxRepository) GetIDsInState(ctx context.Context, state transportbox.State) ([]int, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}

	var ids []int
	if err := r.db.WithContext(ctx).
		Model(&TransportBoxDTO{}).
		Where("state = ?", state.String()).
		Order("last_state_changed, id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}

// IsCodeInUse checks whether an active box other than excludeID carries code.
func (r *GormTransportBoxRepository) IsCodeInUse(ctx context.Context, code kernel.BoxCode, excludeID int) (bool, error) {
	if err := code.Validate(); err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&TransportBoxDTO{}).
		Where("code = ? AND id <> ?", code.String(), excludeID).
		Where("state NOT IN ?", []string{transportbox.New.String(), transportbox.Closed.String()}).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
