package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type DeskGormRepository struct {
	db *gorm.DB
}

func NewDeskGormRepository(db *gorm.DB) *DeskGormRepository {
	return &DeskGormRepository{db: db}
}

// --------------------------------------------------
// Assignment
// --------------------------------------------------

func (r *DeskGormRepository) Assign(ctx context.Context, a *models.DeskAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := advisoryLock(tx, lockDesks, a.ReceptionistID); err != nil {
			return fmt.Errorf("lock receptionist %d: %w", a.ReceptionistID, err)
		}

		var released []models.DeskAssignment
		if err := tx.Model(&released).
			Clauses(clause.Returning{}).
			Where("receptionist_id = ? AND active = true", a.ReceptionistID).
			Where("NOT (location_id = ? AND desk_id = ?)", a.LocationID, a.DeskID).
			Updates(map[string]any{"active": false, "updated_at": a.LastSeenAt}).Error; err != nil {
			return fmt.Errorf("release previous desks: %w", err)
		}
		for i := range released {
			if err := insertOutbox(tx, queue.NewDeskEvent(queue.EventDeskReleased, &released[i], a.LastSeenAt)); err != nil {
				return err
			}
		}

		// takeover: the current holder of the desk loses it
		if err := advisoryLock(tx, lockDeskSlots, a.DeskID); err != nil {
			return fmt.Errorf("lock desk %d: %w", a.DeskID, err)
		}
		var holder models.DeskAssignment
		err := tx.
			Where("location_id = ? AND desk_id = ? AND active = true AND receptionist_id <> ?",
				a.LocationID, a.DeskID, a.ReceptionistID).
			Take(&holder).Error
		switch {
		case err == nil:
			holder.Active = false
			holder.UpdatedAt = a.LastSeenAt
			if err := insertOutbox(tx, queue.NewDeskEvent(queue.EventDeskReleased, &holder, a.LastSeenAt)); err != nil {
				return err
			}
		case !isNotFound(err):
			return fmt.Errorf("current holder of desk %d/%d: %w", a.LocationID, a.DeskID, err)
		}

		a.Active = true
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "location_id"}, {Name: "desk_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"receptionist_id", "active", "last_seen_at", "updated_at"}),
		}).Create(a).Error; err != nil {
			return fmt.Errorf("upsert desk %d/%d: %w", a.LocationID, a.DeskID, err)
		}

		return insertOutbox(tx, queue.NewDeskEvent(queue.EventDeskAssigned, a, a.LastSeenAt))
	})
}

func (r *DeskGormRepository) Release(
	ctx context.Context,
	locationID, deskID uint,
	at time.Time,
) (*models.DeskAssignment, error) {

	var released []models.DeskAssignment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&released).
			Clauses(clause.Returning{}).
			Where("location_id = ? AND desk_id = ? AND active = true", locationID, deskID).
			Updates(map[string]any{"active": false, "updated_at": at}).Error; err != nil {
			return fmt.Errorf("release desk %d/%d: %w", locationID, deskID, err)
		}
		if len(released) == 0 {
			return httperr.NotFoundErr("desk_not_assigned")
		}
		return insertOutbox(tx, queue.NewDeskEvent(queue.EventDeskReleased, &released[0], at))
	})
	if err != nil {
		return nil, err
	}
	return &released[0], nil
}

func (r *DeskGormRepository) Touch(ctx context.Context, locationID, deskID uint, at time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&models.DeskAssignment{}).
		Where("location_id = ? AND desk_id = ? AND active = true", locationID, deskID).
		Update("last_seen_at", at).Error; err != nil {
		return fmt.Errorf("touch desk %d/%d: %w", locationID, deskID, err)
	}
	return nil
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *DeskGormRepository) ActiveForReceptionist(
	ctx context.Context,
	locationID, receptionistID uint,
) (*models.DeskAssignment, error) {

	var a models.DeskAssignment
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND receptionist_id = ? AND active = true", locationID, receptionistID).
		First(&a).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("desk of receptionist %d: %w", receptionistID, err)
	}
	return &a, nil
}

func (r *DeskGormRepository) List(ctx context.Context, locationID uint, activeOnly bool) ([]models.DeskAssignment, error) {
	q := r.db.WithContext(ctx).Where("location_id = ?", locationID)
	if activeOnly {
		q = q.Where("active = true")
	}

	var list []models.DeskAssignment
	if err := q.Order("desk_id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list desks of %d: %w", locationID, err)
	}
	return list, nil
}

// --------------------------------------------------
// Maintenance
// --------------------------------------------------

func (r *DeskGormRepository) DeactivateStale(ctx context.Context, seenBefore, at time.Time) (int64, error) {
	var released []models.DeskAssignment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&released).
			Clauses(clause.Returning{}).
			Where("active = true AND last_seen_at < ?", seenBefore).
			Updates(map[string]any{"active": false, "updated_at": at}).Error; err != nil {
			return err
		}
		for i := range released {
			if err := insertOutbox(tx, queue.NewDeskEvent(queue.EventDeskReleased, &released[i], at)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("deactivate stale desks: %w", err)
	}
	return int64(len(released)), nil
}

// Compile-time check
var _ queue.DeskRepository = (*DeskGormRepository)(nil)
