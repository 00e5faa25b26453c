package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type AvailabilityGormRepository struct {
	db *gorm.DB
}

func NewAvailabilityGormRepository(db *gorm.DB) *AvailabilityGormRepository {
	return &AvailabilityGormRepository{db: db}
}

func (r *AvailabilityGormRepository) Get(
	ctx context.Context,
	professionalID uint,
	serviceID uint,
) (*models.Availability, error) {

	var av models.Availability
	err := r.db.WithContext(ctx).
		Where("professional_id = ? AND service_id = ?", professionalID, serviceID).
		First(&av).Error
	if err != nil {
		if isNotFound(err) {
			return nil, httperr.NotFoundErr("availability_not_found")
		}
		return nil, fmt.Errorf("get availability %d/%d: %w", professionalID, serviceID, err)
	}
	return &av, nil
}

func (r *AvailabilityGormRepository) ListForProfessional(
	ctx context.Context,
	professionalID uint,
) ([]models.Availability, error) {
	return listAvailability(r.db.WithContext(ctx), professionalID)
}

func listAvailability(db *gorm.DB, professionalID uint) ([]models.Availability, error) {
	var list []models.Availability
	if err := db.
		Where("professional_id = ?", professionalID).
		Order("service_id ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list availability of %d: %w", professionalID, err)
	}
	return list, nil
}

func (r *AvailabilityGormRepository) Upsert(
	ctx context.Context,
	av *models.Availability,
	validate func(others []models.Availability) error,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := advisoryLock(tx, lockAvailability, av.ProfessionalID); err != nil {
			return fmt.Errorf("lock professional %d: %w", av.ProfessionalID, err)
		}

		others, err := listAvailability(tx, av.ProfessionalID)
		if err != nil {
			return err
		}
		if validate != nil {
			if err := validate(others); err != nil {
				return err
			}
		}

		av.UpdatedAt = time.Now()
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "professional_id"}, {Name: "service_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"timezone", "weekly", "exceptions",
				"buffer_min", "duration_min", "price", "updated_at",
			}),
		}).Create(av).Error
		if err != nil {
			return fmt.Errorf("upsert availability: %w", err)
		}

		// On conflict the returned id may be zero; reload the stored row.
		return tx.
			Where("professional_id = ? AND service_id = ?", av.ProfessionalID, av.ServiceID).
			First(av).Error
	})
}

// Compile-time check
var _ domain.Repository = (*AvailabilityGormRepository)(nil)
