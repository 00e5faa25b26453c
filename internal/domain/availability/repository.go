package availability

import (
	"context"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type Repository interface {
	// Get returns a NotFound business error when no record exists.
	Get(
		ctx context.Context,
		professionalID uint,
		serviceID uint,
	) (*models.Availability, error)

	ListForProfessional(
		ctx context.Context,
		professionalID uint,
	) ([]models.Availability, error)

	// Upsert writes av keyed on (professional, service). validate runs
	// inside the same transaction, under a per-professional lock, with the
	// professional's other records; a non-nil error aborts the write.
	Upsert(
		ctx context.Context,
		av *models.Availability,
		validate func(others []models.Availability) error,
	) error
}
