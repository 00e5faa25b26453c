package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type ListFilter struct {
	ProfessionalID uint
	ClientID       uint
	ServiceID      uint
	Status         Status
	From           *time.Time
	To             *time.Time
}

type Page struct {
	Number int
	Size   int
}

func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = 20
	}
	if p.Size > 100 {
		p.Size = 100
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

type Repository interface {
	// -------- Appointment (read) --------
	Get(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	List(
		ctx context.Context,
		filter ListFilter,
		page Page,
	) ([]models.Appointment, int64, error)

	// FindOverlapping returns non-cancelled appointments of the
	// professional intersecting window, ignoring excludeID.
	FindOverlapping(
		ctx context.Context,
		professionalID uint,
		window Window,
		excludeID uint,
	) ([]models.Appointment, error)

	ListActiveForProfessional(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	HasActiveForClientService(
		ctx context.Context,
		clientID uint,
		serviceID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
	) (bool, error)

	// FindActiveForClient returns the first non-cancelled appointment of
	// the client in [start, end), or nil.
	FindActiveForClient(
		ctx context.Context,
		clientID uint,
		start time.Time,
		end time.Time,
	) (*models.Appointment, error)

	// -------- Appointment (write) --------

	// SaveChecked creates or updates ap after re-running the overlap
	// query for window under a per-professional lock. An existing row is
	// only written while its stored status still equals ap.Status.
	SaveChecked(
		ctx context.Context,
		ap *models.Appointment,
		window Window,
	) error

	// Update writes the editable fields of ap while its stored status
	// still equals ap.Status.
	Update(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// Transition writes the status fields of ap only if the stored
	// status is still from.
	Transition(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) error
}
