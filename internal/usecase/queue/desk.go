package queue

import (
	"context"
	"log/slog"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// ======================================================
// Assign
// ======================================================

type AssignDeskInput struct {
	LocationID     uint
	DeskID         uint
	ReceptionistID uint
}

type AssignDesk struct {
	desks domain.DeskRepository
	clock Clock
	log   *slog.Logger
}

func NewAssignDesk(desks domain.DeskRepository, clock Clock, log *slog.Logger) *AssignDesk {
	return &AssignDesk{desks: desks, clock: clock, log: log}
}

func (uc *AssignDesk) Execute(ctx context.Context, in AssignDeskInput) (*models.DeskAssignment, error) {
	if in.LocationID == 0 || in.DeskID == 0 || in.ReceptionistID == 0 {
		return nil, httperr.InvalidInputErr("invalid_desk_assignment", map[string]any{
			"location_id":     in.LocationID,
			"desk_id":         in.DeskID,
			"receptionist_id": in.ReceptionistID,
		})
	}

	now := uc.clock.Now()
	a := &models.DeskAssignment{
		LocationID:     in.LocationID,
		DeskID:         in.DeskID,
		ReceptionistID: in.ReceptionistID,
		Active:         true,
		LastSeenAt:     now,
		UpdatedAt:      now,
	}
	if err := uc.desks.Assign(ctx, a); err != nil {
		return nil, err
	}

	uc.log.InfoContext(ctx, "desk assigned",
		slog.Uint64("location_id", uint64(a.LocationID)),
		slog.Uint64("desk_id", uint64(a.DeskID)),
		slog.Uint64("receptionist_id", uint64(a.ReceptionistID)),
	)
	return a, nil
}

// ======================================================
// Release / List
// ======================================================

type ReleaseDesk struct {
	desks domain.DeskRepository
	clock Clock
}

func NewReleaseDesk(desks domain.DeskRepository, clock Clock) *ReleaseDesk {
	return &ReleaseDesk{desks: desks, clock: clock}
}

func (uc *ReleaseDesk) Execute(ctx context.Context, locationID, deskID uint) (*models.DeskAssignment, error) {
	return uc.desks.Release(ctx, locationID, deskID, uc.clock.Now())
}

type ListDesks struct {
	desks domain.DeskRepository
}

func NewListDesks(desks domain.DeskRepository) *ListDesks {
	return &ListDesks{desks: desks}
}

func (uc *ListDesks) Execute(ctx context.Context, locationID uint, activeOnly bool) ([]models.DeskAssignment, error) {
	if locationID == 0 {
		return nil, httperr.InvalidInputErr("invalid_location", nil)
	}
	return uc.desks.List(ctx, locationID, activeOnly)
}
