package availability

import (
	"context"
	"log/slog"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/directory"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type UpsertAvailabilityInput struct {
	ActorID        uint
	ProfessionalID uint
	ServiceID      uint

	Timezone    string
	Weekly      []models.WeeklyDay
	Exceptions  []models.DateException
	BufferMin   int
	DurationMin int
	Price       *float64
}

// ======================================================
// USE CASE
// ======================================================

type UpsertAvailability struct {
	repo      domain.Repository
	directory directory.Directory
	audit     audit.Recorder
	log       *slog.Logger
}

func NewUpsertAvailability(
	repo domain.Repository,
	dir directory.Directory,
	audit audit.Recorder,
	log *slog.Logger,
) *UpsertAvailability {
	return &UpsertAvailability{
		repo:      repo,
		directory: dir,
		audit:     audit,
		log:       log,
	}
}

func (uc *UpsertAvailability) Execute(
	ctx context.Context,
	in UpsertAvailabilityInput,
) (*models.Availability, error) {

	if _, err := uc.directory.FindActiveProfessional(ctx, in.ProfessionalID); err != nil {
		return nil, err
	}
	if _, err := uc.directory.FindActiveService(ctx, in.ServiceID); err != nil {
		return nil, err
	}

	offered, err := uc.directory.ServicesOffered(ctx, in.ProfessionalID)
	if err != nil {
		return nil, err
	}
	if !directory.Offers(offered, in.ServiceID) {
		return nil, httperr.PreconditionErr("service_not_offered")
	}

	av := &models.Availability{
		ProfessionalID: in.ProfessionalID,
		ServiceID:      in.ServiceID,
		Timezone:       in.Timezone,
		Weekly:         in.Weekly,
		Exceptions:     in.Exceptions,
		BufferMin:      in.BufferMin,
		DurationMin:    in.DurationMin,
		Price:          in.Price,
	}
	if av.Weekly == nil {
		av.Weekly = []models.WeeklyDay{}
	}
	if av.Exceptions == nil {
		av.Exceptions = []models.DateException{}
	}

	if err := domain.Normalize(av); err != nil {
		return nil, err
	}

	if err := uc.repo.Upsert(ctx, av, func(others []models.Availability) error {
		return domain.CheckCrossService(av, others)
	}); err != nil {
		return nil, err
	}

	uc.log.InfoContext(ctx, "availability saved",
		slog.Uint64("professional_id", uint64(av.ProfessionalID)),
		slog.Uint64("service_id", uint64(av.ServiceID)),
	)

	var actor *uint
	if in.ActorID != 0 {
		actor = &in.ActorID
	}
	uc.audit.Record(audit.Event{
		UserID:   actor,
		Action:   "availability_upserted",
		Entity:   "availability",
		EntityID: &av.ID,
		After:    av,
	})

	return av, nil
}
