package appointment

import (
	"context"
	"log/slog"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ActorID uint

	ClientID       uint
	ProfessionalID uint
	ServiceID      uint

	StartAt time.Time
	Notes   string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	validator *Validator
	repo      domain.Repository
	audit     audit.Recorder
	log       *slog.Logger
}

func NewCreateAppointment(
	validator *Validator,
	repo domain.Repository,
	audit audit.Recorder,
	log *slog.Logger,
) *CreateAppointment {
	return &CreateAppointment{
		validator: validator,
		repo:      repo,
		audit:     audit,
		log:       log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if err := checkNotes(in.Notes); err != nil {
		return nil, err
	}

	plan, err := uc.validator.validateBooking(ctx, booking{
		ClientID:       in.ClientID,
		ProfessionalID: in.ProfessionalID,
		ServiceID:      in.ServiceID,
		StartAt:        in.StartAt,
	})
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		ClientID:       in.ClientID,
		ProfessionalID: in.ProfessionalID,
		ServiceID:      in.ServiceID,
		CreatedBy:      in.ActorID,
		StartAt:        in.StartAt,
		EndAt:          plan.EndAt,
		Status:         string(domain.InitialStatus()),
		Notes:          in.Notes,
	}

	// Overlap is re-checked under the professional's lock.
	if err := uc.repo.SaveChecked(ctx, ap, plan.Window); err != nil {
		return nil, err
	}

	uc.log.InfoContext(ctx, "appointment created",
		slog.Uint64("appointment_id", uint64(ap.ID)),
		slog.Uint64("professional_id", uint64(ap.ProfessionalID)),
		slog.Time("start_at", ap.StartAt),
	)

	uc.audit.Record(audit.Event{
		UserID:   actor(in.ActorID),
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		After:    ap,
	})

	return ap, nil
}

func actor(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
