package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// UpdateAppointmentInput carries only the fields being changed.
type UpdateAppointmentInput struct {
	ActorID uint
	ID      uint

	StartAt        *time.Time
	ProfessionalID *uint
	ServiceID      *uint
	Notes          *string
}

type UpdateAppointment struct {
	validator *Validator
	repo      domain.Repository
	audit     audit.Recorder
}

func NewUpdateAppointment(
	validator *Validator,
	repo domain.Repository,
	audit audit.Recorder,
) *UpdateAppointment {
	return &UpdateAppointment{
		validator: validator,
		repo:      repo,
		audit:     audit,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanEdit(domain.Status(ap.Status)); err != nil {
		return nil, err
	}
	before := *ap

	if in.Notes != nil {
		if err := checkNotes(*in.Notes); err != nil {
			return nil, err
		}
		ap.Notes = *in.Notes
	}

	rescheduled := false
	if in.StartAt != nil && !in.StartAt.Equal(ap.StartAt) {
		ap.StartAt = *in.StartAt
		rescheduled = true
	}
	if in.ProfessionalID != nil && *in.ProfessionalID != ap.ProfessionalID {
		ap.ProfessionalID = *in.ProfessionalID
		rescheduled = true
	}
	if in.ServiceID != nil && *in.ServiceID != ap.ServiceID {
		ap.ServiceID = *in.ServiceID
		rescheduled = true
	}

	if rescheduled {
		plan, err := uc.validator.validateBooking(ctx, booking{
			ClientID:       ap.ClientID,
			ProfessionalID: ap.ProfessionalID,
			ServiceID:      ap.ServiceID,
			StartAt:        ap.StartAt,
			ExcludeID:      ap.ID,
		})
		if err != nil {
			return nil, err
		}
		ap.EndAt = plan.EndAt

		if err := uc.repo.SaveChecked(ctx, ap, plan.Window); err != nil {
			return nil, err
		}
	} else if err := uc.repo.Update(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Record(audit.Event{
		UserID:   actor(in.ActorID),
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Before:   before,
		After:    ap,
	})

	return ap, nil
}
