package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type UpdateAppointmentStatus struct {
	repo  domain.Repository
	audit audit.Recorder
	now   func() time.Time
}

func NewUpdateAppointmentStatus(
	repo domain.Repository,
	audit audit.Recorder,
	now func() time.Time,
) *UpdateAppointmentStatus {
	return &UpdateAppointmentStatus{repo: repo, audit: audit, now: now}
}

func (uc *UpdateAppointmentStatus) Execute(
	ctx context.Context,
	actorID uint,
	id uint,
	to domain.Status,
) (*models.Appointment, error) {

	ap, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *ap

	if err := domain.Transition(ap, to, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.repo.Transition(ctx, ap, domain.Status(before.Status)); err != nil {
		return nil, err
	}

	uc.audit.Record(audit.Event{
		UserID:   actor(actorID),
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Before:   map[string]string{"status": before.Status},
		After:    map[string]string{"status": ap.Status},
	})

	return ap, nil
}

// ======================================================
// Cancel
// ======================================================

const maxReasonLen = 255

type CancelAppointment struct {
	repo  domain.Repository
	audit audit.Recorder
	now   func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	audit audit.Recorder,
	now func() time.Time,
) *CancelAppointment {
	return &CancelAppointment{repo: repo, audit: audit, now: now}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actorID uint,
	id uint,
	reason string,
) (*models.Appointment, error) {

	if len([]rune(reason)) > maxReasonLen {
		return nil, httperr.InvalidInputErr("cancel_reason_too_long", map[string]any{"max": maxReasonLen})
	}

	ap, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *ap

	if err := domain.Cancel(ap, reason, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.repo.Transition(ctx, ap, domain.Status(before.Status)); err != nil {
		return nil, err
	}

	uc.audit.Record(audit.Event{
		UserID:   actor(actorID),
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Before:   before,
		After:    ap,
	})

	return ap, nil
}
