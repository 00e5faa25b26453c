package availability

import (
	"context"
	"time"

	appointment "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/holiday"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

// ======================================================
// Get
// ======================================================

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(ctx context.Context, professionalID, serviceID uint) (*models.Availability, error) {
	return uc.repo.Get(ctx, professionalID, serviceID)
}

// ======================================================
// Slots
// ======================================================

type GetAvailableSlotsInput struct {
	ProfessionalID uint
	ServiceID      uint
	DateFrom       string
	DateTo         string
}

type GetAvailableSlots struct {
	repo         domain.Repository
	appointments appointment.Repository
	holidays     holiday.Lookup
	now          func() time.Time
}

func NewGetAvailableSlots(
	repo domain.Repository,
	appointments appointment.Repository,
	holidays holiday.Lookup,
	now func() time.Time,
) *GetAvailableSlots {
	return &GetAvailableSlots{
		repo:         repo,
		appointments: appointments,
		holidays:     holidays,
		now:          now,
	}
}

func (uc *GetAvailableSlots) Execute(ctx context.Context, in GetAvailableSlotsInput) ([]domain.Slot, error) {
	av, err := uc.repo.Get(ctx, in.ProfessionalID, in.ServiceID)
	if err != nil {
		if httperr.KindOf(err) == httperr.KindNotFound {
			return nil, httperr.PreconditionErr("availability_not_configured")
		}
		return nil, err
	}

	loc := timezone.Location(av.Timezone)
	from, err := timezone.ParseDate(in.DateFrom, loc)
	if err != nil {
		return nil, httperr.InvalidInputErr("invalid_date_from", map[string]any{"date_from": in.DateFrom})
	}
	to, err := timezone.ParseDate(in.DateTo, loc)
	if err != nil {
		return nil, httperr.InvalidInputErr("invalid_date_to", map[string]any{"date_to": in.DateTo})
	}
	if to.Before(from) {
		return nil, httperr.InvalidInputErr("invalid_range", map[string]any{
			"date_from": in.DateFrom, "date_to": in.DateTo,
		})
	}
	if days := len(timezone.EachDay(from, to, loc)); days > domain.MaxRangeDays {
		return nil, httperr.InvalidInputErr("range_too_large", map[string]any{"max_days": domain.MaxRangeDays})
	}

	buffer := time.Duration(av.BufferMin) * time.Minute
	_, rangeEnd := timezone.DayBounds(to, loc)
	apps, err := uc.appointments.ListActiveForProfessional(
		ctx,
		in.ProfessionalID,
		from.Add(-buffer),
		rangeEnd.Add(buffer),
	)
	if err != nil {
		return nil, err
	}
	busy := make([]domain.Busy, 0, len(apps))
	for _, ap := range apps {
		busy = append(busy, domain.Busy{Start: ap.StartAt, End: ap.EndAt})
	}

	holidays, err := uc.holidays.HolidaysInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return domain.GenerateSlots(av, from, to, busy, holidays, uc.now()), nil
}
