package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/directory"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/holiday"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

const maxNotesLen = 500

type ValidatorOptions struct {
	// OperationalTZ scopes the one-booking-per-client-service-day guard.
	OperationalTZ string
	// AllowTimeWithoutAvailability accepts any time for a pair that has
	// no availability record.
	AllowTimeWithoutAvailability bool
	Now                          func() time.Time
}

// Validator holds the checks shared by booking and rescheduling.
type Validator struct {
	repo         domain.Repository
	availability availability.Repository
	holidays     holiday.Lookup
	directory    directory.Directory

	opLoc      *time.Location
	permissive bool
	now        func() time.Time
}

func NewValidator(
	repo domain.Repository,
	availabilityRepo availability.Repository,
	holidays holiday.Lookup,
	dir directory.Directory,
	opts ValidatorOptions,
) *Validator {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Validator{
		repo:         repo,
		availability: availabilityRepo,
		holidays:     holidays,
		directory:    dir,
		opLoc:        timezone.Location(opts.OperationalTZ),
		permissive:   opts.AllowTimeWithoutAvailability,
		now:          now,
	}
}

// ======================================================
// Time validity
// ======================================================

// ValidateAppointmentTime checks [start, end) against the pair's
// availability and the holiday calendar.
func (v *Validator) ValidateAppointmentTime(
	ctx context.Context,
	professionalID uint,
	serviceID uint,
	start time.Time,
	end time.Time,
) error {

	av, err := v.availability.Get(ctx, professionalID, serviceID)
	if err != nil {
		if httperr.KindOf(err) == httperr.KindNotFound {
			if v.permissive {
				return nil
			}
			return httperr.PreconditionErr("availability_not_configured")
		}
		return err
	}
	return v.validateAgainst(ctx, av, start, end)
}

func (v *Validator) validateAgainst(
	ctx context.Context,
	av *models.Availability,
	start time.Time,
	end time.Time,
) error {

	if !end.After(start) {
		return httperr.InvalidInputErr("invalid_time_range", nil)
	}

	loc := timezone.Location(av.Timezone)
	day, _ := timezone.DayBounds(start, loc)

	isHoliday, err := v.holidays.IsHoliday(ctx, day)
	if err != nil {
		return err
	}
	if isHoliday {
		return httperr.InvalidInputErr("holiday", map[string]any{
			"date": timezone.DateKey(start, loc),
		})
	}

	if !availability.FitsWorkingSlot(av, start, end) {
		return httperr.InvalidInputErr("outside_availability", map[string]any{
			"date":     timezone.DateKey(start, loc),
			"start_at": start,
			"end_at":   end,
		})
	}
	return nil
}

// ======================================================
// Overlap
// ======================================================

// CheckOverlap pads the candidate by bufferMin on both sides and rejects
// it if any other live appointment of the professional intersects.
func (v *Validator) CheckOverlap(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
	bufferMin int,
) error {

	existing, err := v.repo.FindOverlapping(
		ctx,
		professionalID,
		domain.Padded(start, end, bufferMin),
		excludeID,
	)
	if err != nil {
		return err
	}
	return domain.ConflictWith(existing)
}

// ======================================================
// Full booking validation
// ======================================================

type booking struct {
	ClientID       uint
	ProfessionalID uint
	ServiceID      uint
	StartAt        time.Time
	ExcludeID      uint
}

type bookingPlan struct {
	EndAt  time.Time
	Window domain.Window
}

func (v *Validator) validateBooking(ctx context.Context, b booking) (*bookingPlan, error) {

	// --------------------------------------------------
	// References
	// --------------------------------------------------
	if _, err := v.directory.FindActiveClient(ctx, b.ClientID); err != nil {
		return nil, err
	}
	if _, err := v.directory.FindActiveProfessional(ctx, b.ProfessionalID); err != nil {
		return nil, err
	}
	if _, err := v.directory.FindActiveService(ctx, b.ServiceID); err != nil {
		return nil, err
	}

	offered, err := v.directory.ServicesOffered(ctx, b.ProfessionalID)
	if err != nil {
		return nil, err
	}
	if !directory.Offers(offered, b.ServiceID) {
		return nil, httperr.PreconditionErr("service_not_offered")
	}

	// --------------------------------------------------
	// Availability drives duration and buffer
	// --------------------------------------------------
	av, err := v.availability.Get(ctx, b.ProfessionalID, b.ServiceID)
	if err != nil {
		if httperr.KindOf(err) == httperr.KindNotFound {
			return nil, httperr.PreconditionErr("availability_not_configured")
		}
		return nil, err
	}

	start := b.StartAt
	end := start.Add(time.Duration(av.DurationMin) * time.Minute)

	if !start.After(v.now()) {
		return nil, httperr.InvalidInputErr("start_in_past", map[string]any{"start_at": start})
	}

	// --------------------------------------------------
	// Um agendamento por cliente, serviço e dia
	// --------------------------------------------------
	dayStart, dayEnd := timezone.DayBounds(start, v.opLoc)
	dup, err := v.repo.HasActiveForClientService(ctx, b.ClientID, b.ServiceID, dayStart, dayEnd, b.ExcludeID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, httperr.ConflictErr("duplicate_booking", map[string]any{
			"client_id":  b.ClientID,
			"service_id": b.ServiceID,
			"date":       timezone.DateKey(start, v.opLoc),
		})
	}

	if err := v.validateAgainst(ctx, av, start, end); err != nil {
		return nil, err
	}
	if err := v.CheckOverlap(ctx, b.ProfessionalID, start, end, b.ExcludeID, av.BufferMin); err != nil {
		return nil, err
	}

	return &bookingPlan{
		EndAt:  end,
		Window: domain.Padded(start, end, av.BufferMin),
	}, nil
}

func checkNotes(notes string) error {
	if len([]rune(notes)) > maxNotesLen {
		return httperr.InvalidInputErr("notes_too_long", map[string]any{"max": maxNotesLen})
	}
	return nil
}
