package queue

import (
	"context"
	"log/slog"
	"time"

	appointment "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/directory"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateTicketInput struct {
	DNI        string
	LocationID uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateTicket struct {
	tickets      domain.TicketRepository
	counter      domain.Counter
	directory    directory.Directory
	appointments appointment.Repository

	loc *time.Location
	now func() time.Time
	log *slog.Logger
}

func NewCreateTicket(
	tickets domain.TicketRepository,
	counter domain.Counter,
	dir directory.Directory,
	appointments appointment.Repository,
	clock Clock,
	log *slog.Logger,
) *CreateTicket {
	return &CreateTicket{
		tickets:      tickets,
		counter:      counter,
		directory:    dir,
		appointments: appointments,
		loc:          clock.Location,
		now:          clock.Now,
		log:          log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateTicket) Execute(
	ctx context.Context,
	in CreateTicketInput,
) (*models.QueueTicket, error) {

	dni, err := domain.NormalizeDNI(in.DNI)
	if err != nil {
		return nil, err
	}
	if in.LocationID == 0 {
		return nil, httperr.InvalidInputErr("invalid_location", nil)
	}

	now := uc.now()
	dateKey := timezone.DateKey(now, uc.loc)

	// --------------------------------------------------
	// 1️⃣ Já está na fila?
	// --------------------------------------------------
	existing, err := uc.tickets.FindWaiting(ctx, dateKey, in.LocationID, dni)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, httperr.ConflictErr("duplicate_waiting_ticket", map[string]any{
			"code": existing.Code,
		})
	}

	// --------------------------------------------------
	// 2️⃣ Cliente (get or create)
	// --------------------------------------------------
	client, err := uc.directory.FindOrCreateClientByDNI(ctx, dni)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Tipo: agendamento hoje → T, senão C
	// --------------------------------------------------
	dayStart, dayEnd := timezone.DayBounds(now, uc.loc)
	ap, err := uc.appointments.FindActiveForClient(ctx, client.ID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	kind := domain.TypeWalkIn
	var appointmentID *uint
	if ap != nil {
		kind = domain.TypeAppointment
		appointmentID = &ap.ID
	}

	// --------------------------------------------------
	// 4️⃣ Sequência atômica
	// --------------------------------------------------
	seq, err := uc.counter.Next(ctx, dateKey, in.LocationID, kind)
	if err != nil {
		return nil, err
	}

	t := &models.QueueTicket{
		DateKey:         dateKey,
		LocationID:      in.LocationID,
		Type:            string(kind),
		Seq:             seq,
		Code:            domain.RenderCode(kind, seq),
		Status:          string(domain.StatusWaiting),
		DNI:             dni,
		ClientID:        client.ID,
		AppointmentID:   appointmentID,
		ClientNeedsData: client.NeedsData,
	}

	if err := uc.tickets.Create(ctx, t, func(saved *models.QueueTicket) domain.Event {
		return domain.NewTicketEvent(domain.EventTicketCreated, saved, now)
	}); err != nil {
		return nil, err
	}

	uc.log.InfoContext(ctx, "ticket issued",
		slog.String("code", t.Code),
		slog.Uint64("location_id", uint64(t.LocationID)),
		slog.String("date_key", dateKey),
	)

	return t, nil
}
