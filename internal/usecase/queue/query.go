package queue

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

type GetTicketByCode struct {
	tickets domain.TicketRepository
	clock   Clock
}

func NewGetTicketByCode(tickets domain.TicketRepository, clock Clock) *GetTicketByCode {
	return &GetTicketByCode{tickets: tickets, clock: clock}
}

// Execute looks the code up on date, or today when date is empty.
func (uc *GetTicketByCode) Execute(
	ctx context.Context,
	locationID uint,
	code string,
	date string,
) (*models.QueueTicket, error) {

	dateKey, err := uc.clock.resolveDate(date)
	if err != nil {
		return nil, err
	}
	return uc.tickets.GetByCode(ctx, locationID, dateKey, strings.ToUpper(strings.TrimSpace(code)))
}

type ListTicketsInput struct {
	LocationID uint
	Date       string
	Status     string
	Type       string
	DeskID     uint
}

type ListTickets struct {
	tickets domain.TicketRepository
	clock   Clock
}

func NewListTickets(tickets domain.TicketRepository, clock Clock) *ListTickets {
	return &ListTickets{tickets: tickets, clock: clock}
}

func (uc *ListTickets) Execute(ctx context.Context, in ListTicketsInput) ([]models.QueueTicket, error) {
	if in.LocationID == 0 {
		return nil, httperr.InvalidInputErr("invalid_location", nil)
	}

	dateKey, err := uc.clock.resolveDate(in.Date)
	if err != nil {
		return nil, err
	}

	status := domain.Status(in.Status)
	if status != "" && !status.Valid() {
		return nil, httperr.InvalidInputErr("invalid_status", map[string]any{"status": in.Status})
	}
	kind := domain.TicketType(strings.ToUpper(in.Type))
	if kind != "" && kind != domain.TypeAppointment && kind != domain.TypeWalkIn {
		return nil, httperr.InvalidInputErr("invalid_ticket_type", map[string]any{"type": in.Type})
	}

	return uc.tickets.List(ctx, domain.TicketFilter{
		LocationID: in.LocationID,
		DateKey:    dateKey,
		Status:     status,
		Type:       kind,
		DeskID:     in.DeskID,
	})
}

func (c Clock) resolveDate(date string) (string, error) {
	if date == "" {
		return c.Today(), nil
	}
	if _, err := timezone.ParseDate(date, c.Location); err != nil {
		return "", httperr.InvalidInputErr("invalid_date", map[string]any{"date": date})
	}
	return date, nil
}
