package queue

import (
	"context"
	"log/slog"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type TicketActionInput struct {
	TicketID       uint
	Action         domain.Action
	ReceptionistID uint
	// DeskID is optional on call; it must match the receptionist's desk.
	DeskID uint
}

// TicketAction moves a ticket through the queue state machine.
type TicketAction struct {
	tickets domain.TicketRepository
	desks   domain.DeskRepository
	clock   Clock
	log     *slog.Logger
}

func NewTicketAction(
	tickets domain.TicketRepository,
	desks domain.DeskRepository,
	clock Clock,
	log *slog.Logger,
) *TicketAction {
	return &TicketAction{
		tickets: tickets,
		desks:   desks,
		clock:   clock,
		log:     log,
	}
}

func (uc *TicketAction) Execute(ctx context.Context, in TicketActionInput) (*models.QueueTicket, error) {
	target, ok := domain.Target(in.Action)
	if !ok {
		return nil, httperr.InvalidInputErr("invalid_action", map[string]any{"action": string(in.Action)})
	}

	t, err := uc.tickets.Get(ctx, in.TicketID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(t.Status)
	if err := domain.CheckAction(in.Action, from); err != nil {
		return nil, err
	}

	now := uc.clock.Now()

	switch in.Action {
	case domain.ActionCall:
		desk, err := uc.resolveDesk(ctx, t.LocationID, in)
		if err != nil {
			return nil, err
		}
		receptionist := in.ReceptionistID
		t.DeskID = &desk.DeskID
		t.ReceptionistID = &receptionist
		t.CalledAt = &now
	case domain.ActionServe:
		t.ServedAt = &now
	case domain.ActionDone, domain.ActionCancel, domain.ActionNoShow:
		t.FinishedAt = &now
	}

	t.Status = string(target)
	t.UpdatedAt = now

	ev := domain.NewTicketEvent(domain.EventTicketUpdated, t, now)
	if err := uc.tickets.Transition(ctx, t, from, ev); err != nil {
		return nil, err
	}

	if t.DeskID != nil {
		if err := uc.desks.Touch(ctx, t.LocationID, *t.DeskID, now); err != nil {
			uc.log.WarnContext(ctx, "desk heartbeat failed",
				slog.Uint64("desk_id", uint64(*t.DeskID)),
				slog.Any("error", err),
			)
		}
	}

	uc.log.InfoContext(ctx, "ticket transition",
		slog.String("code", t.Code),
		slog.String("from", string(from)),
		slog.String("to", t.Status),
	)

	return t, nil
}

func (uc *TicketAction) resolveDesk(
	ctx context.Context,
	locationID uint,
	in TicketActionInput,
) (*models.DeskAssignment, error) {

	if in.ReceptionistID == 0 {
		return nil, httperr.InvalidInputErr("receptionist_required", nil)
	}

	desk, err := uc.desks.ActiveForReceptionist(ctx, locationID, in.ReceptionistID)
	if err != nil {
		return nil, err
	}
	if desk == nil {
		return nil, httperr.PreconditionErr("desk_not_assigned")
	}
	if in.DeskID != 0 && in.DeskID != desk.DeskID {
		return nil, httperr.ConflictErr("desk_mismatch", map[string]any{
			"desk_id":          in.DeskID,
			"assigned_desk_id": desk.DeskID,
		})
	}
	return desk, nil
}
