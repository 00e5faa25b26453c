package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

// Outbox is the relay's view of the event table.
type Outbox interface {
	ListUnpublished(ctx context.Context, limit int) ([]models.OutboxEvent, error)
	MarkPublished(ctx context.Context, id uint64, at time.Time) error
	PurgePublished(ctx context.Context, cutoff time.Time) (int64, error)
}

// ======================================================
// purge_tickets
// ======================================================

type PurgeTickets struct {
	tickets   domain.TicketRepository
	outbox    Outbox
	retention int
	loc       *time.Location
	now       func() time.Time
	log       *slog.Logger
}

func NewPurgeTickets(
	tickets domain.TicketRepository,
	outbox Outbox,
	retentionDays int,
	loc *time.Location,
	now func() time.Time,
	log *slog.Logger,
) *PurgeTickets {
	return &PurgeTickets{
		tickets:   tickets,
		outbox:    outbox,
		retention: retentionDays,
		loc:       loc,
		now:       now,
		log:       log,
	}
}

// Cutoff is the first date key that is kept.
func (j *PurgeTickets) Cutoff() string {
	return timezone.DateKey(j.now().AddDate(0, 0, -j.retention), j.loc)
}

func (j *PurgeTickets) Run(ctx context.Context) error {
	cutoff := j.Cutoff()

	n, err := j.tickets.PurgeBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	published, err := j.outbox.PurgePublished(ctx, j.now().AddDate(0, 0, -j.retention))
	if err != nil {
		return err
	}

	j.log.InfoContext(ctx, "tickets purged",
		slog.String("before", cutoff),
		slog.Int64("tickets", n),
		slog.Int64("outbox_events", published),
	)
	return nil
}

// ======================================================
// stale_desks
// ======================================================

type StaleDesks struct {
	desks      domain.DeskRepository
	staleAfter time.Duration
	now        func() time.Time
	log        *slog.Logger
}

func NewStaleDesks(
	desks domain.DeskRepository,
	staleAfter time.Duration,
	now func() time.Time,
	log *slog.Logger,
) *StaleDesks {
	return &StaleDesks{desks: desks, staleAfter: staleAfter, now: now, log: log}
}

func (j *StaleDesks) Run(ctx context.Context) error {
	now := j.now()
	n, err := j.desks.DeactivateStale(ctx, now.Add(-j.staleAfter), now)
	if err != nil {
		return err
	}
	if n > 0 {
		j.log.InfoContext(ctx, "stale desks released", slog.Int64("count", n))
	}
	return nil
}

// ======================================================
// outbox_relay
// ======================================================

const relayBatch = 200

// OutboxRelay publishes pending events in insertion order. It stops at
// the first failure so later events of a ticket never overtake earlier
// ones.
type OutboxRelay struct {
	outbox    Outbox
	publisher domain.Publisher
	now       func() time.Time
	log       *slog.Logger
}

func NewOutboxRelay(
	outbox Outbox,
	publisher domain.Publisher,
	now func() time.Time,
	log *slog.Logger,
) *OutboxRelay {
	return &OutboxRelay{outbox: outbox, publisher: publisher, now: now, log: log}
}

func (j *OutboxRelay) Run(ctx context.Context) error {
	for {
		rows, err := j.outbox.ListUnpublished(ctx, relayBatch)
		if err != nil {
			return err
		}

		for _, row := range rows {
			if err := j.publisher.Publish(ctx, row.Topic, []byte(row.Payload)); err != nil {
				return fmt.Errorf("relay event %s: %w", row.EventID, err)
			}
			if err := j.outbox.MarkPublished(ctx, row.ID, j.now()); err != nil {
				return err
			}
		}

		if len(rows) < relayBatch {
			return nil
		}
	}
}
