package queue

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type TicketFilter struct {
	LocationID uint
	DateKey    string
	Status     Status
	Type       TicketType
	DeskID     uint
}

// Counter issues per-(day, location, type) sequence numbers. Next must
// be a single atomic increment-and-read shared by every instance.
type Counter interface {
	Next(ctx context.Context, dateKey string, locationID uint, t TicketType) (int64, error)
}

type TicketRepository interface {
	// FindWaiting returns the waiting ticket of dni for the day, or nil.
	FindWaiting(
		ctx context.Context,
		dateKey string,
		locationID uint,
		dni string,
	) (*models.QueueTicket, error)

	// Create inserts t and records ev in the same transaction. A second
	// waiting ticket for the same (dateKey, location, dni) is a Conflict.
	Create(
		ctx context.Context,
		t *models.QueueTicket,
		ev func(*models.QueueTicket) Event,
	) error

	Get(ctx context.Context, id uint) (*models.QueueTicket, error)

	GetByCode(
		ctx context.Context,
		locationID uint,
		dateKey string,
		code string,
	) (*models.QueueTicket, error)

	List(ctx context.Context, filter TicketFilter) ([]models.QueueTicket, error)

	// Transition persists t only if its stored status is still from.
	Transition(
		ctx context.Context,
		t *models.QueueTicket,
		from Status,
		ev Event,
	) error

	// PurgeBefore deletes tickets and counters of days before dateKey.
	PurgeBefore(ctx context.Context, dateKey string) (int64, error)
}

type DeskRepository interface {
	// Assign deactivates the receptionist's other desks and upserts a,
	// atomically, recording desk.released / desk.assigned events.
	Assign(ctx context.Context, a *models.DeskAssignment) error

	Release(ctx context.Context, locationID, deskID uint, at time.Time) (*models.DeskAssignment, error)

	// Touch refreshes last_seen_at of an active desk.
	Touch(ctx context.Context, locationID, deskID uint, at time.Time) error

	ActiveForReceptionist(ctx context.Context, locationID, receptionistID uint) (*models.DeskAssignment, error)

	List(ctx context.Context, locationID uint, activeOnly bool) ([]models.DeskAssignment, error)

	// DeactivateStale releases every active desk not seen since
	// seenBefore.
	DeactivateStale(ctx context.Context, seenBefore, at time.Time) (int64, error)
}

// Publisher fans an encoded event out to topic subscribers.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}
