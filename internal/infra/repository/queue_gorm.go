package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// WaitingDNIIndex is the partial unique index enforcing one waiting ticket
// per document, location and day. Created by db.Migrate.
const WaitingDNIIndex = "idx_ticket_waiting_dni"

type TicketGormRepository struct {
	db *gorm.DB
}

func NewTicketGormRepository(db *gorm.DB) *TicketGormRepository {
	return &TicketGormRepository{db: db}
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *TicketGormRepository) FindWaiting(
	ctx context.Context,
	dateKey string,
	locationID uint,
	dni string,
) (*models.QueueTicket, error) {

	var t models.QueueTicket
	err := r.db.WithContext(ctx).
		Where("date_key = ? AND location_id = ? AND dni = ? AND status = ?",
			dateKey, locationID, dni, string(queue.StatusWaiting)).
		First(&t).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find waiting ticket: %w", err)
	}
	return &t, nil
}

func (r *TicketGormRepository) Get(ctx context.Context, id uint) (*models.QueueTicket, error) {
	var t models.QueueTicket
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if isNotFound(err) {
			return nil, httperr.NotFoundErr("ticket_not_found")
		}
		return nil, fmt.Errorf("get ticket %d: %w", id, err)
	}
	return &t, nil
}

func (r *TicketGormRepository) GetByCode(
	ctx context.Context,
	locationID uint,
	dateKey string,
	code string,
) (*models.QueueTicket, error) {

	var t models.QueueTicket
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND date_key = ? AND code = ?", locationID, dateKey, code).
		First(&t).Error
	if err != nil {
		if isNotFound(err) {
			return nil, httperr.NotFoundErr("ticket_not_found")
		}
		return nil, fmt.Errorf("get ticket %s: %w", code, err)
	}
	return &t, nil
}

func (r *TicketGormRepository) List(ctx context.Context, filter queue.TicketFilter) ([]models.QueueTicket, error) {
	q := r.db.WithContext(ctx).
		Where("location_id = ? AND date_key = ?", filter.LocationID, filter.DateKey)

	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Type != "" {
		q = q.Where("type = ?", string(filter.Type))
	}
	if filter.DeskID != 0 {
		q = q.Where("desk_id = ?", filter.DeskID)
	}

	var list []models.QueueTicket
	if err := q.Order("type ASC, seq ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return list, nil
}

// --------------------------------------------------
// Write
// --------------------------------------------------

func (r *TicketGormRepository) Create(
	ctx context.Context,
	t *models.QueueTicket,
	ev func(*models.QueueTicket) queue.Event,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			if constraint, ok := uniqueViolation(err); ok && constraint == WaitingDNIIndex {
				return httperr.ConflictErr("duplicate_waiting_ticket", map[string]any{
					"dni":         t.DNI,
					"location_id": t.LocationID,
					"date_key":    t.DateKey,
				})
			}
			return fmt.Errorf("insert ticket %s: %w", t.Code, err)
		}
		return insertOutbox(tx, ev(t))
	})
}

func (r *TicketGormRepository) Transition(
	ctx context.Context,
	t *models.QueueTicket,
	from queue.Status,
	ev queue.Event,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(t).
			Where("status = ?", string(from)).
			Select("status", "desk_id", "receptionist_id", "called_at", "served_at", "finished_at", "updated_at").
			Updates(t)
		if res.Error != nil {
			return fmt.Errorf("transition ticket %d: %w", t.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return httperr.ConflictErr("ticket_state_changed", map[string]any{
				"ticket_id": t.ID,
				"expected":  string(from),
			})
		}
		return insertOutbox(tx, ev)
	})
}

func (r *TicketGormRepository) PurgeBefore(ctx context.Context, dateKey string) (int64, error) {
	var purged int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("date_key < ?", dateKey).Delete(&models.QueueTicket{})
		if res.Error != nil {
			return res.Error
		}
		purged = res.RowsAffected
		return tx.Where("date_key < ?", dateKey).Delete(&models.QueueCounter{}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("purge tickets before %s: %w", dateKey, err)
	}
	return purged, nil
}

// --------------------------------------------------
// Counter (postgres backend)
// --------------------------------------------------

type PostgresCounter struct {
	db *gorm.DB
}

func NewPostgresCounter(db *gorm.DB) *PostgresCounter {
	return &PostgresCounter{db: db}
}

// Next increments and reads the counter in one statement; the row lock
// taken by ON CONFLICT serializes concurrent callers.
func (c *PostgresCounter) Next(ctx context.Context, dateKey string, locationID uint, t queue.TicketType) (int64, error) {
	var seq int64
	err := c.db.WithContext(ctx).Raw(`
		INSERT INTO queue_counters (date_key, location_id, type, seq)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (date_key, location_id, type)
		DO UPDATE SET seq = queue_counters.seq + 1
		RETURNING seq`,
		dateKey, locationID, string(t),
	).Scan(&seq).Error
	if err != nil {
		return 0, fmt.Errorf("next seq %s/%d/%s: %w", dateKey, locationID, t, err)
	}
	return seq, nil
}

// Compile-time checks
var (
	_ queue.TicketRepository = (*TicketGormRepository)(nil)
	_ queue.Counter          = (*PostgresCounter)(nil)
)
