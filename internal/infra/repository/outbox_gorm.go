package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type OutboxGormRepository struct {
	db *gorm.DB
}

func NewOutboxGormRepository(db *gorm.DB) *OutboxGormRepository {
	return &OutboxGormRepository{db: db}
}

// insertOutbox records ev inside the caller's transaction, so it becomes
// visible to the relay only when the mutation commits.
func insertOutbox(tx *gorm.DB, ev queue.Event) error {
	payload, err := ev.Encode()
	if err != nil {
		return fmt.Errorf("encode event %s: %w", ev.Type, err)
	}

	row := models.OutboxEvent{
		EventID: ev.ID,
		Topic:   ev.Topic,
		Type:    ev.Type,
		Payload: string(payload),
	}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("insert outbox %s: %w", ev.Type, err)
	}
	return nil
}

// ListUnpublished returns pending rows in commit order.
func (r *OutboxGormRepository) ListUnpublished(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	var rows []models.OutboxEvent
	if err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list outbox: %w", err)
	}
	return rows, nil
}

func (r *OutboxGormRepository) MarkPublished(ctx context.Context, id uint64, at time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Update("published_at", at).Error; err != nil {
		return fmt.Errorf("mark outbox %d: %w", id, err)
	}
	return nil
}

// PurgePublished deletes rows published before cutoff.
func (r *OutboxGormRepository) PurgePublished(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("published_at IS NOT NULL AND published_at < ?", cutoff).
		Delete(&models.OutboxEvent{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge outbox: %w", res.Error)
	}
	return res.RowsAffected, nil
}
