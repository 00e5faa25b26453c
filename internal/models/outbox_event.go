package models

import "time"

type OutboxEvent struct {
	ID uint64 `gorm:"primaryKey"`

	EventID string `gorm:"size:36;uniqueIndex;not null"`
	Topic   string `gorm:"size:100;not null"`
	Type    string `gorm:"size:50;not null"`
	Payload string `gorm:"type:jsonb;not null"`

	PublishedAt *time.Time `gorm:"index"`
	CreatedAt   time.Time
}
