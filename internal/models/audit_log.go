package models

import "time"

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID *uint  `json:"user_id"`
	Action string `gorm:"size:50;not null" json:"action"`

	Entity   string `gorm:"size:50" json:"entity"`
	EntityID *uint  `json:"entity_id"`
	Before   string `gorm:"type:text" json:"before,omitempty"`
	After    string `gorm:"type:text" json:"after,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
