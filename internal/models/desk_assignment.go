package models

import "time"

type DeskAssignment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	LocationID     uint `gorm:"not null;uniqueIndex:idx_desk_location" json:"location_id"`
	DeskID         uint `gorm:"not null;uniqueIndex:idx_desk_location" json:"desk_id"`
	ReceptionistID uint `gorm:"not null;index" json:"receptionist_id"`
	Active         bool `gorm:"not null;default:true" json:"active"`

	LastSeenAt time.Time `json:"last_seen_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
