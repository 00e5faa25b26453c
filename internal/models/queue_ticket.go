package models

import "time"

type QueueTicket struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DateKey    string `gorm:"size:10;not null;uniqueIndex:idx_ticket_seq,priority:1;index:idx_ticket_day" json:"date_key"`
	LocationID uint   `gorm:"not null;uniqueIndex:idx_ticket_seq,priority:2;index:idx_ticket_day" json:"location_id"`
	Type       string `gorm:"size:1;not null;uniqueIndex:idx_ticket_seq,priority:3" json:"type"`
	Seq        int64  `gorm:"not null;uniqueIndex:idx_ticket_seq,priority:4" json:"seq"`
	Code       string `gorm:"size:16;not null" json:"code"`

	Status string `gorm:"size:20;not null;default:'waiting'" json:"status"`

	DNI             string `gorm:"size:20;not null" json:"dni"`
	ClientID        uint   `json:"client_id"`
	AppointmentID   *uint  `json:"appointment_id,omitempty"`
	ClientNeedsData bool   `json:"client_needs_data"`

	DeskID         *uint      `json:"desk_id,omitempty"`
	ReceptionistID *uint      `json:"receptionist_id,omitempty"`
	CalledAt       *time.Time `json:"called_at,omitempty"`
	ServedAt       *time.Time `json:"served_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QueueCounter holds the last issued sequence for a day, location and ticket type.
type QueueCounter struct {
	DateKey    string `gorm:"primaryKey;size:10"`
	LocationID uint   `gorm:"primaryKey"`
	Type       string `gorm:"primaryKey;size:1"`
	Seq        int64  `gorm:"not null;default:0"`
}
