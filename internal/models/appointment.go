package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID       uint `gorm:"not null;index" json:"client_id"`
	ProfessionalID uint `gorm:"not null;index:idx_appointment_professional_start" json:"professional_id"`
	ServiceID      uint `gorm:"not null" json:"service_id"`
	CreatedBy      uint `gorm:"not null" json:"created_by"`

	StartAt time.Time `gorm:"not null;index:idx_appointment_professional_start" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`

	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	Notes        string     `gorm:"size:500" json:"notes"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	CancelReason string     `gorm:"size:255" json:"cancel_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
