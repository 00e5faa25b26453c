package models

import "time"

// User is a staff account (admin or receptionist). Authentication lives
// outside this service; the row only anchors created_by and desk references.
type User struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:100;not null" json:"name"`
	Email  string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Role   string `gorm:"size:20;default:'receptionist'" json:"role"`
	Active bool   `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
