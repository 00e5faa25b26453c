package models

import "time"

// Holiday blocks a calendar date. Recurring holidays match every year
// on the same month and day.
type Holiday struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"type:date;not null;index" json:"date"`
	Recurring bool      `gorm:"not null;default:false" json:"recurring"`
	Name      string    `gorm:"size:100" json:"name"`

	CreatedAt time.Time `json:"created_at"`
}
