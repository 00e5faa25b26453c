package models

import "time"

type TimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type WeeklyDay struct {
	Weekday int        `json:"weekday"`
	Slots   []TimeSlot `json:"slots"`
}

type DateException struct {
	Date        string     `json:"date"`
	IsAvailable bool       `json:"is_available"`
	Slots       []TimeSlot `json:"slots,omitempty"`
}

// Availability is the bookable schedule of one professional for one service.
type Availability struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProfessionalID uint `gorm:"not null;uniqueIndex:idx_availability_pair" json:"professional_id"`
	ServiceID      uint `gorm:"not null;uniqueIndex:idx_availability_pair" json:"service_id"`

	Timezone   string          `gorm:"size:64;not null" json:"timezone"`
	Weekly     []WeeklyDay     `gorm:"serializer:json;type:jsonb" json:"weekly"`
	Exceptions []DateException `gorm:"serializer:json;type:jsonb" json:"exceptions"`

	BufferMin   int      `gorm:"not null;default:0" json:"buffer_min"`
	DurationMin int      `gorm:"not null" json:"duration_min"`
	Price       *float64 `json:"price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
