package dto

import "time"

// AppointmentDTO is an appointment hydrated with display names.
type AppointmentDTO struct {
	ID               uint       `json:"id"`
	StartAt          time.Time  `json:"start_at"`
	EndAt            time.Time  `json:"end_at"`
	Status           string     `json:"status"`
	ClientID         uint       `json:"client_id"`
	ClientName       string     `json:"client_name"`
	ProfessionalID   uint       `json:"professional_id"`
	ProfessionalName string     `json:"professional_name"`
	ServiceID        uint       `json:"service_id"`
	ServiceName      string     `json:"service_name"`
	Notes            string     `json:"notes,omitempty"`
	CreatedBy        uint       `json:"created_by"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CancelReason     string     `json:"cancel_reason,omitempty"`
}

type AppointmentPageDTO struct {
	Data     []AppointmentDTO `json:"data"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}
