package models

import "time"

// Cliente identificado pelo documento; NeedsData marca perfis criados
// automaticamente na fila, sem os dados completos.
type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DNI   string `gorm:"size:20;uniqueIndex;not null" json:"dni"`
	Name  string `gorm:"size:100" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	NeedsData bool `gorm:"not null;default:false" json:"needs_data"`
	Active    bool `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
