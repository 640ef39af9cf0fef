package domain

import "time"

// Service is a bookable offering from the catalog.
type Service struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name" gorm:"size:255;not null" validate:"required"`
	Description     string    `json:"description,omitempty" gorm:"type:text"`
	Price           float64   `json:"price" validate:"gte=0"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,gt=0"`
	Active          bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
