package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type AvailabilityRequest struct {
	Day         string `json:"day" validate:"required,weekday"`
	Time        string `json:"time" validate:"required,clock"`               // Format: HH:MM
	Date        string `json:"date" validate:"required,datetime=2006-01-02"` // Format: YYYY-MM-DD
	IsAvailable *bool  `json:"is_available" validate:"required"`
}

// Response DTOs

type AvailabilityResponse struct {
	ID          int64     `json:"id"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	Day         string    `json:"day"`
	Time        string    `json:"time"`
	Date        string    `json:"date"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AvailabilityListResponse struct {
	Availabilities []AvailabilityResponse `json:"availabilities"`
	Total          int                    `json:"total"`
}
