package dto

import (
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID        uuid.UUID `json:"doctor_id" validate:"required"`
	AppointmentDate string    `json:"appointment_date" validate:"required"` // Format: YYYY-MM-DDTHH:MM, clinic local time
	Description     string    `json:"description" validate:"omitempty,max=1000"`
}

type RescheduleAppointmentRequest struct {
	AppointmentDate string `json:"appointment_date" validate:"required"` // Format: YYYY-MM-DDTHH:MM, clinic local time
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	DoctorID        uuid.UUID `json:"doctor_id"`
	DoctorName      string    `json:"doctor_name,omitempty"`
	Specialty       string    `json:"specialty,omitempty"`
	PatientID       uuid.UUID `json:"patient_id"`
	PatientName     string    `json:"patient_name,omitempty"`
	Description     string    `json:"description,omitempty"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	AppointmentDate time.Time `json:"appointment_date"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// AppointmentResult is returned by every appointment mutation. Notifications are
// handed to the dispatcher by the delivery layer and never serialized.
type AppointmentResult struct {
	Message       string                `json:"message"`
	Appointment   *AppointmentResponse  `json:"appointment"`
	Notifications []entity.Notification `json:"-"`
}
