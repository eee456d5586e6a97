package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateMedicalReportRequest struct {
	ClinicName string `json:"clinic_name" validate:"omitempty,max=255"`
	Note       string `json:"note" validate:"required,max=5000"`
}

// Response DTOs

type MedicalReportResponse struct {
	ID         uuid.UUID `json:"id"`
	DoctorID   uuid.UUID `json:"doctor_id"`
	DoctorName string    `json:"doctor_name,omitempty"`
	PatientID  uuid.UUID `json:"patient_id"`
	ClinicName string    `json:"clinic_name,omitempty"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

type MedicalReportListResponse struct {
	Reports []MedicalReportResponse `json:"reports"`
	Total   int                     `json:"total"`
}
