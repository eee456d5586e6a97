package dto

import (
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type SubmitApplicationRequest struct {
	Specialty           string `json:"specialty" validate:"required,max=100"`
	Location            string `json:"location" validate:"required,max=255"`
	Qualifications      string `json:"qualifications" validate:"required,max=2000"`
	OtherQualifications string `json:"other_qualifications" validate:"omitempty,max=2000"`
}

type ReviewApplicationRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING UNDER_REVIEW APPROVED REJECTED"`
}

// Response DTOs

type DoctorResponse struct {
	ID                  uuid.UUID  `json:"id"`
	UserID              uuid.UUID  `json:"user_id"`
	Email               string     `json:"email,omitempty"`
	FullName            string     `json:"full_name"`
	Specialty           string     `json:"specialty"`
	Location            string     `json:"location"`
	Qualifications      string     `json:"qualifications,omitempty"`
	OtherQualifications string     `json:"other_qualifications,omitempty"`
	Accepted            bool       `json:"accepted"`
	ApplicationStatus   string     `json:"application_status"`
	SubmittedAt         time.Time  `json:"submitted_at"`
	ReviewedAt          *time.Time `json:"reviewed_at,omitempty"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

// DoctorResult is returned by doctor application mutations
type DoctorResult struct {
	Doctor        *DoctorResponse       `json:"doctor"`
	Notifications []entity.Notification `json:"-"`
}
