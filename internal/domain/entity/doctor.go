package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus is the review state of a doctor's application
type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "PENDING"
	ApplicationStatusUnderReview ApplicationStatus = "UNDER_REVIEW"
	ApplicationStatusApproved    ApplicationStatus = "APPROVED"
	ApplicationStatusRejected    ApplicationStatus = "REJECTED"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusUnderReview, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// Doctor is the doctor record linked one-to-one to a User.
// Availabilities are owned (cascade delete); appointments only reference the doctor by DoctorID.
type Doctor struct {
	ID                  uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID         `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Location            string            `gorm:"type:varchar(255);index" json:"location"`
	Qualifications      string            `gorm:"type:text" json:"qualifications"`
	OtherQualifications string            `gorm:"type:text" json:"other_qualifications,omitempty"`
	SpecialtyID         *int              `gorm:"index" json:"specialty_id,omitempty"`
	Accepted            bool              `gorm:"not null;default:false;index" json:"accepted"`
	ApplicationStatus   ApplicationStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"application_status"`
	SubmittedAt         time.Time         `json:"submitted_at"`
	ReviewedAt          *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt           time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User           User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Specialty      *Specialty     `gorm:"foreignKey:SpecialtyID" json:"specialty,omitempty"`
	Availabilities []Availability `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"availabilities,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// NewDoctorApplication builds the unreviewed doctor record a user submits
func NewDoctorApplication(userID uuid.UUID, specialtyID *int, location, qualifications, otherQualifications string, now time.Time) Doctor {
	return Doctor{
		ID:                  uuid.New(),
		UserID:              userID,
		Location:            location,
		Qualifications:      qualifications,
		OtherQualifications: otherQualifications,
		SpecialtyID:         specialtyID,
		Accepted:            false,
		ApplicationStatus:   ApplicationStatusPending,
		SubmittedAt:         now.UTC(),
	}
}

// FullName returns the linked user's name, or empty when the user was not preloaded
func (d *Doctor) FullName() string {
	return d.User.FullName
}

func (d *Doctor) SpecialtyName() string {
	if d.Specialty == nil || d.Specialty.Name == "" {
		return DefaultSpecialtyName
	}
	return d.Specialty.Name
}

// Review moves the application to status and keeps Accepted == (status == APPROVED)
func (d *Doctor) Review(status ApplicationStatus, now time.Time) error {
	if !status.IsValid() {
		return fmt.Errorf("unknown application status %q", status)
	}
	d.ApplicationStatus = status
	d.Accepted = status == ApplicationStatusApproved
	reviewedAt := now.UTC()
	d.ReviewedAt = &reviewedAt
	return nil
}

// OwnedBy reports whether the doctor record is linked to userID
func (d *Doctor) OwnedBy(userID uuid.UUID) bool {
	return d.UserID == userID
}
