package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MedicalReport is a note a doctor writes for one of their recurring patients
type MedicalReport struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DoctorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID  uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	ClinicName string    `gorm:"type:varchar(255)" json:"clinic_name"`
	Note       string    `gorm:"type:text;not null" json:"note"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (MedicalReport) TableName() string {
	return "medical_reports"
}

func (m *MedicalReport) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
