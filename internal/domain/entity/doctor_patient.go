package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorPatient records that a patient is a recurring patient of a doctor.
// The composite primary key makes re-recording the same pair a no-op.
type DoctorPatient struct {
	DoctorID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"doctor_id"`
	PatientID uuid.UUID `gorm:"type:uuid;primaryKey" json:"patient_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DoctorPatient) TableName() string {
	return "doctor_patients"
}
