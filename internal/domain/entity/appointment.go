package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LiveSlotIndexName is the partial unique index on (doctor_id, appointment_date)
// restricted to live statuses.
const LiveSlotIndexName = "uq_appointments_live_slot"

// Appointment is a patient's request for a doctor's time slot
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	Description     string            `gorm:"type:text" json:"description,omitempty"`
	Date            time.Time         `gorm:"not null" json:"date"`
	Time            string            `gorm:"type:varchar(5);not null" json:"time"`
	AppointmentDate time.Time         `gorm:"not null;index" json:"appointment_date"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient User   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// NewAppointment builds a PENDING appointment at the clinic-local instant at
func NewAppointment(doctorID, patientID uuid.UUID, at time.Time, description string) Appointment {
	a := Appointment{
		DoctorID:    doctorID,
		PatientID:   patientID,
		Description: description,
		Status:      AppointmentStatusPending,
	}
	a.setInstant(at)
	return a
}

func (a *Appointment) setInstant(at time.Time) {
	a.AppointmentDate = at.UTC()
	a.Date = CalendarDate(at)
	a.Time = at.Format(TimeLayout)
}

// WithStatus returns a copy moved to next, or an error when the edge is illegal
func (a Appointment) WithStatus(next AppointmentStatus) (Appointment, error) {
	if a.Status.IsTerminal() || !a.Status.CanTransitionTo(next) {
		return a, fmt.Errorf("cannot move appointment from %s to %s", a.Status, next)
	}
	a.Status = next
	return a, nil
}

// RescheduledTo returns a copy moved to the clinic-local instant at
func (a Appointment) RescheduledTo(at time.Time) (Appointment, error) {
	if a.Status.IsTerminal() {
		return a, fmt.Errorf("cannot reschedule appointment with status %s", a.Status)
	}
	a.setInstant(at)
	a.Status = a.Status.StatusAfterReschedule()
	return a, nil
}

// IsPatient reports whether userID is the booked patient
func (a *Appointment) IsPatient(userID uuid.UUID) bool {
	return a.PatientID == userID
}
