package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorFilter is a domain-level filter for doctor searches.
// Zero-valued fields are ignored.
type DoctorFilter struct {
	Specialty    string // case-insensitive substring of the specialty name
	Location     string // case-insensitive substring
	AcceptedOnly bool

	// the doctor has at least one open window matching all set fields
	OpenOnDate *time.Time
	OpenOnDay  Day
	OpenAtTime string
}

// FiltersWindows reports whether the filter restricts doctors by their open windows
func (f DoctorFilter) FiltersWindows() bool {
	return f.OpenOnDate != nil || f.OpenOnDay != "" || f.OpenAtTime != ""
}

// AppointmentFilter selects appointments for listings. Nil fields are ignored.
type AppointmentFilter struct {
	Statuses  []AppointmentStatus
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
}
