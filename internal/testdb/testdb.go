// Package testdb opens an in-memory database with the scheduling schema for tests.
package testdb

import (
	"io"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a fresh in-memory database. A single connection keeps every
// statement on the same in-memory database.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Specialty{},
		&entity.Doctor{},
		&entity.DoctorPatient{},
		&entity.Availability{},
		&entity.Appointment{},
		&entity.MedicalReport{},
		&entity.AuditLog{},
	))
	require.NoError(t, db.Exec(
		"CREATE UNIQUE INDEX " + entity.LiveSlotIndexName +
			" ON appointments (doctor_id, appointment_date) WHERE status IN ('PENDING', 'ACCEPTED')",
	).Error)

	return db
}

// Logger discards output
func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func SeedUser(t testing.TB, db *gorm.DB, role entity.Role, name string) *entity.User {
	t.Helper()
	user := &entity.User{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@clinic.test",
		FullName: name,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

type DoctorOption func(*entity.Doctor)

func WithSpecialty(specialty *entity.Specialty) DoctorOption {
	return func(d *entity.Doctor) {
		d.SpecialtyID = &specialty.ID
	}
}

func WithLocation(location string) DoctorOption {
	return func(d *entity.Doctor) {
		d.Location = location
	}
}

// Pending leaves the doctor's application unreviewed
func Pending() DoctorOption {
	return func(d *entity.Doctor) {
		d.Accepted = false
		d.ApplicationStatus = entity.ApplicationStatusPending
		d.ReviewedAt = nil
	}
}

// SeedDoctor creates a doctor user and an approved doctor record linked to it
func SeedDoctor(t testing.TB, db *gorm.DB, name string, opts ...DoctorOption) *entity.Doctor {
	t.Helper()
	user := SeedUser(t, db, entity.RoleDoctor, name)

	now := time.Now().UTC()
	doctor := &entity.Doctor{
		ID:                uuid.New(),
		UserID:            user.ID,
		Location:          "Downtown",
		Qualifications:    "MD",
		Accepted:          true,
		ApplicationStatus: entity.ApplicationStatusApproved,
		SubmittedAt:       now,
		ReviewedAt:        &now,
	}
	for _, opt := range opts {
		opt(doctor)
	}
	require.NoError(t, db.Omit("User", "Specialty", "Availabilities").Create(doctor).Error)

	doctor.User = *user
	return doctor
}

func SeedSpecialty(t testing.TB, db *gorm.DB, name string) *entity.Specialty {
	t.Helper()
	specialty := &entity.Specialty{Name: name}
	require.NoError(t, db.Create(specialty).Error)
	return specialty
}

// SeedAvailability declares a window for the doctor on date's calendar day at clock
func SeedAvailability(t testing.TB, db *gorm.DB, doctorID uuid.UUID, date time.Time, clock string, open bool) *entity.Availability {
	t.Helper()
	availability := &entity.Availability{
		DoctorID:    doctorID,
		Day:         entity.DayOf(date),
		Time:        clock,
		Date:        entity.CalendarDate(date),
		IsAvailable: open,
	}
	require.NoError(t, db.Create(availability).Error)
	return availability
}

// SeedAppointment inserts an appointment at the instant at with the given status
func SeedAppointment(t testing.TB, db *gorm.DB, doctorID, patientID uuid.UUID, at time.Time, status entity.AppointmentStatus) *entity.Appointment {
	t.Helper()
	appointment := entity.NewAppointment(doctorID, patientID, at, "seeded")
	appointment.Status = status
	require.NoError(t, db.Omit("Doctor", "Patient").Create(&appointment).Error)
	return &appointment
}
