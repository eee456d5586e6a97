package usecase

import (
	"context"
	"testing"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/repository"
	"clinic-scheduler/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) doctorAvailability() DoctorAvailabilityUsecase {
	return NewDoctorAvailabilityUsecase(f.db, f.log, f.locker, f.audit,
		repository.NewDoctorRepository(),
		repository.NewAvailabilityRepository(),
	)
}

func windowRequest(day, clock, date string, open bool) *dto.AvailabilityRequest {
	return &dto.AvailabilityRequest{Day: day, Time: clock, Date: date, IsAvailable: &open}
}

func TestAddAvailability(t *testing.T) {
	f := newFixture(t)
	u := f.doctorAvailability()

	created, err := u.AddAvailability(context.Background(), doctorCaller(f.doctor), windowRequest("tuesday", "9:30", "2030-01-08", true))
	require.NoError(t, err)
	assert.Equal(t, f.doctor.ID, created.DoctorID)
	assert.Equal(t, "TUESDAY", created.Day)
	assert.Equal(t, "09:30", created.Time)
	assert.True(t, created.IsAvailable)
	assert.Equal(t, int64(1), f.auditCount(entity.AuditActionAvailabilityCreate))

	t.Run("duplicates are allowed", func(t *testing.T) {
		_, err := u.AddAvailability(context.Background(), doctorCaller(f.doctor), windowRequest("TUESDAY", "09:30", "2030-01-08", true))
		require.NoError(t, err)
	})

	t.Run("bad input", func(t *testing.T) {
		_, err := u.AddAvailability(context.Background(), doctorCaller(f.doctor), windowRequest("NOPE", "09:30", "2030-01-08", true))
		assert.ErrorIs(t, err, ErrInvalidDay)
		_, err = u.AddAvailability(context.Background(), doctorCaller(f.doctor), windowRequest("TUESDAY", "25:00", "2030-01-08", true))
		assert.ErrorIs(t, err, ErrInvalidTime)
		_, err = u.AddAvailability(context.Background(), doctorCaller(f.doctor), windowRequest("TUESDAY", "09:30", "08-01-2030", true))
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("only doctors", func(t *testing.T) {
		_, err := u.AddAvailability(context.Background(), patientCaller(f.patient), windowRequest("TUESDAY", "09:30", "2030-01-08", true))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("doctor user without record", func(t *testing.T) {
		orphan := testdb.SeedUser(t, f.db, entity.RoleDoctor, "Orphan")
		_, err := u.AddAvailability(context.Background(), entity.CallerContext{ID: orphan.ID, Role: entity.RoleDoctor},
			windowRequest("TUESDAY", "09:30", "2030-01-08", true))
		assert.ErrorIs(t, err, ErrDoctorRecordEmpty)
	})
}

func TestUpdateAvailability(t *testing.T) {
	f := newFixture(t)
	u := f.doctorAvailability()
	window := testdb.SeedAvailability(t, f.db, f.doctor.ID, slotAt, "10:00", true)

	updated, err := u.UpdateAvailability(context.Background(), doctorCaller(f.doctor), window.ID,
		windowRequest("WEDNESDAY", "15:00", "2030-01-09", false))
	require.NoError(t, err)
	assert.Equal(t, window.ID, updated.ID)
	assert.Equal(t, "WEDNESDAY", updated.Day)
	assert.Equal(t, "15:00", updated.Time)
	assert.Equal(t, "2030-01-09", updated.Date)
	assert.False(t, updated.IsAvailable)

	var stored entity.Availability
	require.NoError(t, f.db.First(&stored, window.ID).Error)
	assert.False(t, stored.IsAvailable)
	assert.Equal(t, "15:00", stored.Time)

	t.Run("other doctor's window", func(t *testing.T) {
		other := testdb.SeedDoctor(t, f.db, "Other Doctor")
		_, err := u.UpdateAvailability(context.Background(), doctorCaller(other), window.ID,
			windowRequest("WEDNESDAY", "15:00", "2030-01-09", true))
		assert.ErrorIs(t, err, ErrNotAvailabilityOwner)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing window", func(t *testing.T) {
		_, err := u.UpdateAvailability(context.Background(), doctorCaller(f.doctor), window.ID+100,
			windowRequest("WEDNESDAY", "15:00", "2030-01-09", true))
		assert.ErrorIs(t, err, ErrAvailabilityNotFound)
	})
}

func TestRemoveAvailability(t *testing.T) {
	f := newFixture(t)
	u := f.doctorAvailability()
	window := testdb.SeedAvailability(t, f.db, f.doctor.ID, slotAt, "10:00", true)
	booked := testdb.SeedAppointment(t, f.db, f.doctor.ID, f.patient.ID, slotAt, entity.AppointmentStatusAccepted)

	other := testdb.SeedDoctor(t, f.db, "Other Doctor")
	err := u.RemoveAvailability(context.Background(), doctorCaller(other), window.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, u.RemoveAvailability(context.Background(), doctorCaller(f.doctor), window.ID))

	var count int64
	f.db.Model(&entity.Availability{}).Count(&count)
	assert.Zero(t, count)
	// existing bookings survive their window
	assert.Equal(t, entity.AppointmentStatusAccepted, f.appointment(booked.ID).Status)
	assert.Equal(t, int64(1), f.auditCount(entity.AuditActionAvailabilityDelete))

	err = u.RemoveAvailability(context.Background(), doctorCaller(f.doctor), window.ID)
	assert.ErrorIs(t, err, ErrAvailabilityNotFound)
}
