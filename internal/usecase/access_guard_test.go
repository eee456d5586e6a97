package usecase

import (
	"testing"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAccessGuard(t *testing.T) {
	doctorUser := uuid.New()
	doctor := &entity.Doctor{ID: uuid.New(), UserID: doctorUser}
	appointment := &entity.Appointment{ID: uuid.New(), DoctorID: doctor.ID, PatientID: uuid.New()}

	patient := entity.CallerContext{ID: appointment.PatientID, Role: entity.RolePatient}
	owner := entity.CallerContext{ID: doctorUser, Role: entity.RoleDoctor}
	stranger := entity.CallerContext{ID: uuid.New(), Role: entity.RolePatient}
	admin := entity.CallerContext{ID: uuid.New(), Role: entity.RoleAdmin}

	t.Run("party", func(t *testing.T) {
		assert.True(t, IsParty(patient, appointment, doctor))
		assert.True(t, IsParty(owner, appointment, doctor))
		assert.False(t, IsParty(stranger, appointment, doctor))
		assert.False(t, IsParty(admin, appointment, doctor))
		assert.False(t, IsParty(owner, appointment, nil))
		assert.ErrorIs(t, RequireParty(stranger, appointment, doctor), ErrForbidden)
	})

	t.Run("doctor owner", func(t *testing.T) {
		assert.NoError(t, RequireDoctorOwner(owner, doctor, false))
		assert.NoError(t, RequireDoctorOwner(admin, doctor, true))
		assert.ErrorIs(t, RequireDoctorOwner(admin, doctor, false), ErrNotDoctorOwner)
		assert.ErrorIs(t, RequireDoctorOwner(patient, doctor, true), ErrForbidden)
	})

	t.Run("role", func(t *testing.T) {
		assert.NoError(t, RequireRole(patient, entity.RolePatient, entity.RoleAdmin))
		assert.ErrorIs(t, RequireRole(owner, entity.RolePatient), ErrRoleNotAllowed)
	})
}

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, ErrSlotTaken, ErrConflict)
	assert.ErrorIs(t, ErrSchedulingBusy, ErrConflict)
	assert.ErrorIs(t, ErrAppointmentInPast, ErrInvalidArgument)
	assert.ErrorIs(t, ErrIllegalTransition, ErrInvalidState)
	assert.ErrorIs(t, ErrNotAppointmentParty, ErrForbidden)
	assert.ErrorIs(t, ErrInvalidDay, ErrNotFound)
	assert.NotErrorIs(t, ErrSlotTaken, ErrInvalidState)
	assert.Equal(t, "doctor already has an appointment at the requested time", ErrSlotTaken.Error())
}
