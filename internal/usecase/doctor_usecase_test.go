package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/repository"
	"clinic-scheduler/internal/testdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) doctors() *doctorUsecase {
	u := NewDoctorUsecase(f.db, f.log, f.locker, f.audit,
		repository.NewUserRepository(),
		repository.NewDoctorRepository(),
		repository.NewSpecialtyRepository(),
	).(*doctorUsecase)
	u.now = func() time.Time { return testNow }
	return u
}

func TestReviewApplication(t *testing.T) {
	tests := []struct {
		status       string
		wantAccepted bool
	}{
		{"APPROVED", true},
		{"UNDER_REVIEW", false},
		{"REJECTED", false},
		{"PENDING", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			f := newFixture(t)
			// approvals start pending, everything else starts approved so withdrawal is visible
			var opts []testdb.DoctorOption
			if tt.wantAccepted {
				opts = append(opts, testdb.Pending())
			}
			applicant := testdb.SeedDoctor(t, f.db, "Applicant", opts...)

			result, err := f.doctors().ReviewApplication(context.Background(), f.adminCaller(), applicant.ID,
				&dto.ReviewApplicationRequest{Status: tt.status})
			require.NoError(t, err)
			assert.Equal(t, tt.status, result.Doctor.ApplicationStatus)
			assert.Equal(t, tt.wantAccepted, result.Doctor.Accepted)
			require.NotNil(t, result.Doctor.ReviewedAt)
			assert.True(t, testNow.Equal(*result.Doctor.ReviewedAt))

			require.Len(t, result.Notifications, 1)
			assert.Equal(t, applicant.User.Email, result.Notifications[0].Recipient)
			assert.Equal(t, entity.NotificationDoctorApplication, result.Notifications[0].Kind)

			var stored entity.Doctor
			require.NoError(t, f.db.First(&stored, "id = ?", applicant.ID).Error)
			assert.Equal(t, tt.wantAccepted, stored.Accepted)
			assert.Equal(t, entity.ApplicationStatus(tt.status), stored.ApplicationStatus)
			assert.Equal(t, int64(1), f.auditCount(entity.AuditActionDoctorReview))
		})
	}
}

func TestReviewApplication_Rejections(t *testing.T) {
	f := newFixture(t)
	u := f.doctors()

	_, err := u.ReviewApplication(context.Background(), doctorCaller(f.doctor), f.doctor.ID,
		&dto.ReviewApplicationRequest{Status: "APPROVED"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = u.ReviewApplication(context.Background(), f.adminCaller(), f.doctor.ID,
		&dto.ReviewApplicationRequest{Status: "MAYBE"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = u.ReviewApplication(context.Background(), f.adminCaller(), uuid.New(),
		&dto.ReviewApplicationRequest{Status: "APPROVED"})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestGetDoctorAndListAccepted(t *testing.T) {
	f := newFixture(t)
	testdb.SeedDoctor(t, f.db, "Pending", testdb.Pending())
	u := f.doctors()

	got, err := u.GetDoctor(context.Background(), f.doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gregory House", got.FullName)
	assert.Equal(t, entity.DefaultSpecialtyName, got.Specialty)

	_, err = u.GetDoctor(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	list, err := u.ListAcceptedDoctors(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, f.doctor.ID, list.Doctors[0].ID)
}

func applicationRequest(specialty string) *dto.SubmitApplicationRequest {
	return &dto.SubmitApplicationRequest{
		Specialty:      specialty,
		Location:       " Uptown ",
		Qualifications: "MD, board certified",
	}
}

func TestSubmitApplication(t *testing.T) {
	f := newFixture(t)
	cardiology := testdb.SeedSpecialty(t, f.db, "Cardiology")
	applicant := testdb.SeedUser(t, f.db, entity.RoleDoctor, "Lisa Cuddy")
	ctx := context.Background()

	result, err := f.doctors().SubmitApplication(ctx, entity.CallerContext{ID: applicant.ID, Role: entity.RoleDoctor},
		applicationRequest("cardio"))
	require.NoError(t, err)

	assert.Equal(t, applicant.ID, result.Doctor.UserID)
	assert.Equal(t, "Lisa Cuddy", result.Doctor.FullName)
	assert.Equal(t, "Cardiology", result.Doctor.Specialty)
	assert.Equal(t, "Uptown", result.Doctor.Location)
	assert.Equal(t, string(entity.ApplicationStatusPending), result.Doctor.ApplicationStatus)
	assert.False(t, result.Doctor.Accepted)
	assert.True(t, testNow.Equal(result.Doctor.SubmittedAt))
	assert.Nil(t, result.Doctor.ReviewedAt)

	require.Len(t, result.Notifications, 1)
	assert.Equal(t, applicant.Email, result.Notifications[0].Recipient)
	assert.Equal(t, entity.NotificationDoctorApplication, result.Notifications[0].Kind)

	var stored entity.Doctor
	require.NoError(t, f.db.First(&stored, "user_id = ?", applicant.ID).Error)
	assert.False(t, stored.Accepted)
	assert.Equal(t, entity.ApplicationStatusPending, stored.ApplicationStatus)
	require.NotNil(t, stored.SpecialtyID)
	assert.Equal(t, cardiology.ID, *stored.SpecialtyID)
	assert.Equal(t, int64(1), f.auditCount(entity.AuditActionDoctorApply))
}

func TestSubmitApplication_Rejections(t *testing.T) {
	f := newFixture(t)
	testdb.SeedSpecialty(t, f.db, "Cardiology")
	applicant := testdb.SeedUser(t, f.db, entity.RoleDoctor, "Lisa Cuddy")
	caller := entity.CallerContext{ID: applicant.ID, Role: entity.RoleDoctor}
	ctx := context.Background()
	u := f.doctors()

	t.Run("only doctors apply", func(t *testing.T) {
		_, err := u.SubmitApplication(ctx, patientCaller(f.patient), applicationRequest("Cardiology"))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown specialty", func(t *testing.T) {
		_, err := u.SubmitApplication(ctx, caller, applicationRequest("Astrology"))
		assert.ErrorIs(t, err, ErrSpecialtyNotFound)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := u.SubmitApplication(ctx, entity.CallerContext{ID: uuid.New(), Role: entity.RoleDoctor}, applicationRequest("Cardiology"))
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("second application", func(t *testing.T) {
		_, err := u.SubmitApplication(ctx, caller, applicationRequest("Cardiology"))
		require.NoError(t, err)

		_, err = u.SubmitApplication(ctx, caller, applicationRequest("Cardiology"))
		assert.ErrorIs(t, err, ErrApplicationExists)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("already a doctor", func(t *testing.T) {
		_, err := u.SubmitApplication(ctx, doctorCaller(f.doctor), applicationRequest("Cardiology"))
		assert.ErrorIs(t, err, ErrApplicationExists)
	})

	var count int64
	f.db.Model(&entity.Doctor{}).Where("user_id = ?", applicant.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSubmittedDoctorIsBookableOnlyAfterApproval(t *testing.T) {
	f := newFixture(t)
	testdb.SeedSpecialty(t, f.db, "Cardiology")
	applicant := testdb.SeedUser(t, f.db, entity.RoleDoctor, "Lisa Cuddy")
	ctx := context.Background()

	submitted, err := f.doctors().SubmitApplication(ctx, entity.CallerContext{ID: applicant.ID, Role: entity.RoleDoctor},
		applicationRequest("Cardiology"))
	require.NoError(t, err)
	doctorID := submitted.Doctor.ID
	testdb.SeedAvailability(t, f.db, doctorID, slotAt, "10:00", true)

	book := &dto.BookAppointmentRequest{DoctorID: doctorID, AppointmentDate: slotInput}
	_, err = f.scheduling().BookAppointment(ctx, patientCaller(f.patient), book)
	require.ErrorIs(t, err, ErrDoctorNotAccepted)

	_, err = f.doctors().ReviewApplication(ctx, f.adminCaller(), doctorID, &dto.ReviewApplicationRequest{Status: "APPROVED"})
	require.NoError(t, err)

	booked, err := f.scheduling().BookAppointment(ctx, patientCaller(f.patient), book)
	require.NoError(t, err)
	assert.Equal(t, doctorID, booked.Appointment.DoctorID)
}
