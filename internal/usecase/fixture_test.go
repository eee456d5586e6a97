package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/testdb"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// testNow is a Monday morning; slotAt is the next day at 10:00
var (
	testNow = time.Date(2030, time.January, 7, 8, 0, 0, 0, time.UTC)
	slotAt  = time.Date(2030, time.January, 8, 10, 0, 0, 0, time.UTC)
)

const slotInput = "2030-01-08T10:00"

type fixture struct {
	t       *testing.T
	db      *gorm.DB
	log     *logrus.Logger
	locker  service.DoctorLocker
	audit   service.AuditService
	doctor  *entity.Doctor
	patient *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)
	log := testdb.Logger()
	locker := service.NewLocalDoctorLocker(log, 5*time.Second)
	t.Cleanup(locker.Stop)

	f := &fixture{
		t:      t,
		db:     db,
		log:    log,
		locker: locker,
		audit:  service.NewAuditService(log, repository.NewAuditLogRepository()),
	}
	f.doctor = testdb.SeedDoctor(t, db, "Gregory House")
	f.patient = testdb.SeedUser(t, db, entity.RolePatient, "Jane Roe")
	return f
}

func (f *fixture) scheduling() *schedulingUsecase {
	u := NewSchedulingUsecase(f.db, f.log, time.UTC, f.locker, f.audit,
		repository.NewUserRepository(),
		repository.NewDoctorRepository(),
		repository.NewAvailabilityRepository(),
		repository.NewAppointmentRepository(),
		repository.NewDoctorPatientRepository(),
	).(*schedulingUsecase)
	u.now = func() time.Time { return testNow }
	return u
}

func (f *fixture) openSlot(doctor *entity.Doctor, at time.Time) {
	testdb.SeedAvailability(f.t, f.db, doctor.ID, at, at.Format(entity.TimeLayout), true)
}

func (f *fixture) newPatient(name string) *entity.User {
	return testdb.SeedUser(f.t, f.db, entity.RolePatient, name)
}

func (f *fixture) appointment(id uuid.UUID) *entity.Appointment {
	f.t.Helper()
	a, err := repository.NewAppointmentRepository().FindByID(context.Background(), f.db, id)
	if err != nil || a == nil {
		f.t.Fatalf("appointment %s not found: %v", id, err)
	}
	return a
}

func (f *fixture) auditCount(action string) int64 {
	var n int64
	f.db.Model(&entity.AuditLog{}).Where("action = ?", action).Count(&n)
	return n
}

func patientCaller(u *entity.User) entity.CallerContext {
	return entity.CallerContext{ID: u.ID, Role: entity.RolePatient}
}

func doctorCaller(d *entity.Doctor) entity.CallerContext {
	return entity.CallerContext{ID: d.UserID, Role: entity.RoleDoctor}
}

func (f *fixture) adminCaller() entity.CallerContext {
	admin := testdb.SeedUser(f.t, f.db, entity.RoleAdmin, "Admin")
	return entity.CallerContext{ID: admin.ID, Role: entity.RoleAdmin}
}

// busyLocker never grants a lock
type busyLocker struct{}

func (busyLocker) Lock(context.Context, uuid.UUID) (func(), error) {
	return nil, service.ErrLockNotAcquired
}

func (busyLocker) Stop() {}
