package usecase

import (
	"context"
	"fmt"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrNotAvailabilityOwner = newError(ErrForbidden, "availability does not belong to the doctor")

// DoctorAvailabilityUsecase lets a doctor maintain their own availability windows.
// Each write runs under the doctor lock so it serializes with bookings for that doctor.
type DoctorAvailabilityUsecase interface {
	AddAvailability(ctx context.Context, caller entity.CallerContext, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
	UpdateAvailability(ctx context.Context, caller entity.CallerContext, availabilityID int64, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
	RemoveAvailability(ctx context.Context, caller entity.CallerContext, availabilityID int64) error
}

type doctorAvailabilityUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	locker           service.DoctorLocker
	auditService     service.AuditService
	doctorRepo       repository.DoctorRepository
	availabilityRepo repository.AvailabilityRepository
}

func NewDoctorAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	locker service.DoctorLocker,
	auditService service.AuditService,
	doctorRepo repository.DoctorRepository,
	availabilityRepo repository.AvailabilityRepository,
) DoctorAvailabilityUsecase {
	return &doctorAvailabilityUsecase{
		db:               db,
		log:              log,
		locker:           locker,
		auditService:     auditService,
		doctorRepo:       doctorRepo,
		availabilityRepo: availabilityRepo,
	}
}

// AddAvailability appends a window to the calling doctor. Overlapping or duplicate
// windows are allowed.
func (u *doctorAvailabilityUsecase) AddAvailability(ctx context.Context, caller entity.CallerContext, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	window, err := windowFromRequest(req)
	if err != nil {
		return nil, err
	}

	var created *entity.Availability
	err = u.withCallerDoctor(ctx, caller, func(tx *gorm.DB, doctor *entity.Doctor) error {
		window.DoctorID = doctor.ID
		if err := u.availabilityRepo.Create(ctx, tx, &window); err != nil {
			u.log.Warnf("Failed to create availability: %+v", err)
			return err
		}
		created = &window
		return u.auditService.Record(ctx, tx, caller, entity.AuditActionAvailabilityCreate, service.AuditEntry{
			Entity:   "availability",
			EntityID: fmt.Sprint(window.ID),
			NewValue: availabilitySnapshot(&window),
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Availability created: id=%d, doctor=%s, date=%s, time=%s", created.ID, created.DoctorID, created.Date.Format(entity.DateLayout), created.Time)
	return converter.AvailabilityToResponse(created), nil
}

// UpdateAvailability overwrites day, time, date and flag of one of the caller's windows in place
func (u *doctorAvailabilityUsecase) UpdateAvailability(ctx context.Context, caller entity.CallerContext, availabilityID int64, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	window, err := windowFromRequest(req)
	if err != nil {
		return nil, err
	}

	var updated *entity.Availability
	err = u.withCallerDoctor(ctx, caller, func(tx *gorm.DB, doctor *entity.Doctor) error {
		availability, err := u.ownedAvailability(ctx, tx, doctor, availabilityID)
		if err != nil {
			return err
		}
		old := availabilitySnapshot(availability)

		availability.Day = window.Day
		availability.Time = window.Time
		availability.Date = window.Date
		availability.IsAvailable = window.IsAvailable

		if err := u.availabilityRepo.Update(ctx, tx, availability); err != nil {
			u.log.Warnf("Failed to update availability %d: %+v", availabilityID, err)
			return err
		}
		updated = availability
		return u.auditService.Record(ctx, tx, caller, entity.AuditActionAvailabilityUpdate, service.AuditEntry{
			Entity:   "availability",
			EntityID: fmt.Sprint(availabilityID),
			OldValue: old,
			NewValue: availabilitySnapshot(availability),
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Availability updated: id=%d", availabilityID)
	return converter.AvailabilityToResponse(updated), nil
}

// RemoveAvailability deletes one of the caller's windows. Appointments already booked
// against it are left untouched.
func (u *doctorAvailabilityUsecase) RemoveAvailability(ctx context.Context, caller entity.CallerContext, availabilityID int64) error {
	err := u.withCallerDoctor(ctx, caller, func(tx *gorm.DB, doctor *entity.Doctor) error {
		availability, err := u.ownedAvailability(ctx, tx, doctor, availabilityID)
		if err != nil {
			return err
		}

		affected, err := u.availabilityRepo.Delete(ctx, tx, availabilityID)
		if err != nil {
			u.log.Warnf("Failed to delete availability %d: %+v", availabilityID, err)
			return err
		}
		if affected == 0 {
			return ErrAvailabilityNotFound
		}
		return u.auditService.Record(ctx, tx, caller, entity.AuditActionAvailabilityDelete, service.AuditEntry{
			Entity:   "availability",
			EntityID: fmt.Sprint(availabilityID),
			OldValue: availabilitySnapshot(availability),
		})
	})
	if err != nil {
		return err
	}

	u.log.Infof("Availability deleted: id=%d", availabilityID)
	return nil
}

// withCallerDoctor resolves the caller's doctor record, takes its lock, and runs fn in a
// transaction holding the doctor row lock. fn's error rolls the transaction back.
func (u *doctorAvailabilityUsecase) withCallerDoctor(ctx context.Context, caller entity.CallerContext, fn func(tx *gorm.DB, doctor *entity.Doctor) error) error {
	if err := RequireRole(caller, entity.RoleDoctor); err != nil {
		return err
	}

	doctor, err := u.doctorRepo.FindByUserID(ctx, u.db, caller.ID)
	if err != nil {
		u.log.Warnf("Failed to find doctor for user %s: %+v", caller.ID, err)
		return err
	}
	if doctor == nil {
		return ErrDoctorRecordEmpty
	}

	unlock, err := lockDoctor(ctx, u.locker, u.log, doctor.ID)
	if err != nil {
		return err
	}
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if _, err := u.doctorRepo.LockByID(ctx, tx, doctor.ID); err != nil {
		u.log.Warnf("Failed to lock doctor %s: %+v", doctor.ID, err)
		return err
	}

	if err := fn(tx, doctor); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

func (u *doctorAvailabilityUsecase) ownedAvailability(ctx context.Context, tx *gorm.DB, doctor *entity.Doctor, availabilityID int64) (*entity.Availability, error) {
	availability, err := u.availabilityRepo.FindByID(ctx, tx, availabilityID)
	if err != nil {
		u.log.Warnf("Failed to find availability %d: %+v", availabilityID, err)
		return nil, err
	}
	if availability == nil {
		return nil, ErrAvailabilityNotFound
	}
	if !availability.BelongsTo(doctor.ID) {
		return nil, ErrNotAvailabilityOwner
	}
	return availability, nil
}

func windowFromRequest(req *dto.AvailabilityRequest) (entity.Availability, error) {
	day, err := entity.ParseDay(req.Day)
	if err != nil {
		return entity.Availability{}, ErrInvalidDay
	}
	clock, err := parseClock(req.Time)
	if err != nil {
		return entity.Availability{}, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return entity.Availability{}, err
	}

	window := entity.Availability{
		Day:  day,
		Time: clock,
		Date: date,
	}
	if req.IsAvailable != nil {
		window.IsAvailable = *req.IsAvailable
	}
	return window, nil
}

func availabilitySnapshot(a *entity.Availability) map[string]any {
	return map[string]any{
		"doctor_id":    a.DoctorID,
		"day":          a.Day,
		"time":         a.Time,
		"date":         a.Date.Format(entity.DateLayout),
		"is_available": a.IsAvailable,
	}
}
