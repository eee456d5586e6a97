package usecase

import (
	"context"
	"strings"
	"time"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidApplicationStatus = newError(ErrInvalidArgument, "unknown application status")
	ErrApplicationExists        = newError(ErrConflict, "a doctor application was already submitted for this account")
)

type DoctorUsecase interface {
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	ListAcceptedDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	SubmitApplication(ctx context.Context, caller entity.CallerContext, req *dto.SubmitApplicationRequest) (*dto.DoctorResult, error)
	ReviewApplication(ctx context.Context, caller entity.CallerContext, doctorID uuid.UUID, req *dto.ReviewApplicationRequest) (*dto.DoctorResult, error)
}

type doctorUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	now           func() time.Time
	locker        service.DoctorLocker
	auditService  service.AuditService
	userRepo      repository.UserRepository
	doctorRepo    repository.DoctorRepository
	specialtyRepo repository.SpecialtyRepository
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	locker service.DoctorLocker,
	auditService service.AuditService,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	specialtyRepo repository.SpecialtyRepository,
) DoctorUsecase {
	return &doctorUsecase{
		db:            db,
		log:           log,
		now:           time.Now,
		locker:        locker,
		auditService:  auditService,
		userRepo:      userRepo,
		doctorRepo:    doctorRepo,
		specialtyRepo: specialtyRepo,
	}
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) ListAcceptedDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.Search(ctx, u.db, entity.DoctorFilter{AcceptedOnly: true})
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}
	if len(doctors) == 0 {
		return nil, ErrNoDoctorsFound
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

// SubmitApplication creates the caller's doctor record, unreviewed and not bookable
// until an admin approves it. One application per account.
func (u *doctorUsecase) SubmitApplication(ctx context.Context, caller entity.CallerContext, req *dto.SubmitApplicationRequest) (*dto.DoctorResult, error) {
	if err := RequireRole(caller, entity.RoleDoctor); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(ctx, tx, caller.ID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", caller.ID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	exists, err := u.doctorRepo.ExistsByUserID(ctx, tx, caller.ID)
	if err != nil {
		u.log.Warnf("Failed to check doctor application of user %s: %+v", caller.ID, err)
		return nil, err
	}
	if exists {
		return nil, ErrApplicationExists
	}

	specialties, err := u.specialtyRepo.FindByNameContains(ctx, tx, strings.TrimSpace(req.Specialty))
	if err != nil {
		u.log.Warnf("Failed to find specialty %q: %+v", req.Specialty, err)
		return nil, err
	}
	if len(specialties) == 0 {
		return nil, ErrSpecialtyNotFound
	}
	specialty := specialties[0]

	doctor := entity.NewDoctorApplication(user.ID, &specialty.ID, strings.TrimSpace(req.Location),
		req.Qualifications, req.OtherQualifications, u.now())
	if err := u.doctorRepo.Create(ctx, tx, &doctor); err != nil {
		// a concurrent submission won the unique user_id index
		if isDuplicateKeyError(err, "user_id") {
			return nil, ErrApplicationExists
		}
		u.log.Warnf("Failed to create doctor application for user %s: %+v", user.ID, err)
		return nil, err
	}

	if err := u.auditService.Record(ctx, tx, caller, entity.AuditActionDoctorApply, service.AuditEntry{
		Entity:   "doctor",
		EntityID: doctor.ID.String(),
		NewValue: map[string]any{
			"application_status": doctor.ApplicationStatus,
			"specialty":          specialty.Name,
			"location":           doctor.Location,
		},
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	doctor.User = *user
	doctor.Specialty = &specialty

	u.log.Infof("Doctor application submitted: doctor=%s, user=%s", doctor.ID, user.ID)

	return &dto.DoctorResult{
		Doctor: converter.DoctorToResponse(&doctor),
		Notifications: []entity.Notification{
			entity.NewNotification(user.Email, entity.NotificationDoctorApplication, map[string]string{
				"doctor_id":          doctor.ID.String(),
				"doctor_name":        doctor.FullName(),
				"application_status": string(doctor.ApplicationStatus),
			}),
		},
	}, nil
}

// ReviewApplication moves a doctor's application to a new review status. Approving it
// makes the doctor bookable; any other status withdraws that.
func (u *doctorUsecase) ReviewApplication(ctx context.Context, caller entity.CallerContext, doctorID uuid.UUID, req *dto.ReviewApplicationRequest) (*dto.DoctorResult, error) {
	if err := RequireRole(caller, entity.RoleAdmin); err != nil {
		return nil, err
	}
	status := entity.ApplicationStatus(req.Status)
	if !status.IsValid() {
		return nil, ErrInvalidApplicationStatus
	}

	unlock, err := lockDoctor(ctx, u.locker, u.log, doctorID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if _, err := u.doctorRepo.LockByID(ctx, tx, doctorID); err != nil {
		u.log.Warnf("Failed to lock doctor %s: %+v", doctorID, err)
		return nil, err
	}

	doctor, err := u.doctorRepo.FindByID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	previous := doctor.ApplicationStatus
	if err := doctor.Review(status, u.now()); err != nil {
		return nil, ErrInvalidApplicationStatus
	}

	if err := u.doctorRepo.Save(ctx, tx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor %s: %+v", doctorID, err)
		return nil, err
	}

	if err := u.auditService.Record(ctx, tx, caller, entity.AuditActionDoctorReview, service.AuditEntry{
		Entity:   "doctor",
		EntityID: doctorID.String(),
		OldValue: map[string]any{"application_status": previous},
		NewValue: map[string]any{"application_status": doctor.ApplicationStatus, "accepted": doctor.Accepted},
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Doctor application reviewed: doctor=%s, %s -> %s", doctorID, previous, doctor.ApplicationStatus)

	return &dto.DoctorResult{
		Doctor: converter.DoctorToResponse(doctor),
		Notifications: []entity.Notification{
			entity.NewNotification(doctor.User.Email, entity.NotificationDoctorApplication, map[string]string{
				"doctor_id":          doctor.ID.String(),
				"doctor_name":        doctor.FullName(),
				"application_status": string(doctor.ApplicationStatus),
			}),
		},
	}, nil
}
