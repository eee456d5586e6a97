package usecase

import (
	"context"
	"fmt"
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
	ErrPatientNotFound     = newError(ErrNotFound, "patient not found")
	ErrAppointmentNotFound = newError(ErrNotFound, "appointment not found")
	ErrNoOpenAvailability  = newError(ErrNotFound, "doctor has no available time slots on the requested date")
	ErrNoAppointmentsFound = newError(ErrNotFound, "no appointments found")
	ErrAppointmentInPast   = newError(ErrInvalidArgument, "appointment date must be in the future")
	ErrInvalidStatus       = newError(ErrInvalidArgument, "unknown appointment status")
	ErrIllegalTransition   = newError(ErrInvalidState, "appointment status change not allowed")
	ErrSlotTaken           = newError(ErrConflict, "doctor already has an appointment at the requested time")
	ErrSchedulingBusy      = newError(ErrConflict, "doctor schedule is busy, try again")
)

// Display format of an appointment instant in messages
const appointmentDisplayLayout = "2006-01-02 15:04"

type SchedulingUsecase interface {
	BookAppointment(ctx context.Context, caller entity.CallerContext, req *dto.BookAppointmentRequest) (*dto.AppointmentResult, error)
	AcceptAppointment(ctx context.Context, caller entity.CallerContext, appointmentID uuid.UUID) (*dto.AppointmentResult, error)
	RejectAppointment(ctx context.Context, caller entity.CallerContext, appointmentID uuid.UUID) (*dto.AppointmentResult, error)
	CancelAppointment(ctx context.Context, caller entity.CallerContext, appointmentID uuid.UUID) (*dto.AppointmentResult, error)
	CompleteAppointment(ctx context.Context, caller entity.CallerContext, appointmentID uuid.UUID) (*dto.AppointmentResult, error)
	MarkNoShow(ctx context.Context, caller entity.CallerContext, appointmentID uuid.UUID) (*dto.AppointmentResult, error)
	RescheduleAppointment(ctx context.Context, caller entity.CallerContext, appointmentID uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResult, error)

	GetAppointment(ctx context.Context, caller entity.CallerContext, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	ListByStatus(ctx context.Context, caller entity.CallerContext, status string) (*dto.AppointmentListResponse, error)
	ListAccepted(ctx context.Context, caller entity.CallerContext) (*dto.AppointmentListResponse, error)
	ListRejected(ctx context.Context, caller entity.CallerContext) (*dto.AppointmentListResponse, error)
	ListMyAppointments(ctx context.Context, caller entity.CallerContext) (*dto.AppointmentListResponse, error)
	ListPastAppointments(ctx context.Context, caller entity.CallerContext) (*dto.AppointmentListResponse, error)
}

type schedulingUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	loc               *time.Location
	now               func() time.Time
	locker            service.DoctorLocker
	auditService      service.AuditService
	userRepo          repository.UserRepository
	doctorRepo        repository.DoctorRepository
	availabilityRepo  repository.AvailabilityRepository
	appointmentRepo   repository.AppointmentRepository
	doctorPatientRepo repository.DoctorPatientRepository
}

// NewSchedulingUsecase builds the scheduling engine. loc is the clinic's time zone:
// request date-times are read in it and calendar dates are taken from it.
func NewSchedulingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	loc *time.Location,
	locker service.DoctorLocker,
	auditService service.AuditService,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	availabilityRepo repository.AvailabilityRepository,
	appointmentRepo repository.AppointmentRepository,
	doctorPatientRepo repository.DoctorPatientRepository,
) SchedulingUsecase {
	return &schedulingUsecase{
		db:                db,
		log:               log,
		loc:               loc,
		now:               time.Now,
		locker:            locker,
		auditService:      auditService,
		userRepo:          userRepo,
		doctorRepo:        doctorRepo,
		availabilityRepo:  availabilityRepo,
		appointmentRepo:   appointmentRepo,
		doctorPatientRepo: doctorPatientRepo,
	}
}

// BookAppointment creates a PENDING appointment for the calling patient.
//
// Flow (under the doctor lock, in one transaction):
// 1. Patient and doctor exist, doctor is accepted
// 2. Requested instant is in the future
// 3. Doctor has an open availability window on that date
// 4. No live appointment of the doctor at exactly that instant
// 5. Insert + audit, commit
//
// The partial unique index on live slots backs step 4 if the lock is ever bypassed.
func (u *schedulingUsecase) BookAppointment(ctx context.Context, caller entity.CallerContext, req *dto.BookAppointmentRequest) (*dto.AppointmentResult, error) {
	if err := RequireRole(caller, entity.RolePatient); err != nil {
		return nil, err
	}
	at, err := parseLocalDateTime(req.AppointmentDate, u.loc)
	if err != nil {
		return nil, err
	}

	unlock, err := u.lockDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.userRepo.FindByID(ctx, tx, caller.ID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", caller.ID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	doctor, err := u.loadLockedDoctor(ctx, tx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.Accepted {
		return nil, ErrDoctorNotAccepted
	}

	if !at.After(u.now()) {
		return nil, ErrAppointmentInPast
	}

	slots, err := u.availabilityRepo.FindOpenByDoctorAndDate(ctx, tx, doctor.ID, at)
	if err != nil {
		u.log.Warnf("Failed to find availability for doctor %s: %+v", doctor.ID, err)
		return nil, err
	}
	if len(slots) == 0 {
		return nil, ErrNoOpenAvailability
	}

	existing, err := u.appointmentRepo.FindLiveAt(ctx, tx, doctor.ID, at, uuid.Nil)
	if err != nil {
		u.log.Warnf("Failed to check slot conflict for doctor %s: %+v", doctor.ID, err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlotTaken
	}

	appointment := entity.NewAppointment(doctor.ID, patient.ID, at, req.Description)
	if err := u.appointmentRepo.Create(ctx, tx, &appointment); err != nil {
		if isDuplicateKeyError(err, entity.LiveSlotIndexName) {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.Record(ctx, tx, caller, entity.AuditActionAppointmentBook, service.AuditEntry{
		Entity:   "appointment",
		EntityID: appointment.ID.String(),
		NewValue: appointmentSnapshot(&appointment),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKeyError(err, entity.LiveSlotIndexName) {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Doctor = *doctor
	appointment.Patient = *patient

	u.log.Infof("Appointment booked: id=%s, doctor=%s, patient=%s, at=%s", appointment.ID, doctor.ID, patient.ID, appointment.AppointmentDate.Format(time.RFC3339))

	info := u.notificationContext(&appointment)
	return &dto.AppointmentResult{
		Message: fmt.Sprintf("Appointment scheduled successfully with Dr. %s for %s. Appointment ID: %s. Status: %s",
			doctor.FullName(), u.display(appointment.AppointmentDate), appointment.ID, appointment.Status),
		Appointment: converter.AppointmentToResponse(&appointment, u.loc),
		Notifications: []entity.Notification{
			entity.NewNotification(patient.Email, entity.NotificationAppointmentRequested, info),
			entity.NewNotification(doctor.User.Email, entity.NotificationAppointmentReceived, info),
		},
	}, nil
}

// statusChange describes one state machine edge driven by a caller
type statusChange struct {
	to          entity.AppointmentStatus
	auditAction string
	authorize   func(caller entity.CallerContext, appointment *entity.Appointment) error
	// a repeated request for the current status succeeds without writing
	idempotent bool
	afterSave  func(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment) error
	message    func(appointment *entity.Appointment) string
	notify     func(caller entity.CallerContext, appointment *entity.Appointment) []entity.Notification
}

// AcceptAppointment confirms a PENDING appointment and registers the patient under the doctor
func (u *schedulingUsecase) AcceptAppointment(ctx context.Context, caller entity.CallerContext, appointmentID uuid.UUID) (*dto.AppointmentResult, error) {
	return u.changeStatus(ctx, caller, appointmentID, statusChange{
		to:          entity.AppointmentStatusAccepted,
		auditAction: entity.AuditActionAppointmentAccept,
		authorize:   u.requireOwningDoctor,
		idempotent:  true,
		afterSave: func(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment) error {
			if err := u.doctorPatientRepo.Record(ctx, tx, appointment.DoctorID, appointment.PatientID); err != nil {
				u.log.Warnf("Failed to record patient %s under doctor %s: %+v", appointment.PatientID, appointment.DoctorID, err)
				return err
			}
			return nil
		},
		message: func(a *entity.Appointment) string {
			return fmt.Sprintf("Appointment with ID %s accepted successfully. Patient %s is now registered under Dr. %s",
				a.ID, a.Patient.FullName, a.Doctor.FullName())
		},
		notify: func(_ entity.CallerContext, a *entity.Appointment) []entity.Notification {
			return []entity.Notification{
				entity.NewNotification(a.Patient.Email, entity.NotificationAppointmentAccepted, u.notificationContext(a)),
			}
		},
	})
}

func (u *schedulingUsecase) RejectAppointment(ctx context.Context, caller entity.CallerContext, appointmentID uuid.UUID) (*dto.AppointmentResult, error) {
	return u.changeStatus(ctx, caller, appointmentID, statusChange{
		to:          entity.AppointmentStatusRejected,
		auditAction: entity.AuditActionAppointmentReject,
		authorize:   u.requireOwningDoctor,
		message: func(a *entity.Appointment) string {
			return fmt.Sprintf("Appointment with ID %s has been rejected.", a.ID)
		},
		notify: func(_ entity.CallerContext, a *entity.Appointment) []entity.Notification {
			return []entity.Notification{
				entity.NewNotification(a.Patient.Email, entity.NotificationAppointmentRejected, u.notificationContext(a)),
			}
		},
	})
}

// CancelAppointment cancels on behalf of either party and notifies the other one
func (u *schedulingUsecase) CancelAppointment(ctx context.Context, caller entity.CallerContext, appointmentID uuid.UUID) (*dto.AppointmentResult, error) {
	return u.changeStatus(ctx, caller, appointmentID, statusChange{
		to:          entity.AppointmentStatusCanceled,
		auditAction: entity.AuditActionAppointmentCancel,
		authorize: func(caller entity.CallerContext, a *entity.Appointment) error {
			return RequireParty(caller, a, &a.Doctor)
		},
		message: func(a *entity.Appointment) string {
			return fmt.Sprintf("Appointment with ID %s has been canceled successfully.", a.ID)
		},
		notify: func(caller entity.CallerContext, a *entity.Appointment) []entity.Notification {
			return []entity.Notification{
				entity.NewNotification(otherPartyEmail(caller, a), entity.NotificationAppointmentCanceled, u.notificationContext(a)),
			}
		},
	})
}

func (u *schedulingUsecase) CompleteAppointment(ctx context.Context, caller entity.CallerContext, appointmentID uuid.UUID) (*dto.AppointmentResult, error) {
	return u.changeStatus(ctx, caller, appointmentID, statusChange{
		to:          entity.AppointmentStatusCompleted,
		auditAction: entity.AuditActionAppointmentComplete,
		authorize:   u.requireOwningDoctor,
		message: func(a *entity.Appointment) string {
			return fmt.Sprintf("Appointment with ID %s has been marked as completed.", a.ID)
		},
	})
}

func (u *schedulingUsecase) MarkNoShow(ctx context.Context, caller entity.CallerContext, appointmentID uuid.UUID) (*dto.AppointmentResult, error) {
	return u.changeStatus(ctx, caller, appointmentID, statusChange{
		to:          entity.AppointmentStatusNoShow,
		auditAction: entity.AuditActionAppointmentNoShow,
		authorize:   u.requireOwningDoctor,
		message: func(a *entity.Appointment) string {
			return fmt.Sprintf("Appointment with ID %s has been marked as no-show.", a.ID)
		},
	})
}

// changeStatus applies one state machine edge under the doctor lock.
// Every precondition is checked before the first write.
func (u *schedulingUsecase) changeStatus(ctx context.Context, caller entity.CallerContext, appointmentID uuid.UUID, change statusChange) (*dto.AppointmentResult, error) {
	doctorID, err := u.appointmentDoctorID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	unlock, err := u.lockDoctor(ctx, doctorID)
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

	appointment, err := u.appointmentRepo.FindByID(ctx, tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if err := change.authorize(caller, appointment); err != nil {
		return nil, err
	}

	if change.idempotent && appointment.Status == change.to {
		return &dto.AppointmentResult{
			Message:     change.message(appointment),
			Appointment: converter.AppointmentToResponse(appointment, u.loc),
		}, nil
	}

	next, err := appointment.WithStatus(change.to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIllegalTransition, err)
	}

	if err := u.appointmentRepo.Save(ctx, tx, &next); err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	if change.afterSave != nil {
		if err := change.afterSave(ctx, tx, &next); err != nil {
			return nil, err
		}
	}

	if err := u.auditService.Record(ctx, tx, caller, change.auditAction, service.AuditEntry{
		Entity:   "appointment",
		EntityID: next.ID.String(),
		OldValue: appointmentSnapshot(appointment),
		NewValue: appointmentSnapshot(&next),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment %s: %s -> %s by %s %s", next.ID, appointment.Status, next.Status, caller.Role, caller.ID)

	result := &dto.AppointmentResult{
		Message:     change.message(&next),
		Appointment: converter.AppointmentToResponse(&next, u.loc),
	}
	if change.notify != nil {
		result.Notifications = change.notify(caller, &next)
	}
	return result, nil
}

// RescheduleAppointment moves an appointment to a new future instant.
// An accepted appointment returns to PENDING and needs the doctor's approval again.
func (u *schedulingUsecase) RescheduleAppointment(ctx context.Context, caller entity.CallerContext, appointmentID uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResult, error) {
	at, err := parseLocalDateTime(req.AppointmentDate, u.loc)
	if err != nil {
		return nil, err
	}

	doctorID, err := u.appointmentDoctorID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	unlock, err := u.lockDoctor(ctx, doctorID)
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

	appointment, err := u.appointmentRepo.FindByID(ctx, tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if err := RequireParty(caller, appointment, &appointment.Doctor); err != nil {
		return nil, err
	}

	next, err := appointment.RescheduledTo(at)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIllegalTransition, err)
	}

	if !at.After(u.now()) {
		return nil, ErrAppointmentInPast
	}

	existing, err := u.appointmentRepo.FindLiveAt(ctx, tx, appointment.DoctorID, at, appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to check slot conflict for doctor %s: %+v", appointment.DoctorID, err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlotTaken
	}

	if err := u.appointmentRepo.Save(ctx, tx, &next); err != nil {
		if isDuplicateKeyError(err, entity.LiveSlotIndexName) {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to update appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	if err := u.auditService.Record(ctx, tx, caller, entity.AuditActionAppointmentReschedule, service.AuditEntry{
		Entity:   "appointment",
		EntityID: next.ID.String(),
		OldValue: appointmentSnapshot(appointment),
		NewValue: appointmentSnapshot(&next),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment %s rescheduled to %s, status=%s", next.ID, next.AppointmentDate.Format(time.RFC3339), next.Status)

	return &dto.AppointmentResult{
		Message: fmt.Sprintf("Appointment with ID %s has been rescheduled to %s. Status: %s",
			next.ID, u.display(next.AppointmentDate), next.Status),
		Appointment: converter.AppointmentToResponse(&next, u.loc),
		Notifications: []entity.Notification{
			entity.NewNotification(otherPartyEmail(caller, &next), entity.NotificationAppointmentRescheduled, u.notificationContext(&next)),
		},
	}, nil
}

func (u *schedulingUsecase) GetAppointment(ctx context.Context, caller entity.CallerContext, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !caller.IsAdmin() {
		if err := RequireParty(caller, appointment, &appointment.Doctor); err != nil {
			return nil, err
		}
	}
	return converter.AppointmentToResponse(appointment, u.loc), nil
}

// ListByStatus lists the caller's appointments in one status: a doctor sees their own,
// a patient sees their own, an admin sees all. An empty list is a valid result.
func (u *schedulingUsecase) ListByStatus(ctx context.Context, caller entity.CallerContext, status string) (*dto.AppointmentListResponse, error) {
	parsed, err := entity.ParseAppointmentStatus(status)
	if err != nil {
		return nil, ErrInvalidStatus
	}
	return u.list(ctx, caller, false, parsed)
}

// ListAccepted fails with ErrNoAppointmentsFound when there is nothing to list
func (u *schedulingUsecase) ListAccepted(ctx context.Context, caller entity.CallerContext) (*dto.AppointmentListResponse, error) {
	return u.list(ctx, caller, true, entity.AppointmentStatusAccepted)
}

// ListRejected fails with ErrNoAppointmentsFound when there is nothing to list
func (u *schedulingUsecase) ListRejected(ctx context.Context, caller entity.CallerContext) (*dto.AppointmentListResponse, error) {
	return u.list(ctx, caller, true, entity.AppointmentStatusRejected)
}

func (u *schedulingUsecase) ListMyAppointments(ctx context.Context, caller entity.CallerContext) (*dto.AppointmentListResponse, error) {
	if err := RequireRole(caller, entity.RolePatient); err != nil {
		return nil, err
	}
	return u.list(ctx, caller, true)
}

// ListPastAppointments lists the calling patient's completed appointments
func (u *schedulingUsecase) ListPastAppointments(ctx context.Context, caller entity.CallerContext) (*dto.AppointmentListResponse, error) {
	if err := RequireRole(caller, entity.RolePatient); err != nil {
		return nil, err
	}
	return u.list(ctx, caller, false, entity.AppointmentStatusCompleted)
}

func (u *schedulingUsecase) list(ctx context.Context, caller entity.CallerContext, emptyIsNotFound bool, statuses ...entity.AppointmentStatus) (*dto.AppointmentListResponse, error) {
	filter, err := u.scopeFor(ctx, caller)
	if err != nil {
		return nil, err
	}
	filter.Statuses = statuses

	appointments, err := u.appointmentRepo.Find(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}
	if emptyIsNotFound && len(appointments) == 0 {
		return nil, ErrNoAppointmentsFound
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments, u.loc),
		Total:        len(appointments),
	}, nil
}

// scopeFor restricts listings to what the caller may see
func (u *schedulingUsecase) scopeFor(ctx context.Context, caller entity.CallerContext) (entity.AppointmentFilter, error) {
	switch caller.Role {
	case entity.RoleAdmin:
		return entity.AppointmentFilter{}, nil
	case entity.RolePatient:
		patientID := caller.ID
		return entity.AppointmentFilter{PatientID: &patientID}, nil
	case entity.RoleDoctor:
		doctor, err := u.doctorRepo.FindByUserID(ctx, u.db, caller.ID)
		if err != nil {
			u.log.Warnf("Failed to find doctor for user %s: %+v", caller.ID, err)
			return entity.AppointmentFilter{}, err
		}
		if doctor == nil {
			return entity.AppointmentFilter{}, ErrDoctorRecordEmpty
		}
		return entity.AppointmentFilter{DoctorID: &doctor.ID}, nil
	}
	return entity.AppointmentFilter{}, ErrRoleNotAllowed
}

func (u *schedulingUsecase) requireOwningDoctor(caller entity.CallerContext, appointment *entity.Appointment) error {
	return RequireDoctorOwner(caller, &appointment.Doctor, true)
}

// appointmentDoctorID finds which doctor's lock guards the appointment
func (u *schedulingUsecase) appointmentDoctorID(ctx context.Context, appointmentID uuid.UUID) (uuid.UUID, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return uuid.Nil, err
	}
	if appointment == nil {
		return uuid.Nil, ErrAppointmentNotFound
	}
	return appointment.DoctorID, nil
}

func (u *schedulingUsecase) lockDoctor(ctx context.Context, doctorID uuid.UUID) (func(), error) {
	return lockDoctor(ctx, u.locker, u.log, doctorID)
}

// loadLockedDoctor row-locks the doctor for the transaction and loads it with its user
func (u *schedulingUsecase) loadLockedDoctor(ctx context.Context, tx *gorm.DB, doctorID uuid.UUID) (*entity.Doctor, error) {
	locked, err := u.doctorRepo.LockByID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to lock doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if locked == nil {
		return nil, ErrDoctorNotFound
	}

	doctor, err := u.doctorRepo.FindByID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

func (u *schedulingUsecase) display(t time.Time) string {
	return t.In(u.loc).Format(appointmentDisplayLayout)
}

func (u *schedulingUsecase) notificationContext(a *entity.Appointment) map[string]string {
	return map[string]string{
		"appointment_id": a.ID.String(),
		"doctor_name":    a.Doctor.FullName(),
		"patient_name":   a.Patient.FullName,
		"date":           a.Date.Format(entity.DateLayout),
		"time":           a.Time,
		"status":         string(a.Status),
	}
}

// otherPartyEmail addresses the party that did not act
func otherPartyEmail(caller entity.CallerContext, a *entity.Appointment) string {
	if a.IsPatient(caller.ID) {
		return a.Doctor.User.Email
	}
	return a.Patient.Email
}

func appointmentSnapshot(a *entity.Appointment) map[string]any {
	return map[string]any{
		"doctor_id":        a.DoctorID,
		"patient_id":       a.PatientID,
		"appointment_date": a.AppointmentDate,
		"status":           a.Status,
	}
}
