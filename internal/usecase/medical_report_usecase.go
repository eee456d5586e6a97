package usecase

import (
	"context"

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
	ErrNotRecurringPatient   = newError(ErrForbidden, "patient is not registered under this doctor")
	ErrMedicalReportNotFound = newError(ErrNotFound, "medical report not found")
	ErrNoMedicalReports      = newError(ErrNotFound, "no medical reports found")
)

type MedicalReportUsecase interface {
	CreateReport(ctx context.Context, caller entity.CallerContext, patientID uuid.UUID, req *dto.CreateMedicalReportRequest) (*dto.MedicalReportResponse, error)
	ListMyReports(ctx context.Context, caller entity.CallerContext) (*dto.MedicalReportListResponse, error)
	GetReport(ctx context.Context, caller entity.CallerContext, reportID uuid.UUID) (*dto.MedicalReportResponse, error)
}

type medicalReportUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	auditService      service.AuditService
	userRepo          repository.UserRepository
	doctorRepo        repository.DoctorRepository
	doctorPatientRepo repository.DoctorPatientRepository
	reportRepo        repository.MedicalReportRepository
}

func NewMedicalReportUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditService service.AuditService,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	doctorPatientRepo repository.DoctorPatientRepository,
	reportRepo repository.MedicalReportRepository,
) MedicalReportUsecase {
	return &medicalReportUsecase{
		db:                db,
		log:               log,
		auditService:      auditService,
		userRepo:          userRepo,
		doctorRepo:        doctorRepo,
		doctorPatientRepo: doctorPatientRepo,
		reportRepo:        reportRepo,
	}
}

// CreateReport writes a report for one of the calling doctor's recurring patients,
// i.e. a patient with at least one appointment the doctor accepted.
func (u *medicalReportUsecase) CreateReport(ctx context.Context, caller entity.CallerContext, patientID uuid.UUID, req *dto.CreateMedicalReportRequest) (*dto.MedicalReportResponse, error) {
	if err := RequireRole(caller, entity.RoleDoctor); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByUserID(ctx, tx, caller.ID)
	if err != nil {
		u.log.Warnf("Failed to find doctor for user %s: %+v", caller.ID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorRecordEmpty
	}

	patient, err := u.userRepo.FindByID(ctx, tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil || patient.Role != entity.RolePatient {
		return nil, ErrPatientNotFound
	}

	recurring, err := u.doctorPatientRepo.Exists(ctx, tx, doctor.ID, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to check patient %s of doctor %s: %+v", patient.ID, doctor.ID, err)
		return nil, err
	}
	if !recurring {
		return nil, ErrNotRecurringPatient
	}

	report := &entity.MedicalReport{
		DoctorID:   doctor.ID,
		PatientID:  patient.ID,
		ClinicName: req.ClinicName,
		Note:       req.Note,
	}
	if err := u.reportRepo.Create(ctx, tx, report); err != nil {
		u.log.Warnf("Failed to create medical report: %+v", err)
		return nil, err
	}

	if err := u.auditService.Record(ctx, tx, caller, entity.AuditActionMedicalReportCreate, service.AuditEntry{
		Entity:   "medical_report",
		EntityID: report.ID.String(),
		NewValue: map[string]any{"doctor_id": doctor.ID, "patient_id": patient.ID},
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	report.Doctor = *doctor
	u.log.Infof("Medical report created: id=%s, doctor=%s, patient=%s", report.ID, doctor.ID, patient.ID)
	return converter.MedicalReportToResponse(report), nil
}

func (u *medicalReportUsecase) ListMyReports(ctx context.Context, caller entity.CallerContext) (*dto.MedicalReportListResponse, error) {
	if err := RequireRole(caller, entity.RolePatient); err != nil {
		return nil, err
	}

	reports, err := u.reportRepo.FindByPatient(ctx, u.db, caller.ID)
	if err != nil {
		u.log.Warnf("Failed to find medical reports for patient %s: %+v", caller.ID, err)
		return nil, err
	}
	if len(reports) == 0 {
		return nil, ErrNoMedicalReports
	}

	return &dto.MedicalReportListResponse{
		Reports: converter.MedicalReportsToResponses(reports),
		Total:   len(reports),
	}, nil
}

// GetReport shows a report to its patient, the doctor who wrote it, or an admin
func (u *medicalReportUsecase) GetReport(ctx context.Context, caller entity.CallerContext, reportID uuid.UUID) (*dto.MedicalReportResponse, error) {
	report, err := u.reportRepo.FindByID(ctx, u.db, reportID)
	if err != nil {
		u.log.Warnf("Failed to find medical report %s: %+v", reportID, err)
		return nil, err
	}
	if report == nil {
		return nil, ErrMedicalReportNotFound
	}

	if !caller.IsAdmin() && report.PatientID != caller.ID && !report.Doctor.OwnedBy(caller.ID) {
		// reports are private, hide their existence from everyone else
		return nil, ErrMedicalReportNotFound
	}

	return converter.MedicalReportToResponse(report), nil
}
