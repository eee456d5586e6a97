package repository

import (
	"context"
	"errors"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type medicalReportRepository struct{}

func NewMedicalReportRepository() domainRepo.MedicalReportRepository {
	return &medicalReportRepository{}
}

func (r *medicalReportRepository) Create(ctx context.Context, db *gorm.DB, report *entity.MedicalReport) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(report).Error
}

func (r *medicalReportRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.MedicalReport, error) {
	var report entity.MedicalReport
	err := db.WithContext(ctx).Preload("Doctor.User").Where("id = ?", id).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *medicalReportRepository) FindByPatient(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.MedicalReport, error) {
	var reports []entity.MedicalReport
	err := db.WithContext(ctx).
		Preload("Doctor.User").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}
