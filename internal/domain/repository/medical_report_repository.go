package repository

import (
	"context"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicalReportRepository interface {
	Create(ctx context.Context, db *gorm.DB, report *entity.MedicalReport) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.MedicalReport, error)
	FindByPatient(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.MedicalReport, error)
}
