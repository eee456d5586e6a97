package repository

import (
	"context"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	// LockByID row-locks the doctor for the rest of the transaction
	LockByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error)
	ExistsByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (bool, error)
	Search(ctx context.Context, db *gorm.DB, filter entity.DoctorFilter) ([]entity.Doctor, error)
	Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error
	Save(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error
}

type SpecialtyRepository interface {
	FindByNameContains(ctx context.Context, db *gorm.DB, name string) ([]entity.Specialty, error)
}

type DoctorPatientRepository interface {
	// Record stores the association; recording an existing pair is a no-op
	Record(ctx context.Context, db *gorm.DB, doctorID, patientID uuid.UUID) error
	Exists(ctx context.Context, db *gorm.DB, doctorID, patientID uuid.UUID) (bool, error)
}
