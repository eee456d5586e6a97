package repository

import (
	"context"
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, db *gorm.DB, availability *entity.Availability) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Availability, error)
	FindByDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Availability, error)
	// FindOpenByDoctorAndDate returns the open windows on the calendar date, ordered by time
	FindOpenByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Availability, error)
	Update(ctx context.Context, db *gorm.DB, availability *entity.Availability) error
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
}
