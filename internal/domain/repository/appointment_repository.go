package repository

import (
	"context"
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	// FindLiveAt returns a live appointment of the doctor at exactly the instant,
	// ignoring excludeID (uuid.Nil excludes nothing).
	FindLiveAt(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, at time.Time, excludeID uuid.UUID) (*entity.Appointment, error)
	Find(ctx context.Context, db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	Save(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
}
