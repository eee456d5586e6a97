package repository

import (
	"context"
	"errors"
	"time"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type availabilityRepository struct{}

func NewAvailabilityRepository() domainRepo.AvailabilityRepository {
	return &availabilityRepository{}
}

func (r *availabilityRepository) Create(ctx context.Context, db *gorm.DB, availability *entity.Availability) error {
	return db.WithContext(ctx).Create(availability).Error
}

func (r *availabilityRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.Availability, error) {
	var availability entity.Availability
	err := db.WithContext(ctx).Where("id = ?", id).First(&availability).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &availability, nil
}

func (r *availabilityRepository) FindByDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Availability, error) {
	var availabilities []entity.Availability
	err := db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("date ASC, time ASC, id ASC").
		Find(&availabilities).Error
	if err != nil {
		return nil, err
	}
	return availabilities, nil
}

func (r *availabilityRepository) FindOpenByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Availability, error) {
	var availabilities []entity.Availability
	err := db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND is_available = ?", doctorID, entity.CalendarDate(date), true).
		Order("time ASC, id ASC").
		Find(&availabilities).Error
	if err != nil {
		return nil, err
	}
	return availabilities, nil
}

func (r *availabilityRepository) Update(ctx context.Context, db *gorm.DB, availability *entity.Availability) error {
	return db.WithContext(ctx).Save(availability).Error
}

func (r *availabilityRepository) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Availability{})
	return result.RowsAffected, result.Error
}
