package repository

import (
	"context"
	"errors"
	"strings"

	"clinic-scheduler/internal/domain/entity"
	domainRepo "clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.WithContext(ctx).Preload("User").Preload("Specialty").Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

// LockByID issues SELECT ... FOR UPDATE on the doctor row. Dialects without row locks
// (sqlite) ignore the clause, the per-doctor locker still serializes callers there.
func (r *doctorRepository) LockByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id = ?", id).
		First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.WithContext(ctx).Preload("User").Preload("Specialty").Where("user_id = ?", userID).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) ExistsByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Doctor{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s literally as a substring
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Search returns distinct doctors matching every set field of the filter.
// LOWER(..) LIKE LOWER(..) keeps the match case-insensitive on every dialect.
func (r *doctorRepository) Search(ctx context.Context, db *gorm.DB, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	query := db.WithContext(ctx).Model(&entity.Doctor{})

	if filter.AcceptedOnly {
		query = query.Where("doctors.accepted = ?", true)
	}
	if filter.Location != "" {
		query = query.Where(`LOWER(doctors.location) LIKE LOWER(?) ESCAPE '\'`, containsPattern(filter.Location))
	}
	if filter.Specialty != "" {
		query = query.Where(
			`doctors.specialty_id IN (SELECT s.id FROM specialties s WHERE LOWER(s.name) LIKE LOWER(?) ESCAPE '\')`,
			containsPattern(filter.Specialty),
		)
	}
	if filter.FiltersWindows() {
		sub := "SELECT 1 FROM availabilities a WHERE a.doctor_id = doctors.id AND a.is_available = ?"
		args := []any{true}
		if filter.OpenOnDate != nil {
			sub += " AND a.date = ?"
			args = append(args, entity.CalendarDate(*filter.OpenOnDate))
		}
		if filter.OpenOnDay != "" {
			sub += " AND a.day = ?"
			args = append(args, filter.OpenOnDay)
		}
		if filter.OpenAtTime != "" {
			sub += " AND a.time = ?"
			args = append(args, filter.OpenAtTime)
		}
		query = query.Where("EXISTS ("+sub+")", args...)
	}

	err := query.
		Preload("User").Preload("Specialty").
		Order("doctors.created_at ASC").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(doctor).Error
}

func (r *doctorRepository) Save(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(doctor).Error
}

type specialtyRepository struct{}

func NewSpecialtyRepository() domainRepo.SpecialtyRepository {
	return &specialtyRepository{}
}

func (r *specialtyRepository) FindByNameContains(ctx context.Context, db *gorm.DB, name string) ([]entity.Specialty, error) {
	var specialties []entity.Specialty
	err := db.WithContext(ctx).
		Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, containsPattern(name)).
		Order("name ASC").
		Find(&specialties).Error
	if err != nil {
		return nil, err
	}
	return specialties, nil
}

type doctorPatientRepository struct{}

func NewDoctorPatientRepository() domainRepo.DoctorPatientRepository {
	return &doctorPatientRepository{}
}

func (r *doctorPatientRepository) Record(ctx context.Context, db *gorm.DB, doctorID, patientID uuid.UUID) error {
	link := entity.DoctorPatient{DoctorID: doctorID, PatientID: patientID}
	return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (r *doctorPatientRepository) Exists(ctx context.Context, db *gorm.DB, doctorID, patientID uuid.UUID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.DoctorPatient{}).
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
