package usecase

import (
	"context"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAvailabilityNotFound = newError(ErrNotFound, "availability not found")
	ErrSpecialtyNotFound    = newError(ErrNotFound, "no specialty matches the given name")
	ErrNoDoctorsFound       = newError(ErrNotFound, "no doctors found")
)

// AvailabilityCatalogUsecase answers read-only questions about doctors' open windows.
// Doctor searches only return accepted doctors and report an empty match as ErrNoDoctorsFound.
type AvailabilityCatalogUsecase interface {
	SlotsOn(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityListResponse, error)
	DoctorsMatching(ctx context.Context, day, clock string) (*dto.DoctorListResponse, error)
	DoctorsOnDate(ctx context.Context, date string) (*dto.DoctorListResponse, error)
	DoctorsBySpecialty(ctx context.Context, name string) (*dto.DoctorListResponse, error)
	DoctorsByLocation(ctx context.Context, location string) (*dto.DoctorListResponse, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AvailabilityListResponse, error)
	GetAvailability(ctx context.Context, availabilityID int64) (*dto.AvailabilityResponse, error)
}

type availabilityCatalogUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	doctorRepo       repository.DoctorRepository
	specialtyRepo    repository.SpecialtyRepository
	availabilityRepo repository.AvailabilityRepository
}

func NewAvailabilityCatalogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	specialtyRepo repository.SpecialtyRepository,
	availabilityRepo repository.AvailabilityRepository,
) AvailabilityCatalogUsecase {
	return &availabilityCatalogUsecase{
		db:               db,
		log:              log,
		doctorRepo:       doctorRepo,
		specialtyRepo:    specialtyRepo,
		availabilityRepo: availabilityRepo,
	}
}

// SlotsOn returns the doctor's open windows on the date ordered by time. Empty is a valid result.
func (u *availabilityCatalogUsecase) SlotsOn(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityListResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	slots, err := u.availabilityRepo.FindOpenByDoctorAndDate(ctx, u.db, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to find slots for doctor %s on %s: %+v", doctorID, date, err)
		return nil, err
	}

	return &dto.AvailabilityListResponse{
		Availabilities: converter.AvailabilitiesToResponses(slots),
		Total:          len(slots),
	}, nil
}

// DoctorsMatching returns accepted doctors with an open window on the weekday at the time.
// An unknown day token is ErrInvalidDay, a malformed time ErrInvalidTime.
func (u *availabilityCatalogUsecase) DoctorsMatching(ctx context.Context, day, clock string) (*dto.DoctorListResponse, error) {
	weekday, err := entity.ParseDay(day)
	if err != nil {
		return nil, ErrInvalidDay
	}
	at, err := parseClock(clock)
	if err != nil {
		return nil, err
	}

	return u.search(ctx, entity.DoctorFilter{
		AcceptedOnly: true,
		OpenOnDay:    weekday,
		OpenAtTime:   at,
	})
}

func (u *availabilityCatalogUsecase) DoctorsOnDate(ctx context.Context, date string) (*dto.DoctorListResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	return u.search(ctx, entity.DoctorFilter{
		AcceptedOnly: true,
		OpenOnDate:   &day,
	})
}

func (u *availabilityCatalogUsecase) DoctorsBySpecialty(ctx context.Context, name string) (*dto.DoctorListResponse, error) {
	specialties, err := u.specialtyRepo.FindByNameContains(ctx, u.db, name)
	if err != nil {
		u.log.Warnf("Failed to find specialty %q: %+v", name, err)
		return nil, err
	}
	if len(specialties) == 0 {
		return nil, ErrSpecialtyNotFound
	}

	return u.search(ctx, entity.DoctorFilter{
		AcceptedOnly: true,
		Specialty:    name,
	})
}

func (u *availabilityCatalogUsecase) DoctorsByLocation(ctx context.Context, location string) (*dto.DoctorListResponse, error) {
	return u.search(ctx, entity.DoctorFilter{
		AcceptedOnly: true,
		Location:     location,
	})
}

func (u *availabilityCatalogUsecase) ListByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AvailabilityListResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	availabilities, err := u.availabilityRepo.FindByDoctor(ctx, u.db, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to find availability for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.AvailabilityListResponse{
		Availabilities: converter.AvailabilitiesToResponses(availabilities),
		Total:          len(availabilities),
	}, nil
}

func (u *availabilityCatalogUsecase) GetAvailability(ctx context.Context, availabilityID int64) (*dto.AvailabilityResponse, error) {
	availability, err := u.availabilityRepo.FindByID(ctx, u.db, availabilityID)
	if err != nil {
		u.log.Warnf("Failed to find availability %d: %+v", availabilityID, err)
		return nil, err
	}
	if availability == nil {
		return nil, ErrAvailabilityNotFound
	}
	return converter.AvailabilityToResponse(availability), nil
}

func (u *availabilityCatalogUsecase) search(ctx context.Context, filter entity.DoctorFilter) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.Search(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to search doctors: %+v", err)
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
