package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

func AvailabilityToResponse(availability *entity.Availability) *dto.AvailabilityResponse {
	if availability == nil {
		return nil
	}

	return &dto.AvailabilityResponse{
		ID:          availability.ID,
		DoctorID:    availability.DoctorID,
		Day:         string(availability.Day),
		Time:        availability.Time,
		Date:        availability.Date.Format(entity.DateLayout),
		IsAvailable: availability.IsAvailable,
		CreatedAt:   availability.CreatedAt,
		UpdatedAt:   availability.UpdatedAt,
	}
}

func AvailabilitiesToResponses(availabilities []entity.Availability) []dto.AvailabilityResponse {
	responses := make([]dto.AvailabilityResponse, len(availabilities))
	for i := range availabilities {
		responses[i] = *AvailabilityToResponse(&availabilities[i])
	}
	return responses
}
