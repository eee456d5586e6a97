package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO.
// Name and email come from the linked user when it is preloaded.
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:                  doctor.ID,
		UserID:              doctor.UserID,
		Email:               doctor.User.Email,
		FullName:            doctor.FullName(),
		Specialty:           doctor.SpecialtyName(),
		Location:            doctor.Location,
		Qualifications:      doctor.Qualifications,
		OtherQualifications: doctor.OtherQualifications,
		Accepted:            doctor.Accepted,
		ApplicationStatus:   string(doctor.ApplicationStatus),
		SubmittedAt:         doctor.SubmittedAt,
		ReviewedAt:          doctor.ReviewedAt,
	}
}

func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
