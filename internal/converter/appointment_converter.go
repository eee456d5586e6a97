package converter

import (
	"time"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// AppointmentDate is rendered in loc, the clinic's time zone.
func AppointmentToResponse(appointment *entity.Appointment, loc *time.Location) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              appointment.ID,
		DoctorID:        appointment.DoctorID,
		PatientID:       appointment.PatientID,
		Description:     appointment.Description,
		Date:            appointment.Date.Format(entity.DateLayout),
		Time:            appointment.Time,
		AppointmentDate: appointment.AppointmentDate.In(loc),
		Status:          string(appointment.Status),
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}

	// Include doctor and patient names if preloaded
	if appointment.Doctor.ID != uuid.Nil {
		response.DoctorName = appointment.Doctor.FullName()
		response.Specialty = appointment.Doctor.SpecialtyName()
	}
	if appointment.Patient.ID != uuid.Nil {
		response.PatientName = appointment.Patient.FullName
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment, loc *time.Location) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i], loc)
	}
	return responses
}
