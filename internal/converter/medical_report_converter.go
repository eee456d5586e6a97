package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

func MedicalReportToResponse(report *entity.MedicalReport) *dto.MedicalReportResponse {
	if report == nil {
		return nil
	}

	return &dto.MedicalReportResponse{
		ID:         report.ID,
		DoctorID:   report.DoctorID,
		DoctorName: report.Doctor.FullName(),
		PatientID:  report.PatientID,
		ClinicName: report.ClinicName,
		Note:       report.Note,
		CreatedAt:  report.CreatedAt,
	}
}

func MedicalReportsToResponses(reports []entity.MedicalReport) []dto.MedicalReportResponse {
	responses := make([]dto.MedicalReportResponse, len(reports))
	for i := range reports {
		responses[i] = *MedicalReportToResponse(&reports[i])
	}
	return responses
}
