package handler

import (
	"net/http"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"
)

type MedicalReportHandler struct {
	reportUsecase usecase.MedicalReportUsecase
	validator     *validator.CustomValidator
}

func NewMedicalReportHandler(reportUsecase usecase.MedicalReportUsecase, validator *validator.CustomValidator) *MedicalReportHandler {
	return &MedicalReportHandler{
		reportUsecase: reportUsecase,
		validator:     validator,
	}
}

func (h *MedicalReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	patientID, ok := uuidVar(w, r, "patientId", "patient")
	if !ok {
		return
	}

	var req dto.CreateMedicalReportRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}

	report, err := h.reportUsecase.CreateReport(r.Context(), caller, patientID, &req)
	if err != nil {
		writeError(w, err, "Failed to create medical report")
		return
	}

	response.Success(w, http.StatusCreated, "Medical report created successfully", report)
}

func (h *MedicalReportHandler) ListMyReports(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	reports, err := h.reportUsecase.ListMyReports(r.Context(), caller)
	if err != nil {
		writeError(w, err, "Failed to get medical reports")
		return
	}

	response.Success(w, http.StatusOK, "Medical reports retrieved successfully", reports)
}

func (h *MedicalReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	reportID, ok := uuidVar(w, r, "id", "medical report")
	if !ok {
		return
	}

	report, err := h.reportUsecase.GetReport(r.Context(), caller, reportID)
	if err != nil {
		writeError(w, err, "Failed to get medical report")
		return
	}

	response.Success(w, http.StatusOK, "Medical report retrieved successfully", report)
}
