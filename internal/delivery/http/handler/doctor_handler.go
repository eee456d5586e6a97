package handler

import (
	"net/http"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	dispatcher    service.NotificationDispatcher
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, dispatcher service.NotificationDispatcher, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		dispatcher:    dispatcher,
		validator:     validator,
	}
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := uuidVar(w, r, "id", "doctor")
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) ListAcceptedDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorUsecase.ListAcceptedDoctors(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req dto.SubmitApplicationRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}

	result, err := h.doctorUsecase.SubmitApplication(r.Context(), caller, &req)
	if err != nil {
		writeError(w, err, "Failed to submit doctor application")
		return
	}

	h.dispatcher.Dispatch(r.Context(), result.Notifications...)
	response.Success(w, http.StatusCreated, "Doctor application submitted successfully", result.Doctor)
}

func (h *DoctorHandler) ReviewApplication(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	doctorID, ok := uuidVar(w, r, "id", "doctor")
	if !ok {
		return
	}

	var req dto.ReviewApplicationRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}

	result, err := h.doctorUsecase.ReviewApplication(r.Context(), caller, doctorID, &req)
	if err != nil {
		writeError(w, err, "Failed to review doctor application")
		return
	}

	h.dispatcher.Dispatch(r.Context(), result.Notifications...)
	response.Success(w, http.StatusOK, "Doctor application reviewed successfully", result.Doctor)
}
