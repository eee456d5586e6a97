package handler

import (
	"context"
	"net/http"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"

	"github.com/google/uuid"
)

type AppointmentHandler struct {
	schedulingUsecase usecase.SchedulingUsecase
	dispatcher        service.NotificationDispatcher
	validator         *validator.CustomValidator
}

func NewAppointmentHandler(schedulingUsecase usecase.SchedulingUsecase, dispatcher service.NotificationDispatcher, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		schedulingUsecase: schedulingUsecase,
		dispatcher:        dispatcher,
		validator:         validator,
	}
}

func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req dto.BookAppointmentRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}

	result, err := h.schedulingUsecase.BookAppointment(r.Context(), caller, &req)
	if err != nil {
		writeError(w, err, "Failed to book appointment")
		return
	}

	h.dispatcher.Dispatch(r.Context(), result.Notifications...)
	response.Success(w, http.StatusCreated, result.Message, result.Appointment)
}

func (h *AppointmentHandler) AcceptAppointment(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.schedulingUsecase.AcceptAppointment, "Failed to accept appointment")
}

func (h *AppointmentHandler) RejectAppointment(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.schedulingUsecase.RejectAppointment, "Failed to reject appointment")
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.schedulingUsecase.CancelAppointment, "Failed to cancel appointment")
}

func (h *AppointmentHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.schedulingUsecase.CompleteAppointment, "Failed to complete appointment")
}

func (h *AppointmentHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.schedulingUsecase.MarkNoShow, "Failed to mark appointment as no-show")
}

type statusChangeFunc func(ctx context.Context, caller entity.CallerContext, appointmentID uuid.UUID) (*dto.AppointmentResult, error)

func (h *AppointmentHandler) changeStatus(w http.ResponseWriter, r *http.Request, change statusChangeFunc, fallback string) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	appointmentID, ok := uuidVar(w, r, "id", "appointment")
	if !ok {
		return
	}

	result, err := change(r.Context(), caller, appointmentID)
	if err != nil {
		writeError(w, err, fallback)
		return
	}

	h.dispatcher.Dispatch(r.Context(), result.Notifications...)
	response.Success(w, http.StatusOK, result.Message, result.Appointment)
}

func (h *AppointmentHandler) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	appointmentID, ok := uuidVar(w, r, "id", "appointment")
	if !ok {
		return
	}

	var req dto.RescheduleAppointmentRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}

	result, err := h.schedulingUsecase.RescheduleAppointment(r.Context(), caller, appointmentID, &req)
	if err != nil {
		writeError(w, err, "Failed to reschedule appointment")
		return
	}

	h.dispatcher.Dispatch(r.Context(), result.Notifications...)
	response.Success(w, http.StatusOK, result.Message, result.Appointment)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	appointmentID, ok := uuidVar(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.schedulingUsecase.GetAppointment(r.Context(), caller, appointmentID)
	if err != nil {
		writeError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// ListByStatus serves GET /appointments?status=
func (h *AppointmentHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		response.BadRequest(w, "status query parameter is required")
		return
	}

	appointments, err := h.schedulingUsecase.ListByStatus(r.Context(), caller, status)
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) ListAccepted(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.schedulingUsecase.ListAccepted)
}

func (h *AppointmentHandler) ListRejected(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.schedulingUsecase.ListRejected)
}

func (h *AppointmentHandler) ListMyAppointments(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.schedulingUsecase.ListMyAppointments)
}

func (h *AppointmentHandler) ListPastAppointments(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.schedulingUsecase.ListPastAppointments)
}

func (h *AppointmentHandler) list(w http.ResponseWriter, r *http.Request, list func(context.Context, entity.CallerContext) (*dto.AppointmentListResponse, error)) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	appointments, err := list(r.Context(), caller)
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}
