package handler

import (
	"net/http"
	"strconv"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"

	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	catalogUsecase      usecase.AvailabilityCatalogUsecase
	availabilityUsecase usecase.DoctorAvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(catalogUsecase usecase.AvailabilityCatalogUsecase, availabilityUsecase usecase.DoctorAvailabilityUsecase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		catalogUsecase:      catalogUsecase,
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

func availabilityIDVar(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid availability ID")
		return 0, false
	}
	return id, true
}

func (h *AvailabilityHandler) AddAvailability(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req dto.AvailabilityRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}

	availability, err := h.availabilityUsecase.AddAvailability(r.Context(), caller, &req)
	if err != nil {
		writeError(w, err, "Failed to add availability")
		return
	}

	response.Success(w, http.StatusCreated, "Availability added successfully", availability)
}

func (h *AvailabilityHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	availabilityID, ok := availabilityIDVar(w, r)
	if !ok {
		return
	}

	var req dto.AvailabilityRequest
	if !decodeRequest(w, r, h.validator, &req) {
		return
	}

	availability, err := h.availabilityUsecase.UpdateAvailability(r.Context(), caller, availabilityID, &req)
	if err != nil {
		writeError(w, err, "Failed to update availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability updated successfully", availability)
}

func (h *AvailabilityHandler) RemoveAvailability(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	availabilityID, ok := availabilityIDVar(w, r)
	if !ok {
		return
	}

	if err := h.availabilityUsecase.RemoveAvailability(r.Context(), caller, availabilityID); err != nil {
		writeError(w, err, "Failed to remove availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability removed successfully", nil)
}

func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	availabilityID, ok := availabilityIDVar(w, r)
	if !ok {
		return
	}

	availability, err := h.catalogUsecase.GetAvailability(r.Context(), availabilityID)
	if err != nil {
		writeError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}

func (h *AvailabilityHandler) ListByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := uuidVar(w, r, "id", "doctor")
	if !ok {
		return
	}

	availabilities, err := h.catalogUsecase.ListByDoctor(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get availabilities")
		return
	}

	response.Success(w, http.StatusOK, "Availabilities retrieved successfully", availabilities)
}

// SlotsOn serves GET /doctors/{id}/slots?date=YYYY-MM-DD
func (h *AvailabilityHandler) SlotsOn(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := uuidVar(w, r, "id", "doctor")
	if !ok {
		return
	}

	slots, err := h.catalogUsecase.SlotsOn(r.Context(), doctorID, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err, "Failed to get available slots")
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved successfully", slots)
}

func (h *AvailabilityHandler) SearchByDayAndTime(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	doctors, err := h.catalogUsecase.DoctorsMatching(r.Context(), query.Get("day"), query.Get("time"))
	h.writeDoctors(w, doctors, err)
}

func (h *AvailabilityHandler) SearchByDate(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.catalogUsecase.DoctorsOnDate(r.Context(), r.URL.Query().Get("date"))
	h.writeDoctors(w, doctors, err)
}

func (h *AvailabilityHandler) SearchBySpecialty(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.catalogUsecase.DoctorsBySpecialty(r.Context(), r.URL.Query().Get("name"))
	h.writeDoctors(w, doctors, err)
}

func (h *AvailabilityHandler) SearchByLocation(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.catalogUsecase.DoctorsByLocation(r.Context(), r.URL.Query().Get("location"))
	h.writeDoctors(w, doctors, err)
}

func (h *AvailabilityHandler) writeDoctors(w http.ResponseWriter, doctors *dto.DoctorListResponse, err error) {
	if err != nil {
		writeError(w, err, "Failed to search doctors")
		return
	}
	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}
