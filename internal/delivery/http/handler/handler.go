package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// writeError maps a usecase error kind to its status code. Anything without a kind
// is an infrastructure failure and answered with fallback.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidState), errors.Is(err, usecase.ErrConflict):
		response.Conflict(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidArgument):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrDoctorNotAccepted):
		response.UnprocessableEntity(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

func callerFrom(w http.ResponseWriter, r *http.Request) (entity.CallerContext, bool) {
	caller, ok := middleware.GetCallerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
	}
	return caller, ok
}

func uuidVar(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// decodeRequest decodes the JSON body into req and validates it
func decodeRequest(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return false
	}
	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}
