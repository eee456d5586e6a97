package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-scheduler/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"not found", usecase.ErrAppointmentNotFound, http.StatusNotFound, "appointment not found"},
		{"forbidden", usecase.ErrNotAppointmentParty, http.StatusForbidden, "your own appointments"},
		{"illegal transition", fmt.Errorf("%w: COMPLETED -> PENDING", usecase.ErrIllegalTransition), http.StatusConflict, "not allowed"},
		{"slot taken", usecase.ErrSlotTaken, http.StatusConflict, "already has an appointment"},
		{"bad input", usecase.ErrInvalidDateTime, http.StatusBadRequest, "YYYY-MM-DDTHH:MM"},
		{"doctor not accepted", usecase.ErrDoctorNotAccepted, http.StatusUnprocessableEntity, ""},
		{"infrastructure", errors.New("connection reset"), http.StatusInternalServerError, "Failed to book"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err, "Failed to book appointment")

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestWriteError_HidesInfrastructureDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: password authentication failed"), "Failed to get appointment")

	assert.NotContains(t, rec.Body.String(), "password")
}
