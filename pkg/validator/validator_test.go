package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotRequest struct {
	Day   string `json:"day" validate:"required,weekday"`
	Time  string `json:"time" validate:"required,clock"`
	Notes string `json:"notes" validate:"omitempty,max=5"`
}

func TestCustomRules(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		req  slotRequest
		want map[string]string
	}{
		{"valid", slotRequest{Day: "monday", Time: "09:30"}, nil},
		{"padded day", slotRequest{Day: " Friday ", Time: "23:59"}, nil},
		{"bad day", slotRequest{Day: "Funday", Time: "09:30"}, map[string]string{
			"day": "day must be a day of the week (MONDAY..SUNDAY)",
		}},
		{"bad clock", slotRequest{Day: "SUNDAY", Time: "25:00"}, map[string]string{
			"time": "time must be a time in HH:MM format",
		}},
		{"missing and too long", slotRequest{Time: "10:00", Notes: "too long"}, map[string]string{
			"day":   "day is required",
			"notes": "notes must be at most 5 characters",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.want, v.FormatValidationErrors(err))
		})
	}
}
