package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{AppointmentStatusPending, AppointmentStatusAccepted, true},
		{AppointmentStatusPending, AppointmentStatusRejected, true},
		{AppointmentStatusPending, AppointmentStatusCanceled, true},
		{AppointmentStatusPending, AppointmentStatusCompleted, false},
		{AppointmentStatusPending, AppointmentStatusNoShow, false},
		{AppointmentStatusAccepted, AppointmentStatusCompleted, true},
		{AppointmentStatusAccepted, AppointmentStatusNoShow, true},
		{AppointmentStatusAccepted, AppointmentStatusCanceled, true},
		{AppointmentStatusAccepted, AppointmentStatusRejected, false},
		{AppointmentStatusAccepted, AppointmentStatusPending, false},
		{AppointmentStatusCompleted, AppointmentStatusCanceled, false},
		{AppointmentStatusCanceled, AppointmentStatusAccepted, false},
		{AppointmentStatusRejected, AppointmentStatusAccepted, false},
		{AppointmentStatusNoShow, AppointmentStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAppointmentStatus_TerminalHasNoEdges(t *testing.T) {
	terminal := []AppointmentStatus{
		AppointmentStatusCompleted, AppointmentStatusCanceled, AppointmentStatusRejected, AppointmentStatusNoShow,
	}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), s)
		assert.Empty(t, transitions[s], s)
		assert.False(t, s.IsLive(), s)
	}
}

func TestAppointmentStatus_Live(t *testing.T) {
	assert.True(t, AppointmentStatusPending.IsLive())
	assert.True(t, AppointmentStatusAccepted.IsLive())
	assert.False(t, AppointmentStatusRescheduled.IsLive())
	assert.False(t, AppointmentStatusWaitingList.IsLive())
}

func TestAppointmentStatus_StatusAfterReschedule(t *testing.T) {
	assert.Equal(t, AppointmentStatusPending, AppointmentStatusAccepted.StatusAfterReschedule())
	assert.Equal(t, AppointmentStatusPending, AppointmentStatusPending.StatusAfterReschedule())
	assert.Equal(t, AppointmentStatusWaitingList, AppointmentStatusWaitingList.StatusAfterReschedule())
}

func TestParseAppointmentStatus(t *testing.T) {
	s, err := ParseAppointmentStatus(" no_show ")
	require.NoError(t, err)
	assert.Equal(t, AppointmentStatusNoShow, s)

	_, err = ParseAppointmentStatus("booked")
	assert.Error(t, err)
}
