package entity

import (
	"fmt"
	"strings"
)

// AppointmentStatus is a state of the appointment lifecycle
type AppointmentStatus string

const (
	AppointmentStatusPending     AppointmentStatus = "PENDING"
	AppointmentStatusAccepted    AppointmentStatus = "ACCEPTED"
	AppointmentStatusConfirmed   AppointmentStatus = "CONFIRMED"
	AppointmentStatusCanceled    AppointmentStatus = "CANCELED"
	AppointmentStatusCompleted   AppointmentStatus = "COMPLETED"
	AppointmentStatusRejected    AppointmentStatus = "REJECTED"
	AppointmentStatusNoShow      AppointmentStatus = "NO_SHOW"
	AppointmentStatusRescheduled AppointmentStatus = "RESCHEDULED"
	AppointmentStatusWaitingList AppointmentStatus = "WAITING_LIST"
)

// LiveAppointmentStatuses occupy their slot for conflict detection
var LiveAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusAccepted,
}

// transitions lists the legal edges. CONFIRMED, RESCHEDULED and WAITING_LIST are never
// produced by this service but may exist in imported data; they follow ACCEPTED and PENDING.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending: {
		AppointmentStatusAccepted, AppointmentStatusRejected, AppointmentStatusCanceled, AppointmentStatusRescheduled,
	},
	AppointmentStatusAccepted: {
		AppointmentStatusCanceled, AppointmentStatusRescheduled, AppointmentStatusCompleted, AppointmentStatusNoShow,
	},
	AppointmentStatusConfirmed: {
		AppointmentStatusCanceled, AppointmentStatusRescheduled, AppointmentStatusCompleted, AppointmentStatusNoShow,
	},
	AppointmentStatusRescheduled: {
		AppointmentStatusAccepted, AppointmentStatusRejected, AppointmentStatusCanceled, AppointmentStatusRescheduled,
	},
	AppointmentStatusWaitingList: {
		AppointmentStatusAccepted, AppointmentStatusRejected, AppointmentStatusCanceled, AppointmentStatusRescheduled,
	},
}

func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case AppointmentStatusPending, AppointmentStatusAccepted, AppointmentStatusConfirmed,
		AppointmentStatusCanceled, AppointmentStatusCompleted, AppointmentStatusRejected,
		AppointmentStatusNoShow, AppointmentStatusRescheduled, AppointmentStatusWaitingList:
		return status, nil
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

// IsTerminal reports whether no further transition is permitted
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case AppointmentStatusCompleted, AppointmentStatusCanceled, AppointmentStatusRejected, AppointmentStatusNoShow:
		return true
	}
	return false
}

// IsLive reports whether an appointment in this status occupies its slot
func (s AppointmentStatus) IsLive() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusAccepted
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StatusAfterReschedule is the status an appointment carries once its time moved.
// An accepted slot must be re-approved by the doctor; anything else keeps its status.
func (s AppointmentStatus) StatusAfterReschedule() AppointmentStatus {
	if s == AppointmentStatusAccepted {
		return AppointmentStatusPending
	}
	return s
}
