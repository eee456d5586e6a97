package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind selects the template an external mailer renders
type NotificationKind string

const (
	NotificationAppointmentRequested   NotificationKind = "appointment_requested"
	NotificationAppointmentReceived    NotificationKind = "appointment_received"
	NotificationAppointmentAccepted    NotificationKind = "appointment_accepted"
	NotificationAppointmentRejected    NotificationKind = "appointment_rejected"
	NotificationAppointmentCanceled    NotificationKind = "appointment_canceled"
	NotificationAppointmentRescheduled NotificationKind = "appointment_rescheduled"
	NotificationDoctorApplication      NotificationKind = "doctor_application"
)

// Notification is an outbound request emitted by an operation and dispatched after commit.
// Delivery is best effort and never affects the operation that produced it.
type Notification struct {
	ID        uuid.UUID         `json:"id"`
	Recipient string            `json:"recipient"`
	Kind      NotificationKind  `json:"kind"`
	Context   map[string]string `json:"context,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func NewNotification(recipient string, kind NotificationKind, context map[string]string) Notification {
	return Notification{
		ID:        uuid.New(),
		Recipient: recipient,
		Kind:      kind,
		Context:   context,
		CreatedAt: time.Now().UTC(),
	}
}
