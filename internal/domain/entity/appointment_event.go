package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentEventType identifies a lifecycle change.
type AppointmentEventType string

const (
	AppointmentEventCreated AppointmentEventType = "CREATED"
	AppointmentEventUpdated AppointmentEventType = "UPDATED"
	AppointmentEventDeleted AppointmentEventType = "DELETED"
)

// AppointmentEvent is the notification published for downstream consumers.
// Events are routed by AppointmentID so that one appointment's events stay ordered.
type AppointmentEvent struct {
	EventID       uuid.UUID            `json:"event_id"`
	EventType     AppointmentEventType `json:"event_type"`
	AppointmentID uuid.UUID            `json:"appointment_id"`
	PatientName   string               `json:"patient_name"`
	DoctorName    string               `json:"doctor_name"`
	SpecialtyName string               `json:"specialty_name"`
	StatusCode    string               `json:"status_code"`
	ScheduledAt   time.Time            `json:"scheduled_at"`
	Timestamp     time.Time            `json:"timestamp"`
	PerformedBy   string               `json:"performed_by"`
}

// RoutingKey is the partition key of the event.
func (e *AppointmentEvent) RoutingKey() string {
	return e.AppointmentID.String()
}
