package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentFilter is a domain-level filter for listing appointments.
// Zero fields are ignored; From and To bound ScheduledAt inclusively.
type AppointmentFilter struct {
	DoctorID   uuid.UUID
	StatusCode string
	From       *time.Time
	To         *time.Time
}
