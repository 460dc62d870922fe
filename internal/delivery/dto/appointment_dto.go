package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientName string    `json:"patient_name" validate:"required,min=3,max=100"`
	DoctorID    uuid.UUID `json:"doctor_id" validate:"required"`
	SpecialtyID int64     `json:"specialty_id" validate:"required,min=1"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Notes       string    `json:"notes" validate:"max=1000"`
}

// UpdateAppointmentRequest changes only the fields that are set. StatusCode is always required.
type UpdateAppointmentRequest struct {
	DoctorID    *uuid.UUID `json:"doctor_id,omitempty"`
	SpecialtyID *int64     `json:"specialty_id,omitempty" validate:"omitempty,min=1"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Notes       *string    `json:"notes,omitempty" validate:"omitempty,max=1000"`
	StatusCode  string     `json:"status_code" validate:"required,max=50"`
}

// AppointmentQuery narrows a listing. Zero fields are ignored.
type AppointmentQuery struct {
	DoctorID   uuid.UUID
	StatusCode string
	From       *time.Time
	To         *time.Time
}

// Response DTOs

type AppointmentResponse struct {
	ID          uuid.UUID         `json:"id"`
	PatientName string            `json:"patient_name"`
	Doctor      UserResponse      `json:"doctor"`
	Specialty   SpecialtyResponse `json:"specialty"`
	Status      StatusResponse    `json:"status"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	CreatedBy   string            `json:"created_by"`
	UpdatedAt   time.Time         `json:"updated_at"`
	UpdatedBy   string            `json:"updated_by"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
