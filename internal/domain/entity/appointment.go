package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment is a scheduled encounter between a patient and a doctor under a specialty.
type Appointment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PatientName string    `gorm:"type:varchar(100);not null" json:"patient_name"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	SpecialtyID int64     `gorm:"not null" json:"specialty_id"`
	StatusID    int64     `gorm:"not null;index" json:"status_id"`
	ScheduledAt time.Time `gorm:"not null;index" json:"scheduled_at"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`

	AuditFields
	SoftDeleteFields

	// Relationships
	Doctor    User              `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Specialty Specialty         `gorm:"foreignKey:SpecialtyID" json:"specialty,omitempty"`
	Status    AppointmentStatus `gorm:"foreignKey:StatusID" json:"status,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// BeforeCreate assigns a UUID when none was set
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsCompleted checks if the appointment reached the terminal status
func (a *Appointment) IsCompleted() bool {
	return a.Status.IsTerminal()
}

// AssignDoctor points the appointment at doctor
func (a *Appointment) AssignDoctor(doctor *User) {
	a.DoctorID = doctor.ID
	a.Doctor = *doctor
}

// AssignSpecialty points the appointment at specialty
func (a *Appointment) AssignSpecialty(specialty *Specialty) {
	a.SpecialtyID = specialty.ID
	a.Specialty = *specialty
}

// Transition moves the appointment to status
func (a *Appointment) Transition(status *AppointmentStatus) {
	a.StatusID = status.ID
	a.Status = *status
}
