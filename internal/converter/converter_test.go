package converter

import (
	"testing"
	"time"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAppointment() *entity.Appointment {
	at := time.Date(2030, time.March, 1, 10, 0, 0, 0, time.UTC)
	a := &entity.Appointment{ID: uuid.New(), PatientName: "John Doe", ScheduledAt: at, Notes: "fasting"}
	a.AssignDoctor(&entity.User{ID: uuid.New(), Name: "Dr. Grey", Email: "grey@clinic.test", Password: "hash", Role: entity.RoleDoctor})
	a.AssignSpecialty(&entity.Specialty{ID: 2, Code: "CARD", Name: "Cardiology"})
	a.Transition(&entity.AppointmentStatus{ID: 1, Code: entity.StatusCodeScheduled, Description: "Appointment scheduled"})
	a.StampCreated("admin@clinic.test", at.Add(-time.Hour))
	return a
}

func TestAppointmentToResponse_ProjectsSummaries(t *testing.T) {
	a := sampleAppointment()

	got := AppointmentToResponse(a)
	require.NotNil(t, got)

	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "Dr. Grey", got.Doctor.Name)
	assert.Equal(t, "DOCTOR", got.Doctor.Role)
	assert.Equal(t, "CARD", got.Specialty.Code)
	assert.Equal(t, entity.StatusCodeScheduled, got.Status.Code)
	assert.Equal(t, "admin@clinic.test", got.CreatedBy)
	assert.Equal(t, "fasting", got.Notes)
}

func TestAppointmentToEvent_UsesActorDisplayName(t *testing.T) {
	a := sampleAppointment()
	actor := entity.Actor{UserID: uuid.New(), Name: "Ada Admin", Email: "admin@clinic.test", Role: entity.RoleAdmin}

	event := AppointmentToEvent(entity.AppointmentEventUpdated, a, actor)

	assert.Equal(t, entity.AppointmentEventUpdated, event.EventType)
	assert.Equal(t, a.ID.String(), event.RoutingKey())
	assert.Equal(t, "Dr. Grey", event.DoctorName)
	assert.Equal(t, "Cardiology", event.SpecialtyName)
	assert.Equal(t, entity.StatusCodeScheduled, event.StatusCode)
	assert.Equal(t, "Ada Admin", event.PerformedBy)
}

func TestAppointmentToEvent_FallsBackToAuditor(t *testing.T) {
	event := AppointmentToEvent(entity.AppointmentEventCreated, sampleAppointment(), entity.Actor{})

	assert.Equal(t, entity.SystemAuditor, event.PerformedBy)
}

func TestNilInputsProjectToNil(t *testing.T) {
	assert.Nil(t, AppointmentToResponse(nil))
	assert.Nil(t, UserToResponse(nil))
	assert.Nil(t, StatusToResponse(nil))
	assert.Nil(t, SpecialtyToResponse(nil))
}
