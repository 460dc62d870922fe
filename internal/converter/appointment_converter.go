package converter

import (
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
)

// AppointmentToResponse projects an appointment with its doctor, specialty and status summaries.
// The relations must be loaded; soft-delete columns are never exposed.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:          appointment.ID,
		PatientName: appointment.PatientName,
		Doctor:      *UserToResponse(&appointment.Doctor),
		Specialty:   *SpecialtyToResponse(&appointment.Specialty),
		Status:      *StatusToResponse(&appointment.Status),
		ScheduledAt: appointment.ScheduledAt,
		Notes:       appointment.Notes,
		CreatedAt:   appointment.CreatedAt,
		CreatedBy:   appointment.CreatedBy,
		UpdatedAt:   appointment.UpdatedAt,
		UpdatedBy:   appointment.UpdatedBy,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// AppointmentToEvent builds the lifecycle notification payload from an appointment snapshot.
func AppointmentToEvent(eventType entity.AppointmentEventType, appointment *entity.Appointment, actor entity.Actor) *entity.AppointmentEvent {
	performedBy := actor.Name
	if performedBy == "" {
		performedBy = actor.Auditor()
	}
	return &entity.AppointmentEvent{
		EventType:     eventType,
		AppointmentID: appointment.ID,
		PatientName:   appointment.PatientName,
		DoctorName:    appointment.Doctor.Name,
		SpecialtyName: appointment.Specialty.Name,
		StatusCode:    appointment.Status.Code,
		ScheduledAt:   appointment.ScheduledAt,
		PerformedBy:   performedBy,
	}
}
