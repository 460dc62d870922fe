package converter

import (
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
)

func StatusToResponse(status *entity.AppointmentStatus) *dto.StatusResponse {
	if status == nil {
		return nil
	}
	return &dto.StatusResponse{
		ID:          status.ID,
		Code:        status.Code,
		Description: status.Description,
	}
}

func StatusesToResponses(statuses []entity.AppointmentStatus) []dto.StatusResponse {
	responses := make([]dto.StatusResponse, len(statuses))
	for i := range statuses {
		responses[i] = *StatusToResponse(&statuses[i])
	}
	return responses
}

func SpecialtyToResponse(specialty *entity.Specialty) *dto.SpecialtyResponse {
	if specialty == nil {
		return nil
	}
	return &dto.SpecialtyResponse{
		ID:          specialty.ID,
		Code:        specialty.Code,
		Name:        specialty.Name,
		Description: specialty.Description,
	}
}

func SpecialtiesToResponses(specialties []entity.Specialty) []dto.SpecialtyResponse {
	responses := make([]dto.SpecialtyResponse, len(specialties))
	for i := range specialties {
		responses[i] = *SpecialtyToResponse(&specialties[i])
	}
	return responses
}
