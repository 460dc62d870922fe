package dto

// Request DTOs

type CreateStatusRequest struct {
	Code        string `json:"code" validate:"required,max=50"`
	Description string `json:"description" validate:"required,max=100"`
}

type CreateSpecialtyRequest struct {
	Code        string `json:"code" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// Response DTOs

type StatusResponse struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

type StatusListResponse struct {
	Statuses []StatusResponse `json:"statuses"`
	Total    int              `json:"total"`
}

type SpecialtyResponse struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type SpecialtyListResponse struct {
	Specialties []SpecialtyResponse `json:"specialties"`
	Total       int                 `json:"total"`
}
