package handler

import (
	"encoding/json"
	"net/http"

	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/delivery/http/middleware"
	"clinic-scheduling/internal/usecase"
	"clinic-scheduling/pkg/response"
	"clinic-scheduling/pkg/validator"

	"github.com/gorilla/mux"
)

type StatusHandler struct {
	statusUsecase usecase.AppointmentStatusUsecase
	validator     *validator.CustomValidator
}

func NewStatusHandler(statusUsecase usecase.AppointmentStatusUsecase, validator *validator.CustomValidator) *StatusHandler {
	return &StatusHandler{
		statusUsecase: statusUsecase,
		validator:     validator,
	}
}

// GetStatuses lists the active status catalog
// @Summary List appointment statuses
// @Tags Statuses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /statuses [get]
func (h *StatusHandler) GetStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.statusUsecase.ListActive(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get statuses")
		return
	}

	response.Success(w, http.StatusOK, "Statuses retrieved successfully", statuses)
}

// GetStatus looks up a status by code
// @Summary Get status by code
// @Tags Statuses
// @Produce json
// @Security BearerAuth
// @Param code path string true "Status code"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /statuses/{code} [get]
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.statusUsecase.Lookup(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err, "Failed to get status")
		return
	}

	response.Success(w, http.StatusOK, "Status retrieved successfully", status)
}

// CreateStatus registers a custom status code
// @Summary Create a status (admin)
// @Tags Statuses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStatusRequest true "Create Status Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /statuses [post]
func (h *StatusHandler) CreateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	status, err := h.statusUsecase.Create(r.Context(), middleware.ActorFromContext(r.Context()), &req)
	if err != nil {
		writeError(w, err, "Failed to create status")
		return
	}

	response.Success(w, http.StatusCreated, "Status created successfully", status)
}

// DeleteStatus retires a custom status code
// @Summary Delete a status (admin)
// @Tags Statuses
// @Produce json
// @Security BearerAuth
// @Param code path string true "Status code"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /statuses/{code} [delete]
func (h *StatusHandler) DeleteStatus(w http.ResponseWriter, r *http.Request) {
	if err := h.statusUsecase.Delete(r.Context(), middleware.ActorFromContext(r.Context()), mux.Vars(r)["code"]); err != nil {
		writeError(w, err, "Failed to delete status")
		return
	}

	response.Success(w, http.StatusOK, "Status deleted successfully", nil)
}
