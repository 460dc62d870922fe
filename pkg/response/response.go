package response

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(w http.ResponseWriter, statusCode int, message string, data interface{}, meta *Meta) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

func Error(w http.ResponseWriter, statusCode int, message string, err interface{}) {
	JSON(w, statusCode, Response{
		Success: false,
		Message: message,
		Error:   err,
	})
}

func ValidationError(w http.ResponseWriter, errors interface{}) {
	JSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: "Validation failed",
		Error:   errors,
	})
}

// status writes an error envelope, using fallback when message is empty.
func status(w http.ResponseWriter, statusCode int, message, fallback string) {
	if message == "" {
		message = fallback
	}
	Error(w, statusCode, message, nil)
}

func BadRequest(w http.ResponseWriter, message string) {
	status(w, http.StatusBadRequest, message, "Bad request")
}

func Unauthorized(w http.ResponseWriter, message string) {
	status(w, http.StatusUnauthorized, message, "Unauthorized")
}

func Forbidden(w http.ResponseWriter, message string) {
	status(w, http.StatusForbidden, message, "Forbidden")
}

func NotFound(w http.ResponseWriter, message string) {
	status(w, http.StatusNotFound, message, "Resource not found")
}

// UnprocessableEntity reports a well-formed request that breaks a business rule.
func UnprocessableEntity(w http.ResponseWriter, message string) {
	status(w, http.StatusUnprocessableEntity, message, "Request violates a business rule")
}

func InternalServerError(w http.ResponseWriter, message string) {
	status(w, http.StatusInternalServerError, message, "Internal server error")
}
