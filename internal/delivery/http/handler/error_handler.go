package handler

import (
	"errors"
	"net/http"
	"strings"

	"clinic-scheduling/internal/usecase"
	"clinic-scheduling/pkg/response"
)

// writeError maps a usecase error onto the response envelope by its class.
// Unclassified errors are reported as fallback without leaking the cause.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		response.NotFound(w, message(err))
	case errors.Is(err, usecase.ErrBusinessRule):
		response.UnprocessableEntity(w, message(err))
	case errors.Is(err, usecase.ErrUnauthorized):
		response.Unauthorized(w, message(err))
	default:
		response.InternalServerError(w, fallback)
	}
}

// message strips the class prefix so "business rule violation: x" reads as "x".
func message(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
