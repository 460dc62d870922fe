package usecase

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by a usecase for a rule or lookup failure wraps exactly one
// of these, so the delivery layer can branch with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrBusinessRule = errors.New("business rule violation")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrAppointmentNotFound = fmt.Errorf("appointment %w", ErrNotFound)
	ErrDoctorNotFound      = fmt.Errorf("doctor %w", ErrNotFound)
	ErrSpecialtyNotFound   = fmt.Errorf("specialty %w", ErrNotFound)
	ErrStatusNotFound      = fmt.Errorf("status %w", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
)

var (
	ErrScheduledInPast       = fmt.Errorf("%w: scheduled date must be in the future", ErrBusinessRule)
	ErrNotADoctor            = fmt.Errorf("%w: assigned user is not a doctor", ErrBusinessRule)
	ErrAppointmentCompleted  = fmt.Errorf("%w: completed appointments are immutable", ErrBusinessRule)
	ErrCompletedNotDeletable = fmt.Errorf("%w: completed appointments cannot be deleted", ErrBusinessRule)
	ErrClinicianOnly         = fmt.Errorf("%w: only a doctor or admin can start or complete an appointment", ErrBusinessRule)
	ErrNotOwnAppointment     = fmt.Errorf("%w: doctors can update their own appointments only", ErrBusinessRule)
	ErrAdminOnlyDelete       = fmt.Errorf("%w: only an admin can delete appointments", ErrBusinessRule)
	ErrAdminOnly             = fmt.Errorf("%w: admin role required", ErrBusinessRule)
	ErrInvalidDateRange      = fmt.Errorf("%w: range start is after range end", ErrBusinessRule)
	ErrBuiltinStatus         = fmt.Errorf("%w: built-in statuses cannot be removed", ErrBusinessRule)
	ErrStatusInUse           = fmt.Errorf("%w: status is assigned to appointments", ErrBusinessRule)
	ErrStatusCodeExists      = fmt.Errorf("%w: status code already exists", ErrBusinessRule)
	ErrSpecialtyCodeExists   = fmt.Errorf("%w: specialty code already exists", ErrBusinessRule)
	ErrEmailAlreadyExists    = fmt.Errorf("%w: email already exists", ErrBusinessRule)
	ErrInvalidRole           = fmt.Errorf("%w: unknown role", ErrBusinessRule)
	ErrSelfDeactivation      = fmt.Errorf("%w: users cannot deactivate themselves", ErrBusinessRule)
	ErrPasswordMismatch      = fmt.Errorf("%w: new password and confirmation do not match", ErrBusinessRule)
	ErrPasswordUnchanged     = fmt.Errorf("%w: new password must differ from the current one", ErrBusinessRule)
)

var (
	ErrMissingActor       = fmt.Errorf("%w: no authenticated actor", ErrUnauthorized)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	ErrIncorrectPassword  = fmt.Errorf("%w: current password is incorrect", ErrUnauthorized)
)
