package entity

import "github.com/google/uuid"

// Actor is the authenticated identity performing an operation.
// It is resolved at the edge and passed explicitly into every mutating call.
type Actor struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Role   UserRole
}

// Valid reports whether the actor carries an identity and a known role.
func (a Actor) Valid() bool {
	return a.UserID != uuid.Nil && a.Role.Valid()
}

// Auditor returns the value recorded in audit and soft-delete columns.
func (a Actor) Auditor() string {
	if a.UserID == uuid.Nil {
		return SystemAuditor
	}
	if a.Email != "" {
		return a.Email
	}
	return a.UserID.String()
}

func (a Actor) IsAdmin() bool  { return a.Role == RoleAdmin }
func (a Actor) IsDoctor() bool { return a.Role == RoleDoctor }
