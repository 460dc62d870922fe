package entity

// UserRole is the authorization role held by a user.
type UserRole string

const (
	RoleAdmin        UserRole = "ADMIN"
	RoleDoctor       UserRole = "DOCTOR"
	RoleReceptionist UserRole = "RECEPTIONIST"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleReceptionist:
		return true
	}
	return false
}
