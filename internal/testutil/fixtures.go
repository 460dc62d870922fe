package testutil

import (
	"testing"

	"clinic-scheduling/internal/domain/entity"

	"gorm.io/gorm"
)

// Admin is an actor allowed to perform every operation.
func Admin(db *gorm.DB, t *testing.T) entity.Actor {
	t.Helper()
	return AsActor(SeedUser(db, t, "Ada Admin", "admin@clinic.test", entity.RoleAdmin))
}

// AsActor returns the actor authenticated as user.
func AsActor(user *entity.User) entity.Actor {
	return entity.Actor{UserID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
}

// SeedUser inserts a user row directly.
func SeedUser(db *gorm.DB, t *testing.T, name, email string, role entity.UserRole) *entity.User {
	t.Helper()
	user := &entity.User{Name: name, Email: email, Password: "x", Role: role}
	user.StampCreated(entity.SystemAuditor, Now)
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

// SeedSpecialty inserts a specialty row directly.
func SeedSpecialty(db *gorm.DB, t *testing.T, code, name string) *entity.Specialty {
	t.Helper()
	specialty := &entity.Specialty{Code: code, Name: name}
	specialty.StampCreated(entity.SystemAuditor, Now)
	if err := db.Create(specialty).Error; err != nil {
		t.Fatalf("seed specialty %s: %v", code, err)
	}
	return specialty
}

// SeedStatuses inserts the default status catalog and returns it keyed by code.
func SeedStatuses(db *gorm.DB, t *testing.T) map[string]*entity.AppointmentStatus {
	t.Helper()
	statuses := make(map[string]*entity.AppointmentStatus, len(entity.DefaultStatuses))
	for _, def := range entity.DefaultStatuses {
		status := def
		status.StampCreated(entity.SystemAuditor, Now)
		if err := db.Create(&status).Error; err != nil {
			t.Fatalf("seed status %s: %v", def.Code, err)
		}
		statuses[status.Code] = &status
	}
	return statuses
}
