package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a clinic staff account. Doctors are users holding RoleDoctor.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"type:varchar(100);not null" json:"name"`
	Email    string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password string    `gorm:"type:text;not null" json:"-"`
	Role     UserRole  `gorm:"type:varchar(20);not null;index" json:"role"`

	AuditFields
	SoftDeleteFields
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID when none was set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}
