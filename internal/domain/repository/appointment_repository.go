package repository

import (
	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentRepository persists appointments. Every read excludes soft-deleted rows
// except FindByIDIncludingDeleted, which exists for inspection and is not used by
// the lifecycle operations.
type AppointmentRepository interface {
	Create(db *gorm.DB, actor entity.Actor, appointment *entity.Appointment) error
	Update(db *gorm.DB, actor entity.Actor, appointment *entity.Appointment) error
	SoftDelete(db *gorm.DB, actor entity.Actor, appointment *entity.Appointment) error
	Restore(db *gorm.DB, actor entity.Actor, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	CountByStatus(db *gorm.DB, statusID int64) (int64, error)
	FindByIDIncludingDeleted(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
}
