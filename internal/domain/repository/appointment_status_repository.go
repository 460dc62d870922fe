package repository

import (
	"clinic-scheduling/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentStatusRepository interface {
	Create(db *gorm.DB, actor entity.Actor, status *entity.AppointmentStatus) error
	FindByCode(db *gorm.DB, code string) (*entity.AppointmentStatus, error)
	FindAll(db *gorm.DB) ([]entity.AppointmentStatus, error)
	SoftDelete(db *gorm.DB, actor entity.Actor, status *entity.AppointmentStatus) error
}
