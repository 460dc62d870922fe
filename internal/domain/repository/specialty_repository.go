package repository

import (
	"clinic-scheduling/internal/domain/entity"

	"gorm.io/gorm"
)

type SpecialtyRepository interface {
	Create(db *gorm.DB, actor entity.Actor, specialty *entity.Specialty) error
	FindByID(db *gorm.DB, id int64) (*entity.Specialty, error)
	FindByCode(db *gorm.DB, code string) (*entity.Specialty, error)
	FindAll(db *gorm.DB) ([]entity.Specialty, error)
}
