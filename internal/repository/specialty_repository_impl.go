package repository

import (
	"clinic-scheduling/internal/domain/entity"
	domainRepo "clinic-scheduling/internal/domain/repository"

	"gorm.io/gorm"
)

type specialtyRepository struct {
	specialties table[entity.Specialty, *entity.Specialty]
}

func NewSpecialtyRepository() domainRepo.SpecialtyRepository {
	return &specialtyRepository{}
}

func (r *specialtyRepository) Create(db *gorm.DB, actor entity.Actor, specialty *entity.Specialty) error {
	return r.specialties.create(db, actor, specialty)
}

func (r *specialtyRepository) FindByID(db *gorm.DB, id int64) (*entity.Specialty, error) {
	return r.specialties.first(r.specialties.query(db).Where("id = ?", id))
}

func (r *specialtyRepository) FindByCode(db *gorm.DB, code string) (*entity.Specialty, error) {
	return r.specialties.first(r.specialties.query(db).Where("code = ?", code))
}

func (r *specialtyRepository) FindAll(db *gorm.DB) ([]entity.Specialty, error) {
	var specialties []entity.Specialty
	err := r.specialties.query(db).Order("name ASC").Find(&specialties).Error
	if err != nil {
		return nil, err
	}
	return specialties, nil
}
