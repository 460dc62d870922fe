package repository

import (
	"clinic-scheduling/internal/domain/entity"
	domainRepo "clinic-scheduling/internal/domain/repository"

	"gorm.io/gorm"
)

type appointmentStatusRepository struct {
	statuses table[entity.AppointmentStatus, *entity.AppointmentStatus]
}

func NewAppointmentStatusRepository() domainRepo.AppointmentStatusRepository {
	return &appointmentStatusRepository{}
}

func (r *appointmentStatusRepository) Create(db *gorm.DB, actor entity.Actor, status *entity.AppointmentStatus) error {
	return r.statuses.create(db, actor, status)
}

// FindByCode returns the live catalog entry for code. Codes are unique among non-deleted rows,
// so a code freed by a soft delete can be registered again.
func (r *appointmentStatusRepository) FindByCode(db *gorm.DB, code string) (*entity.AppointmentStatus, error) {
	return r.statuses.first(r.statuses.query(db).Where("code = ?", code).Order("id DESC"))
}

func (r *appointmentStatusRepository) FindAll(db *gorm.DB) ([]entity.AppointmentStatus, error) {
	var statuses []entity.AppointmentStatus
	err := r.statuses.query(db).Order("id ASC").Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *appointmentStatusRepository) SoftDelete(db *gorm.DB, actor entity.Actor, status *entity.AppointmentStatus) error {
	return r.statuses.softDelete(db, actor, status)
}
