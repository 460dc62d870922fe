package repository

import (
	"clinic-scheduling/internal/domain/entity"
	domainRepo "clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	appointments table[entity.Appointment, *entity.Appointment]
	statuses     table[entity.AppointmentStatus, *entity.AppointmentStatus]
}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func withRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Doctor").Preload("Specialty").Preload("Status")
}

func (r *appointmentRepository) Create(db *gorm.DB, actor entity.Actor, appointment *entity.Appointment) error {
	return r.appointments.create(db, actor, appointment)
}

func (r *appointmentRepository) Update(db *gorm.DB, actor entity.Actor, appointment *entity.Appointment) error {
	return r.appointments.save(db, actor, appointment)
}

func (r *appointmentRepository) SoftDelete(db *gorm.DB, actor entity.Actor, appointment *entity.Appointment) error {
	return r.appointments.softDelete(db, actor, appointment)
}

func (r *appointmentRepository) Restore(db *gorm.DB, actor entity.Actor, appointment *entity.Appointment) error {
	return r.appointments.restore(db, actor, appointment)
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	return r.appointments.first(withRelations(r.appointments.query(db)).Where("id = ?", id))
}

func (r *appointmentRepository) FindByIDIncludingDeleted(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	return r.appointments.first(withRelations(r.appointments.unscoped(db)).Where("id = ?", id))
}

// FindAll lists non-deleted appointments matching filter, earliest first.
// A status code filter only matches live catalog entries.
func (r *appointmentRepository) FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	q := withRelations(r.appointments.query(db))

	if filter != nil {
		if filter.DoctorID != uuid.Nil {
			q = q.Where("doctor_id = ?", filter.DoctorID)
		}
		if filter.StatusCode != "" {
			sub := r.statuses.query(db.Session(&gorm.Session{NewDB: true})).
				Select("id").
				Where("code = ?", filter.StatusCode)
			q = q.Where("status_id IN (?)", sub)
		}
		if filter.From != nil {
			q = q.Where("scheduled_at >= ?", *filter.From)
		}
		if filter.To != nil {
			q = q.Where("scheduled_at <= ?", *filter.To)
		}
	}

	var appointments []entity.Appointment
	if err := q.Order("scheduled_at ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) CountByStatus(db *gorm.DB, statusID int64) (int64, error) {
	var count int64
	err := r.appointments.query(db).Where("status_id = ?", statusID).Count(&count).Error
	return count, err
}
