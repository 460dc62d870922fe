package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-scheduling/internal/converter"
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/domain/repository"
	repoImpl "clinic-scheduling/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EventPublisher hands lifecycle notifications to the event emitter.
// Publish must not block and never reports failure to the caller.
type EventPublisher interface {
	Publish(ctx context.Context, eventType entity.AppointmentEventType, appointment *entity.Appointment, actor entity.Actor)
}

type AppointmentUsecase interface {
	Create(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Update(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	Delete(ctx context.Context, actor entity.Actor, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	FindAll(ctx context.Context) (*dto.AppointmentListResponse, error)
	FindByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error)
	FindByStatus(ctx context.Context, code string) (*dto.AppointmentListResponse, error)
	FindByDateRange(ctx context.Context, from, to time.Time) (*dto.AppointmentListResponse, error)
	Search(ctx context.Context, query *dto.AppointmentQuery) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	statusRepo      repository.AppointmentStatusRepository
	userRepo        repository.UserRepository
	specialtyRepo   repository.SpecialtyRepository
	publisher       EventPublisher
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	statusRepo repository.AppointmentStatusRepository,
	userRepo repository.UserRepository,
	specialtyRepo repository.SpecialtyRepository,
	publisher EventPublisher,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		statusRepo:      statusRepo,
		userRepo:        userRepo,
		specialtyRepo:   specialtyRepo,
		publisher:       publisher,
	}
}

// Create books a new appointment. The status is always the catalog's SCHEDULED entry.
//
// Flow:
// 1. Reject dates that are not strictly in the future
// 2. Resolve the doctor (must hold DOCTOR) and the specialty
// 3. Insert with audit fields taken from actor, commit
// 4. Publish CREATED
func (u *appointmentUsecase) Create(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if !actor.Valid() {
		return nil, ErrMissingActor
	}

	if !req.ScheduledAt.After(u.db.NowFunc()) {
		return nil, ErrScheduledInPast
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.findDoctor(tx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	specialty, err := u.findSpecialty(tx, req.SpecialtyID)
	if err != nil {
		return nil, err
	}

	initial, err := u.findStatus(tx, entity.StatusCodeScheduled)
	if err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		PatientName: req.PatientName,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
	}
	appointment.AssignDoctor(doctor)
	appointment.AssignSpecialty(specialty)
	appointment.Transition(initial)

	if err := u.appointmentRepo.Create(tx, actor, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit appointment creation: %+v", err)
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"appointment_id": appointment.ID,
		"doctor_id":      appointment.DoctorID,
		"actor":          actor.Auditor(),
	}).Info("Appointment created")

	u.publisher.Publish(ctx, entity.AppointmentEventCreated, appointment, actor)

	return converter.AppointmentToResponse(appointment), nil
}

// Update edits an appointment and moves it to req.StatusCode.
//
// Checks run in this order: appointment exists, not completed, new date in the future,
// new doctor valid, new specialty exists, target status exists, actor may perform the transition.
func (u *appointmentUsecase) Update(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if !actor.Valid() {
		return nil, ErrMissingActor
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findAppointment(tx, id)
	if err != nil {
		return nil, err
	}

	if appointment.IsCompleted() {
		return nil, ErrAppointmentCompleted
	}

	assignedDoctorID := appointment.DoctorID

	if req.ScheduledAt != nil {
		if !req.ScheduledAt.After(u.db.NowFunc()) {
			return nil, ErrScheduledInPast
		}
		appointment.ScheduledAt = *req.ScheduledAt
	}

	if req.DoctorID != nil {
		doctor, err := u.findDoctor(tx, *req.DoctorID)
		if err != nil {
			return nil, err
		}
		appointment.AssignDoctor(doctor)
	}

	if req.SpecialtyID != nil {
		specialty, err := u.findSpecialty(tx, *req.SpecialtyID)
		if err != nil {
			return nil, err
		}
		appointment.AssignSpecialty(specialty)
	}

	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	target, err := u.findStatus(tx, req.StatusCode)
	if err != nil {
		return nil, err
	}

	if err := authorizeTransition(actor, assignedDoctorID, appointment.DoctorID, target); err != nil {
		u.log.WithFields(logrus.Fields{
			"appointment_id": appointment.ID,
			"actor":          actor.Auditor(),
			"role":           actor.Role,
			"target_status":  target.Code,
		}).Info("Appointment transition rejected")
		return nil, err
	}

	from := appointment.Status.Code
	appointment.Transition(target)

	if err := u.appointmentRepo.Update(tx, actor, appointment); err != nil {
		if errors.Is(err, repoImpl.ErrStale) {
			return nil, ErrAppointmentNotFound
		}
		u.log.Warnf("Failed to update appointment %s: %+v", id, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit appointment update: %+v", err)
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"appointment_id": appointment.ID,
		"from_status":    from,
		"to_status":      target.Code,
		"actor":          actor.Auditor(),
	}).Info("Appointment updated")

	u.publisher.Publish(ctx, entity.AppointmentEventUpdated, appointment, actor)

	return converter.AppointmentToResponse(appointment), nil
}

// Delete soft-deletes an appointment. Only an admin may delete, and never a completed appointment.
// DELETED is published with the pre-deletion snapshot before the row is marked.
func (u *appointmentUsecase) Delete(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	if !actor.Valid() {
		return ErrMissingActor
	}
	if !actor.IsAdmin() {
		return ErrAdminOnlyDelete
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findAppointment(tx, id)
	if err != nil {
		return err
	}

	if appointment.IsCompleted() {
		return ErrCompletedNotDeletable
	}

	u.publisher.Publish(ctx, entity.AppointmentEventDeleted, appointment, actor)

	if err := u.appointmentRepo.SoftDelete(tx, actor, appointment); err != nil {
		if errors.Is(err, repoImpl.ErrStale) {
			return ErrAppointmentNotFound
		}
		u.log.Warnf("Failed to delete appointment %s: %+v", id, err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit appointment deletion: %+v", err)
		return err
	}

	u.log.WithFields(logrus.Fields{
		"appointment_id": appointment.ID,
		"actor":          actor.Auditor(),
	}).Info("Appointment deleted")

	return nil
}

func (u *appointmentUsecase) FindByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) FindAll(ctx context.Context) (*dto.AppointmentListResponse, error) {
	return u.list(ctx, nil)
}

func (u *appointmentUsecase) FindByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error) {
	return u.list(ctx, &entity.AppointmentFilter{DoctorID: doctorID})
}

// FindByStatus lists appointments in the live status with the given code.
// An unknown code matches nothing.
func (u *appointmentUsecase) FindByStatus(ctx context.Context, code string) (*dto.AppointmentListResponse, error) {
	return u.list(ctx, &entity.AppointmentFilter{StatusCode: normalizeCode(code)})
}

// FindByDateRange lists appointments scheduled within [from, to].
func (u *appointmentUsecase) FindByDateRange(ctx context.Context, from, to time.Time) (*dto.AppointmentListResponse, error) {
	return u.Search(ctx, &dto.AppointmentQuery{From: &from, To: &to})
}

func (u *appointmentUsecase) Search(ctx context.Context, query *dto.AppointmentQuery) (*dto.AppointmentListResponse, error) {
	if query == nil {
		return u.list(ctx, nil)
	}
	if query.From != nil && query.To != nil && query.From.After(*query.To) {
		return nil, ErrInvalidDateRange
	}
	return u.list(ctx, &entity.AppointmentFilter{
		DoctorID:   query.DoctorID,
		StatusCode: normalizeCode(query.StatusCode),
		From:       query.From,
		To:         query.To,
	})
}

func (u *appointmentUsecase) list(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// authorizeTransition applies the role policy for moving an appointment to target.
// A doctor must own the appointment both before and after the change.
func authorizeTransition(actor entity.Actor, assignedDoctorID, newDoctorID uuid.UUID, target *entity.AppointmentStatus) error {
	if actor.IsAdmin() {
		return nil
	}
	if target.RequiresClinician() && !actor.IsDoctor() {
		return ErrClinicianOnly
	}
	if actor.IsDoctor() && (assignedDoctorID != actor.UserID || newDoctorID != actor.UserID) {
		return ErrNotOwnAppointment
	}
	return nil
}

func (u *appointmentUsecase) findAppointment(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

func (u *appointmentUsecase) findDoctor(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	user, err := u.userRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrDoctorNotFound
	}
	if !user.IsDoctor() {
		return nil, ErrNotADoctor
	}
	return user, nil
}

func (u *appointmentUsecase) findSpecialty(db *gorm.DB, id int64) (*entity.Specialty, error) {
	specialty, err := u.specialtyRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find specialty %d: %+v", id, err)
		return nil, err
	}
	if specialty == nil {
		return nil, ErrSpecialtyNotFound
	}
	return specialty, nil
}

func (u *appointmentUsecase) findStatus(db *gorm.DB, code string) (*entity.AppointmentStatus, error) {
	status, err := u.statusRepo.FindByCode(db, normalizeCode(code))
	if err != nil {
		u.log.Warnf("Failed to find status %s: %+v", code, err)
		return nil, err
	}
	if status == nil {
		return nil, ErrStatusNotFound
	}
	return status, nil
}
