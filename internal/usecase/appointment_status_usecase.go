package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-scheduling/internal/converter"
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/domain/repository"
	repoImpl "clinic-scheduling/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AppointmentStatusUsecase manages the status catalog.
type AppointmentStatusUsecase interface {
	EnsureDefaults(ctx context.Context) error
	Lookup(ctx context.Context, code string) (*dto.StatusResponse, error)
	ListActive(ctx context.Context) (*dto.StatusListResponse, error)
	Create(ctx context.Context, actor entity.Actor, req *dto.CreateStatusRequest) (*dto.StatusResponse, error)
	Delete(ctx context.Context, actor entity.Actor, code string) error
}

type appointmentStatusUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	statusRepo      repository.AppointmentStatusRepository
	appointmentRepo repository.AppointmentRepository
}

func NewAppointmentStatusUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	statusRepo repository.AppointmentStatusRepository,
	appointmentRepo repository.AppointmentRepository,
) AppointmentStatusUsecase {
	return &appointmentStatusUsecase{
		db:              db,
		log:             log,
		statusRepo:      statusRepo,
		appointmentRepo: appointmentRepo,
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// EnsureDefaults creates each built-in status that is missing. Existing entries are left untouched,
// so it is safe to run on every start.
func (u *appointmentStatusUsecase) EnsureDefaults(ctx context.Context) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	created := 0
	for _, def := range entity.DefaultStatuses {
		existing, err := u.statusRepo.FindByCode(tx, def.Code)
		if err != nil {
			u.log.Warnf("Failed to look up status %s: %+v", def.Code, err)
			return err
		}
		if existing != nil {
			continue
		}

		status := def
		if err := u.statusRepo.Create(tx, entity.Actor{}, &status); err != nil {
			u.log.Warnf("Failed to create default status %s: %+v", def.Code, err)
			return err
		}
		created++
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit default statuses: %+v", err)
		return err
	}

	u.log.WithField("created", created).Info("Status catalog initialized")
	return nil
}

func (u *appointmentStatusUsecase) Lookup(ctx context.Context, code string) (*dto.StatusResponse, error) {
	status, err := u.statusRepo.FindByCode(u.db.WithContext(ctx), normalizeCode(code))
	if err != nil {
		u.log.Warnf("Failed to find status %s: %+v", code, err)
		return nil, err
	}
	if status == nil {
		return nil, ErrStatusNotFound
	}
	return converter.StatusToResponse(status), nil
}

func (u *appointmentStatusUsecase) ListActive(ctx context.Context) (*dto.StatusListResponse, error) {
	statuses, err := u.statusRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list statuses: %+v", err)
		return nil, err
	}
	return &dto.StatusListResponse{
		Statuses: converter.StatusesToResponses(statuses),
		Total:    len(statuses),
	}, nil
}

func (u *appointmentStatusUsecase) Create(ctx context.Context, actor entity.Actor, req *dto.CreateStatusRequest) (*dto.StatusResponse, error) {
	if !actor.Valid() {
		return nil, ErrMissingActor
	}
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	code := normalizeCode(req.Code)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.statusRepo.FindByCode(tx, code)
	if err != nil {
		u.log.Warnf("Failed to look up status %s: %+v", code, err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrStatusCodeExists
	}

	status := &entity.AppointmentStatus{Code: code, Description: strings.TrimSpace(req.Description)}
	if err := u.statusRepo.Create(tx, actor, status); err != nil {
		if errors.Is(err, repoImpl.ErrDuplicate) {
			return nil, ErrStatusCodeExists
		}
		u.log.Warnf("Failed to create status %s: %+v", code, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit status creation: %+v", err)
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"code": code, "actor": actor.Auditor()}).Info("Status created")
	return converter.StatusToResponse(status), nil
}

// Delete soft-deletes a custom status that no live appointment uses.
func (u *appointmentStatusUsecase) Delete(ctx context.Context, actor entity.Actor, code string) error {
	if !actor.Valid() {
		return ErrMissingActor
	}
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}

	code = normalizeCode(code)
	if entity.IsBuiltinStatus(code) {
		return ErrBuiltinStatus
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	status, err := u.statusRepo.FindByCode(tx, code)
	if err != nil {
		u.log.Warnf("Failed to find status %s: %+v", code, err)
		return err
	}
	if status == nil {
		return ErrStatusNotFound
	}

	inUse, err := u.appointmentRepo.CountByStatus(tx, status.ID)
	if err != nil {
		u.log.Warnf("Failed to count appointments in status %s: %+v", code, err)
		return err
	}
	if inUse > 0 {
		return ErrStatusInUse
	}

	if err := u.statusRepo.SoftDelete(tx, actor, status); err != nil {
		if errors.Is(err, repoImpl.ErrStale) {
			return ErrStatusNotFound
		}
		u.log.Warnf("Failed to delete status %s: %+v", code, err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit status deletion: %+v", err)
		return err
	}

	u.log.WithFields(logrus.Fields{"code": code, "actor": actor.Auditor()}).Info("Status deleted")
	return nil
}
