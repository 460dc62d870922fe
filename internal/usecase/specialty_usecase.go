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

type SpecialtyUsecase interface {
	Create(ctx context.Context, actor entity.Actor, req *dto.CreateSpecialtyRequest) (*dto.SpecialtyResponse, error)
	List(ctx context.Context) (*dto.SpecialtyListResponse, error)
}

type specialtyUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	specialtyRepo repository.SpecialtyRepository
}

func NewSpecialtyUsecase(db *gorm.DB, log *logrus.Logger, specialtyRepo repository.SpecialtyRepository) SpecialtyUsecase {
	return &specialtyUsecase{
		db:            db,
		log:           log,
		specialtyRepo: specialtyRepo,
	}
}

func (u *specialtyUsecase) Create(ctx context.Context, actor entity.Actor, req *dto.CreateSpecialtyRequest) (*dto.SpecialtyResponse, error) {
	if !actor.Valid() {
		return nil, ErrMissingActor
	}
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	specialty := &entity.Specialty{
		Code:        normalizeCode(req.Code),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}

	if err := u.specialtyRepo.Create(u.db.WithContext(ctx), actor, specialty); err != nil {
		if errors.Is(err, repoImpl.ErrDuplicate) {
			return nil, ErrSpecialtyCodeExists
		}
		u.log.Warnf("Failed to create specialty %s: %+v", specialty.Code, err)
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"code": specialty.Code, "actor": actor.Auditor()}).Info("Specialty created")
	return converter.SpecialtyToResponse(specialty), nil
}

func (u *specialtyUsecase) List(ctx context.Context) (*dto.SpecialtyListResponse, error) {
	specialties, err := u.specialtyRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list specialties: %+v", err)
		return nil, err
	}
	return &dto.SpecialtyListResponse{
		Specialties: converter.SpecialtiesToResponses(specialties),
		Total:       len(specialties),
	}, nil
}
