package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-scheduling/config"
	"clinic-scheduling/internal/converter"
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/domain/repository"
	repoImpl "clinic-scheduling/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserUsecase interface {
	Create(ctx context.Context, actor entity.Actor, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	List(ctx context.Context) (*dto.UserListResponse, error)
	FindByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	Deactivate(ctx context.Context, actor entity.Actor, id uuid.UUID) error
	EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error
}

type userUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	userRepo    repository.UserRepository
	redisClient *redis.Client
}

func NewUserUsecase(db *gorm.DB, log *logrus.Logger, userRepo repository.UserRepository, redisClient *redis.Client) UserUsecase {
	return &userUsecase{
		db:          db,
		log:         log,
		userRepo:    userRepo,
		redisClient: redisClient,
	}
}

func (u *userUsecase) Create(ctx context.Context, actor entity.Actor, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !actor.Valid() {
		return nil, ErrMissingActor
	}
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	role := entity.UserRole(strings.ToUpper(req.Role))
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := u.create(ctx, actor, req.Name, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role, "actor": actor.Auditor()}).Info("User created")
	return converter.UserToResponse(user), nil
}

func (u *userUsecase) List(ctx context.Context) (*dto.UserListResponse, error) {
	users, err := u.userRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list users: %+v", err)
		return nil, err
	}
	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: len(users),
	}, nil
}

func (u *userUsecase) FindByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", id, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

// Deactivate soft-deletes a user and revokes their access tokens. Only an admin may do it,
// and never on their own account. Appointments keep referencing the deactivated doctor.
func (u *userUsecase) Deactivate(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	if !actor.Valid() {
		return ErrMissingActor
	}
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}
	if actor.UserID == id {
		return ErrSelfDeactivation
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", id, err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := u.userRepo.SoftDelete(tx, actor, user); err != nil {
		if errors.Is(err, repoImpl.ErrStale) {
			return ErrUserNotFound
		}
		u.log.Warnf("Failed to deactivate user %s: %+v", id, err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit user deactivation: %+v", err)
		return err
	}

	// The deactivation stands; tokens missed here expire on their own
	if err := revokeAccessTokens(ctx, u.redisClient, id); err != nil {
		u.log.Warnf("Failed to revoke access tokens of user %s: %+v", id, err)
	}

	u.log.WithFields(logrus.Fields{"user_id": id, "actor": actor.Auditor()}).Info("User deactivated")
	return nil
}

// EnsureAdmin creates the configured administrator when the email is not registered yet.
// Nothing happens when no admin credentials are configured.
func (u *userUsecase) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		u.log.Debug("No bootstrap admin configured")
		return nil
	}

	existing, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), normalizeEmail(cfg.Email))
	if err != nil {
		u.log.Warnf("Failed to look up bootstrap admin: %+v", err)
		return err
	}
	if existing != nil {
		return nil
	}

	user, err := u.create(ctx, entity.Actor{}, cfg.Name, cfg.Email, cfg.Password, entity.RoleAdmin)
	if err != nil {
		return err
	}

	u.log.WithField("user_id", user.ID).Info("Bootstrap admin created")
	return nil
}

func (u *userUsecase) create(ctx context.Context, actor entity.Actor, name, email, password string, role entity.UserRole) (*entity.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Name:     strings.TrimSpace(name),
		Email:    normalizeEmail(email),
		Password: string(hashedPassword),
		Role:     role,
	}

	if err := u.userRepo.Create(u.db.WithContext(ctx), actor, user); err != nil {
		if errors.Is(err, repoImpl.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
