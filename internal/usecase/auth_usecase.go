package usecase

import (
	"context"
	"errors"
	"fmt"

	"clinic-scheduling/internal/converter"
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/domain/repository"
	repoImpl "clinic-scheduling/internal/repository"
	"clinic-scheduling/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, actor entity.Actor, tokenID string) error
	Me(ctx context.Context, actor entity.Actor) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, actor entity.Actor, req *dto.ChangePasswordRequest) error
}

type authUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	userRepo    repository.UserRepository
	jwtService  *jwt.JWTService
	redisClient *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:          db,
		log:         log,
		userRepo:    userRepo,
		jwtService:  jwtService,
		redisClient: redisClient,
	}
}

// AccessTokenKey is the Redis key marking an issued access token as live.
func AccessTokenKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", userID.String(), tokenID)
}

// revokeAccessTokens deletes every live access token of userID.
func revokeAccessTokens(ctx context.Context, client *redis.Client, userID uuid.UUID) error {
	iter := client.Scan(ctx, 0, AccessTokenKey(userID, "*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return client.Del(ctx, keys...).Err()
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// Read-only, no transaction needed
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), normalizeEmail(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, tokenID, err := u.jwtService.GenerateAccessToken(user)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	if err := u.redisClient.Set(ctx, AccessTokenKey(user.ID, tokenID), "valid", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User logged in")

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// Logout revokes one access token. Revoking an unknown token is not an error.
func (u *authUsecase) Logout(ctx context.Context, actor entity.Actor, tokenID string) error {
	if !actor.Valid() {
		return ErrMissingActor
	}
	if err := u.redisClient.Del(ctx, AccessTokenKey(actor.UserID, tokenID)).Err(); err != nil {
		u.log.Warnf("Failed to delete access token: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) Me(ctx context.Context, actor entity.Actor) (*dto.UserResponse, error) {
	if !actor.Valid() {
		return nil, ErrMissingActor
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", actor.UserID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

// ChangePassword replaces the actor's password.
//
// Flow:
// 1. Verify the current password
// 2. Require the confirmation to match and the new password to differ from the current one
// 3. Store the new hash, commit
func (u *authUsecase) ChangePassword(ctx context.Context, actor entity.Actor, req *dto.ChangePasswordRequest) error {
	if !actor.Valid() {
		return ErrMissingActor
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", actor.UserID, err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		u.log.WithField("user_id", user.ID).Info("Password change rejected: current password mismatch")
		return ErrIncorrectPassword
	}
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.NewPassword)) == nil {
		return ErrPasswordUnchanged
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}
	user.Password = string(hashedPassword)

	if err := u.userRepo.Update(tx, actor, user); err != nil {
		if errors.Is(err, repoImpl.ErrStale) {
			return ErrUserNotFound
		}
		u.log.Warnf("Failed to update password: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit password change: %+v", err)
		return err
	}

	u.log.WithField("user_id", user.ID).Info("Password changed")
	return nil
}
