package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-scheduling/config"
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/repository"
	"clinic-scheduling/internal/testutil"
	"clinic-scheduling/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserUsecase_Create(t *testing.T) {
	db := testutil.NewDB(t)
	admin := testutil.Admin(db, t)
	redisClient, _ := testutil.NewRedis(t)
	users := NewUserUsecase(db, newTestLogger(), repository.NewUserRepository(), redisClient)
	ctx := context.Background()

	created, err := users.Create(ctx, admin, &dto.CreateUserRequest{
		Name: "Dr. Grey", Email: " Grey@Clinic.Test ", Password: "s3cret-pass", Role: "doctor",
	})
	require.NoError(t, err)
	assert.Equal(t, "grey@clinic.test", created.Email)
	assert.Equal(t, "DOCTOR", created.Role)

	stored, err := repository.NewUserRepository().FindByID(db, created.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret-pass")))
	assert.Equal(t, "admin@clinic.test", stored.CreatedBy)

	_, err = users.Create(ctx, admin, &dto.CreateUserRequest{Name: "Copy", Email: "grey@clinic.test", Password: "s3cret-pass", Role: "DOCTOR"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, err = users.Create(ctx, admin, &dto.CreateUserRequest{Name: "Nurse", Email: "n@clinic.test", Password: "s3cret-pass", Role: "NURSE"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = users.Create(ctx, testutil.AsActor(stored), &dto.CreateUserRequest{Name: "X", Email: "x@clinic.test", Password: "s3cret-pass", Role: "ADMIN"})
	assert.ErrorIs(t, err, ErrAdminOnly)

	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
}

func TestUserUsecase_EnsureAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	redisClient, _ := testutil.NewRedis(t)
	users := NewUserUsecase(db, newTestLogger(), repository.NewUserRepository(), redisClient)
	ctx := context.Background()

	require.NoError(t, users.EnsureAdmin(ctx, config.AdminConfig{}))
	cfg := config.AdminConfig{Email: "root@clinic.test", Password: "bootstrap-pass", Name: "Root"}
	require.NoError(t, users.EnsureAdmin(ctx, cfg))
	require.NoError(t, users.EnsureAdmin(ctx, cfg))

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, string(entity.RoleAdmin), list.Users[0].Role)

	stored, err := repository.NewUserRepository().FindByEmail(db, "root@clinic.test")
	require.NoError(t, err)
	assert.Equal(t, entity.SystemAuditor, stored.CreatedBy)
}

func TestAuthUsecase_LoginLogout(t *testing.T) {
	db := testutil.NewDB(t)
	redisClient, server := testutil.NewRedis(t)
	log := newTestLogger()
	userRepo := repository.NewUserRepository()
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "secret", AccessExpiry: 10 * time.Minute})
	auth := NewAuthUsecase(db, log, userRepo, jwtService, redisClient)
	ctx := context.Background()

	require.NoError(t, NewUserUsecase(db, log, userRepo, redisClient).EnsureAdmin(ctx, config.AdminConfig{
		Email: "root@clinic.test", Password: "bootstrap-pass", Name: "Root",
	}))

	_, err := auth.Login(ctx, &dto.LoginRequest{Email: "root@clinic.test", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = auth.Login(ctx, &dto.LoginRequest{Email: "nobody@clinic.test", Password: "bootstrap-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, err := auth.Login(ctx, &dto.LoginRequest{Email: "ROOT@clinic.test", Password: "bootstrap-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, int64(600), token.ExpiresIn)

	claims, err := jwtService.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	actor := claims.Actor()
	key := AccessTokenKey(actor.UserID, claims.TokenID)
	assert.True(t, server.Exists(key))
	assert.Equal(t, 10*time.Minute, server.TTL(key))

	me, err := auth.Me(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, "Root", me.Name)

	require.NoError(t, auth.Logout(ctx, actor, claims.TokenID))
	assert.False(t, server.Exists(key))

	_, err = auth.Me(ctx, entity.Actor{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserUsecase_FindByIDAndDeactivate(t *testing.T) {
	db := testutil.NewDB(t)
	admin := testutil.Admin(db, t)
	redisClient, server := testutil.NewRedis(t)
	users := NewUserUsecase(db, newTestLogger(), repository.NewUserRepository(), redisClient)
	ctx := context.Background()

	doctor := testutil.SeedUser(db, t, "Dr. Grey", "grey@clinic.test", entity.RoleDoctor)
	require.NoError(t, server.Set(AccessTokenKey(doctor.ID, "first"), "valid"))
	require.NoError(t, server.Set(AccessTokenKey(doctor.ID, "second"), "valid"))
	require.NoError(t, server.Set(AccessTokenKey(admin.UserID, "admin"), "valid"))

	found, err := users.FindByID(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Grey", found.Name)

	_, err = users.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.ErrorIs(t, users.Deactivate(ctx, testutil.AsActor(doctor), admin.UserID), ErrAdminOnly)
	assert.ErrorIs(t, users.Deactivate(ctx, admin, admin.UserID), ErrSelfDeactivation)
	assert.ErrorIs(t, users.Deactivate(ctx, entity.Actor{}, doctor.ID), ErrUnauthorized)
	assert.ErrorIs(t, users.Deactivate(ctx, admin, uuid.New()), ErrUserNotFound)

	require.NoError(t, users.Deactivate(ctx, admin, doctor.ID))

	_, err = users.FindByID(ctx, doctor.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, users.Deactivate(ctx, admin, doctor.ID), ErrUserNotFound)

	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	var row entity.User
	require.NoError(t, db.Where("id = ?", doctor.ID).First(&row).Error)
	assert.True(t, row.Deleted)
	require.NotNil(t, row.DeletedBy)
	assert.Equal(t, "admin@clinic.test", *row.DeletedBy)

	assert.False(t, server.Exists(AccessTokenKey(doctor.ID, "first")))
	assert.False(t, server.Exists(AccessTokenKey(doctor.ID, "second")))
	assert.True(t, server.Exists(AccessTokenKey(admin.UserID, "admin")))
}

func TestAuthUsecase_ChangePassword(t *testing.T) {
	db := testutil.NewDB(t)
	redisClient, _ := testutil.NewRedis(t)
	log := newTestLogger()
	userRepo := repository.NewUserRepository()
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "secret", AccessExpiry: 10 * time.Minute})
	auth := NewAuthUsecase(db, log, userRepo, jwtService, redisClient)
	ctx := context.Background()

	require.NoError(t, NewUserUsecase(db, log, userRepo, redisClient).EnsureAdmin(ctx, config.AdminConfig{
		Email: "root@clinic.test", Password: "bootstrap-pass", Name: "Root",
	}))
	user, err := userRepo.FindByEmail(db, "root@clinic.test")
	require.NoError(t, err)
	actor := testutil.AsActor(user)

	tests := []struct {
		name string
		req  dto.ChangePasswordRequest
		want error
	}{
		{name: "wrong current password", req: dto.ChangePasswordRequest{CurrentPassword: "guess", NewPassword: "rotated-pass", ConfirmPassword: "rotated-pass"}, want: ErrIncorrectPassword},
		{name: "confirmation differs", req: dto.ChangePasswordRequest{CurrentPassword: "bootstrap-pass", NewPassword: "rotated-pass", ConfirmPassword: "rotated-typo"}, want: ErrPasswordMismatch},
		{name: "same as current", req: dto.ChangePasswordRequest{CurrentPassword: "bootstrap-pass", NewPassword: "bootstrap-pass", ConfirmPassword: "bootstrap-pass"}, want: ErrPasswordUnchanged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			assert.ErrorIs(t, auth.ChangePassword(ctx, actor, &req), tt.want)
		})
	}

	assert.ErrorIs(t, auth.ChangePassword(ctx, entity.Actor{}, &dto.ChangePasswordRequest{}), ErrUnauthorized)

	require.NoError(t, auth.ChangePassword(ctx, actor, &dto.ChangePasswordRequest{
		CurrentPassword: "bootstrap-pass", NewPassword: "rotated-pass", ConfirmPassword: "rotated-pass",
	}))

	_, err = auth.Login(ctx, &dto.LoginRequest{Email: "root@clinic.test", Password: "bootstrap-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, &dto.LoginRequest{Email: "root@clinic.test", Password: "rotated-pass"})
	require.NoError(t, err)

	stored, err := userRepo.FindByID(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "root@clinic.test", stored.UpdatedBy)
	assert.Equal(t, entity.SystemAuditor, stored.CreatedBy)
}
