package jwt

import (
	"testing"
	"time"

	"clinic-scheduling/config"
	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser() *entity.User {
	return &entity.User{ID: uuid.New(), Name: "Dr. Grey", Email: "grey@clinic.test", Role: entity.RoleDoctor}
}

func TestJWTService_RoundTripCarriesActor(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "secret", AccessExpiry: time.Minute})
	user := newUser()

	token, tokenID, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, tokenID, claims.TokenID)

	actor := claims.Actor()
	assert.Equal(t, user.ID, actor.UserID)
	assert.Equal(t, entity.RoleDoctor, actor.Role)
	assert.Equal(t, "grey@clinic.test", actor.Auditor())
	assert.True(t, actor.Valid())
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	issuer := NewJWTService(config.JWTConfig{Secret: "one", AccessExpiry: time.Minute})
	verifier := NewJWTService(config.JWTConfig{Secret: "two", AccessExpiry: time.Minute})

	token, _, err := issuer.GenerateAccessToken(newUser())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "secret", AccessExpiry: time.Minute})
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := svc.GenerateAccessToken(newUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
