package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patient-portal-server/internal/apperrors"
	"patient-portal-server/internal/config"
	"patient-portal-server/internal/services/servicetest"
	"patient-portal-server/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "access-secret",
		JWTRefreshSecret:          "refresh-secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 24,
	}
}

func newAuthService() *AuthService {
	return NewAuthService(servicetest.NewUserRepo(), servicetest.NewRefreshTokenRepo(), testConfig(), zerolog.Nop())
}

func TestSignupAndLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupInput{Name: " Ada ", Email: "Ada@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, user.NotificationsEnabled)
	assert.NotEqual(t, "secret123", user.Password)

	_, err = svc.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "other"})
	requireKind(t, err, apperrors.Validation)

	session, err := svc.Login(ctx, "ADA@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)

	claims, err := utils.ValidateToken(session.AccessToken, "access-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = svc.Login(ctx, "ada@example.com", "wrong")
	requireKind(t, err, apperrors.Validation)
	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	requireKind(t, err, apperrors.Validation)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	_, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)
	session, err := svc.Login(ctx, "ada@example.com", "secret123")
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, next.RefreshToken)

	_, err = svc.Refresh(ctx, session.RefreshToken)
	requireKind(t, err, apperrors.Unauthorized)

	_, err = svc.Refresh(ctx, session.AccessToken)
	requireKind(t, err, apperrors.Unauthorized)

	require.NoError(t, svc.Logout(ctx, next.RefreshToken))
	_, err = svc.Refresh(ctx, next.RefreshToken)
	requireKind(t, err, apperrors.Unauthorized)

	require.NoError(t, svc.Logout(ctx, "unknown"))
}

func TestUpdateProfile(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	user, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	blank, phone, off := "  ", "+100", false
	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Name: &blank, Phone: &phone, NotificationsEnabled: &off})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, "+100", updated.Phone)
	assert.False(t, updated.NotificationsEnabled)
	assert.Equal(t, "English", updated.Language)

	_, err = svc.UpdateProfile(ctx, "missing", ProfileUpdate{})
	requireKind(t, err, apperrors.NotFound)
}

func TestChangePassword(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	user, err := svc.Signup(ctx, SignupInput{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)

	requireKind(t, svc.ChangePassword(ctx, user.ID, "", "next"), apperrors.Validation)
	requireKind(t, svc.ChangePassword(ctx, user.ID, "wrong", "next456"), apperrors.Validation)
	require.NoError(t, svc.ChangePassword(ctx, user.ID, "secret123", "next456"))

	_, err = svc.Login(ctx, "ada@example.com", "secret123")
	requireKind(t, err, apperrors.Validation)
	_, err = svc.Login(ctx, "ada@example.com", "next456")
	require.NoError(t, err)
}
