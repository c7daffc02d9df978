package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"patient-portal-server/internal/apperrors"
	"patient-portal-server/internal/config"
	"patient-portal-server/internal/models"
	"patient-portal-server/internal/repository"
	"patient-portal-server/internal/utils"
)

// SignupInput carries a registration request.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// ProfileUpdate carries a profile edit. Nil fields are left untouched.
type ProfileUpdate struct {
	Name                 *string
	Phone                *string
	Address              *string
	NotificationsEnabled *bool
	Language             *string
}

// Session is the result of a successful login or refresh.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         models.UserSanitized
}

// AuthService manages user accounts and token issuance.
type AuthService struct {
	users  UserRepository
	tokens RefreshTokenRepository
	cfg    *config.Config
	log    zerolog.Logger
}

func NewAuthService(users UserRepository, tokens RefreshTokenRepository, cfg *config.Config, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, cfg: cfg, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new user.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidation("User already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Wrap(err, "Error signing up")
	}

	user := &models.User{
		Name:                 strings.TrimSpace(in.Name),
		Email:                email,
		NotificationsEnabled: true,
		Language:             "English",
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, apperrors.Wrap(err, "Error signing up")
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewValidation("User already exists")
		}
		s.log.Error().Err(err).Msg("create user")
		return nil, apperrors.Wrap(err, "Error signing up")
	}
	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login checks credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewValidation("Invalid credentials")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "Login failed")
	}
	if !user.CheckPassword(password) {
		return nil, apperrors.NewValidation("Invalid credentials")
	}
	return s.issue(ctx, user)
}

// Refresh exchanges a refresh token for a new token pair and revokes the old one.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := utils.ValidateToken(refreshToken, s.cfg.JWTRefreshSecret)
	if err != nil {
		return nil, apperrors.NewUnauthorized("Invalid refresh token")
	}
	stored, err := s.tokens.FindActive(ctx, refreshToken)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewUnauthorized("Refresh token not found, expired, or revoked")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "Error checking refresh token")
	}
	if stored.UserID != claims.UserID || !stored.Usable(time.Now()) {
		return nil, apperrors.NewUnauthorized("Refresh token not found, expired, or revoked")
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.NewUnauthorized("User no longer exists")
	}
	if err := s.tokens.Revoke(ctx, stored); err != nil {
		return nil, apperrors.Wrap(err, "Error revoking refresh token")
	}
	return s.issue(ctx, user)
}

// Logout revokes refreshToken if it is still active.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	stored, err := s.tokens.FindActive(ctx, refreshToken)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.Wrap(err, "Error during logout")
	}
	if err := s.tokens.Revoke(ctx, stored); err != nil {
		return apperrors.Wrap(err, "Error revoking refresh token")
	}
	return nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*Session, error) {
	access, refresh, err := utils.GenerateTokens(user, s.cfg)
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to generate tokens")
	}
	token := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.JWTRefreshExpirationHours) * time.Hour),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, apperrors.Wrap(err, "Failed to store refresh token")
	}
	return &Session{AccessToken: access, RefreshToken: refresh, User: user.Sanitize()}, nil
}

// Profile returns the user's own profile.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("User not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "Error fetching profile")
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of in. An empty name or
// language is ignored; phone and address may be cleared.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.NotificationsEnabled != nil {
		user.NotificationsEnabled = *in.NotificationsEnabled
	}
	if in.Language != nil && *in.Language != "" {
		user.Language = *in.Language
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, apperrors.Wrap(err, "Error updating profile")
	}
	return user, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if current == "" || next == "" {
		return apperrors.NewValidation("Please provide current and new password")
	}
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(current) {
		return apperrors.NewValidation("Current password is incorrect")
	}
	if err := user.SetPassword(next); err != nil {
		return apperrors.Wrap(err, "Error changing password")
	}
	if err := s.users.Save(ctx, user); err != nil {
		return apperrors.Wrap(err, "Error changing password")
	}
	return nil
}
