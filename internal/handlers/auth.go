package handlers

import (
	"github.com/gin-gonic/gin"

	"patient-portal-server/internal/services"
	"patient-portal-server/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Auth *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// SignupRequest represents the request body for user registration.
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Signup handles user registration.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if _, err := h.Auth.Signup(c.Request.Context(), services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Signup successful", nil)
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	session, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Login successful", gin.H{
		"token":        session.AccessToken,
		"refreshToken": session.RefreshToken,
		"user":         session.User,
	})
}

// RefreshTokenRequest represents the request body for refreshing a token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken exchanges a refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	session, err := h.Auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Token refreshed successfully", gin.H{
		"token":        session.AccessToken,
		"refreshToken": session.RefreshToken,
	})
}

// LogoutRequest represents the request body for logging out.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout revokes the given refresh token. Unknown tokens are not an error.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.RefreshToken != "" {
		if err := h.Auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
			utils.RespondError(c, err)
			return
		}
	}
	utils.Success(c, "Logged out successfully", nil)
}
