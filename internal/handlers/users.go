package handlers

import (
	"github.com/gin-gonic/gin"

	"patient-portal-server/internal/services"
	"patient-portal-server/internal/utils"
)

// UserHandler handles the signed-in user's own account.
type UserHandler struct {
	Auth *services.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(auth *services.AuthService) *UserHandler {
	return &UserHandler{Auth: auth}
}

// GetProfile returns the caller's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := h.Auth.Profile(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "", gin.H{"user": user.Sanitize()})
}

// UpdateProfileRequest represents the request body for a profile edit.
type UpdateProfileRequest struct {
	Name                 *string `json:"name"`
	Phone                *string `json:"phone"`
	Address              *string `json:"address"`
	NotificationsEnabled *bool   `json:"notificationsEnabled"`
	Language             *string `json:"language"`
}

// UpdateProfile applies the fields present in the request body.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Auth.UpdateProfile(c.Request.Context(), userID, services.ProfileUpdate{
		Name:                 req.Name,
		Phone:                req.Phone,
		Address:              req.Address,
		NotificationsEnabled: req.NotificationsEnabled,
		Language:             req.Language,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Profile updated successfully", gin.H{"user": user.Sanitize()})
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword replaces the caller's password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.Auth.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Password changed successfully", nil)
}
