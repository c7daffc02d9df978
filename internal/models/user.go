package models

import (
	"golang.org/x/crypto/bcrypt"
)

// User represents a patient account in the portal
type User struct {
	BaseModel
	Name                 string `gorm:"size:100;not null" json:"name"`
	Email                string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password             string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	Phone                string `gorm:"size:50" json:"phone"`
	Address              string `gorm:"size:255" json:"address"`
	NotificationsEnabled bool   `gorm:"default:true" json:"notificationsEnabled"`
	Language             string `gorm:"size:50;default:'English'" json:"language"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	Address              string `json:"address"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	Language             string `json:"language"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:                   u.ID,
		Name:                 u.Name,
		Email:                u.Email,
		Phone:                u.Phone,
		Address:              u.Address,
		NotificationsEnabled: u.NotificationsEnabled,
		Language:             u.Language,
	}
}
