package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/learnloop/community-backend/pkg/db/models"
)

// CreateUserDTO carries the fields needed to persist a new user.
type CreateUserDTO struct {
	Email        string
	DisplayName  string
	PasswordHash string
	AvatarURL    *string
}

// ToModel converts the DTO into the persistence model.
func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:        d.Email,
		DisplayName:  d.DisplayName,
		PasswordHash: d.PasswordHash,
		AvatarURL:    d.AvatarURL,
		IsActive:     true,
	}
}

// ProfileDTO is the transport shape for a user's own profile.
type ProfileDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToProfileDTO converts a model into the external profile shape.
func ToProfileDTO(u *models.User) *ProfileDTO {
	if u == nil {
		return nil
	}
	return &ProfileDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// UpdateProfileInput captures the fields a user may edit on themselves.
type UpdateProfileInput struct {
	DisplayName *string
	AvatarURL   *string
}
