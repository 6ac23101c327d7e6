package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile представляет профиль пользователя в системе
type Profile struct {
	ID             uuid.UUID `json:"id"`
	TelegramID     int64     `json:"telegram_id,omitempty"`
	Email          string    `json:"email,omitempty"`
	FullName       string    `json:"full_name"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	AvatarPublicID string    `json:"-"`
	Location       string    `json:"location,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	IsPublic       bool      `json:"is_public"`
	Availability   string    `json:"availability,omitempty"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserSummary представляет минимальную информацию о пользователе для API
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Location  string    `json:"location,omitempty"`
}
