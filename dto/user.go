package dto

import (
	"time"

	"inkwell/models"
)

// UserSummaryDTO is the public author projection: never credentials.
type UserSummaryDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar,omitempty"`
}

func NewUserSummaryDTO(s models.UserSummary) UserSummaryDTO {
	return UserSummaryDTO{
		ID:       s.ID.Hex(),
		Username: s.Username,
		FullName: s.FullName,
		Avatar:   s.Avatar,
	}
}

// UserDTO is the account view returned by register/login/me.
type UserDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserDTO(u models.User) UserDTO {
	return UserDTO{
		ID:        u.ID.Hex(),
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

// LoginResultDTO bundles the issued access token with the account.
type LoginResultDTO struct {
	User        UserDTO `json:"user"`
	AccessToken string  `json:"access_token"`
}
