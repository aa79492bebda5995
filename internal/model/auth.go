package model

import "time"

// RegisterRequest fields are validated by the auth service, not by gin binding.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=5,max=30"`
	Name            string `json:"name" validate:"required,max=30"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=5,max=30"`
	Password string `json:"password" validate:"required,password"`
}

type User struct {
	ID           string
	Username     string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserDTO is the public projection of a User.
type UserDTO struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

func (u *User) DTO() UserDTO {
	return UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
	}
}

// RefreshToken is the single ledger row kept per user.
type RefreshToken struct {
	UserID    string
	TokenHash string
	UpdatedAt time.Time
}

type AuthResponse struct {
	User *UserDTO `json:"user"`
	Auth bool     `json:"auth"`
}
