package dto

import "github.com/hongminglow/authflow/internal/models"

type RegisterRequest struct {
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// UserResponse is returned by /user/me and /register.
type UserResponse struct {
	User *models.User `json:"user"`
}

// ErrorResponse is the failure body of every endpoint.
type ErrorResponse struct {
	Message string `json:"message"`
}
