package domain

import "github.com/wrxx97/chat/pkg/model"

// User is a stored account. The hash never leaves the service layer.
type User struct {
	model.User
	PasswordHash string `json:"-"`
}

type SignupRequest struct {
	Fullname  string `json:"fullname" binding:"required,max=64"`
	Email     string `json:"email" binding:"required,email,max=64"`
	Password  string `json:"password" binding:"required,min=6"`
	Workspace string `json:"workspace" binding:"required,max=64"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
}
