package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrChatNotFound       = errors.New("chat not found")
	ErrNotMember          = errors.New("not a member of this chat")
	ErrForbidden          = errors.New("forbidden")
	ErrFileNotFound       = errors.New("file not found")
)
