package user

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already exists")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrInvalidUsername = errors.New("username must be 3-30 lowercase letters, digits, dots or underscores")
)
