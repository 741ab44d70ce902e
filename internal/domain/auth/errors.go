package auth

import (
	"errors"

	"inkbook/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = user.ErrEmailTaken
	ErrUsernameTaken      = user.ErrUsernameTaken
)
