package auth

import (
	"errors"

	"movielib/proj/internal/domain/apperr"
)

var (
	ErrInvalidCredentials = apperr.New(apperr.ErrUnauthenticated, "invalid email or password")
	ErrEmailTaken         = apperr.New(apperr.ErrConflict, "user with this email already exists")
)

var (
	errInvalidToken = errors.New("invalid session token")
)
