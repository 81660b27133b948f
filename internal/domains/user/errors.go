package user

import "bloglist-backend/internal/shared/apperr"

// Repository-level errors
var (
	ErrUserNotFound = apperr.NotFound("USER_NOT_FOUND", "user not found")

	ErrUsernameTaken = apperr.New(apperr.KindValidation, "USERNAME_TAKEN", "expected `username` to be unique").
		WithFields(map[string]string{"username": "expected `username` to be unique"})
)

// Service-level errors
var (
	// Same message for unknown username and wrong password
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")

	ErrTooManyAttempts = apperr.New(apperr.KindTooManyRequests, "TOO_MANY_ATTEMPTS", "too many login attempts, please try again later")
)
