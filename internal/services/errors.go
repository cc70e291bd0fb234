package services

import (
	"errors"
	"fmt"
)

// Sentinel errors the HTTP layer maps to status codes
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access denied")
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrDuplicateRequest   = errors.New("you already have an active request for this animal")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrConflict           = errors.New("conflict with current state")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")
)

// ValidationError carries a user-facing message for a bad request
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Validationf builds a ValidationError
func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
