package identity

import "errors"

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("invalid email address")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenNotFound      = errors.New("verification token not found")
	ErrTokenExpired       = errors.New("verification token expired")
	ErrAlreadyVerified    = errors.New("email already verified")
)
