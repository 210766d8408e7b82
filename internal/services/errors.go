package services

import "errors"

// Service errors
var (
	// Submission errors
	ErrInvalidStatus = errors.New("invalid submission status")

	// Export errors
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionExpired     = errors.New("session expired")
	ErrNotAdmin           = errors.New("user is not an admin")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidEmail       = errors.New("invalid email address")

	// Pricing errors
	ErrInvalidPrice = errors.New("invalid price")
)
