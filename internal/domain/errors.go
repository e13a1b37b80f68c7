package domain

import "errors"

// Sentinel errors for store and token lookups.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError reports input the caller can correct: policy-violating
// passwords, duplicate registrations, invalid or expired single-use tokens.
// The message is safe to surface verbatim (422).
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthenticationError reports failed authentication (401). Messages are kept
// generic so callers cannot tell which factor failed.
type AuthenticationError struct {
	Message string
}

func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{Message: message}
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError reports an authenticated caller lacking privilege (403).
type AuthorizationError struct {
	Message string
}

func NewAuthorizationError(message string) *AuthorizationError {
	return &AuthorizationError{Message: message}
}

func (e *AuthorizationError) Error() string {
	return e.Message
}
