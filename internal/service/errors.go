package service

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountInactive     = errors.New("account inactive")
	ErrRegistrationExpired = errors.New("registration session expired")
	ErrNotAuthenticated    = errors.New("not authenticated")
)

// ValidationError carries a message that is safe to show next to the form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// PersistenceError wraps a failed write of the user record.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// UploadError reports an identity document that could not be stored.
// Registration still completes.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("store identity document: %v", e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
