package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrNetwork       = errors.New("network error")
	ErrNotSignedIn   = errors.New("not signed in")
	ErrNoLiveCatalog = errors.New("no live catalog")
	ErrWrongStage    = errors.New("action not allowed at this step")

	// business errors reported by the remote API
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTooManyAttempts    = errors.New("too many attempts, please try again later")
	ErrEmailTaken         = errors.New("this email is already registered")
	ErrSessionExpired     = errors.New("session expired")
	ErrFullyBooked        = errors.New("this room is fully booked for the selected dates")
	ErrRemote             = errors.New("server error")
)

// ValidationError is a locally detected input problem; it never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(field, msg string) error { return &ValidationError{Field: field, Message: msg} }

// APIError carries a remote error message next to the sentinel it maps to.
type APIError struct {
	Status  int
	Message string
	Kind    error
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return ErrRemote.Error()
}

func (e *APIError) Unwrap() error {
	if e.Kind == nil {
		return ErrRemote
	}
	return e.Kind
}
