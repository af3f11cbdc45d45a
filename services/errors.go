package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNotPending         = errors.New("application is not pending")
	ErrNotConfigured      = errors.New("provider not configured")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired verification link")
	ErrBadInput           = errors.New("bad input")
)

// notFound turns gorm's record-not-found into ErrNotFound and leaves other
// errors alone.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }
func (e *inputError) Unwrap() error { return ErrBadInput }

func badInput(msg string) error {
	return &inputError{msg: msg}
}
