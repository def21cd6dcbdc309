package service

import (
	"errors"
	"fmt"
)

var (
	ErrForbidden      = errors.New("forbidden")
	ErrSessionExpired = errors.New("session expired")

	errVaultRequired = errors.New("vault is required")
)

// ValidationError wraps input that failed struct validation before any
// request was sent.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
